package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort      string
	DatabaseType    string
	DatabasePath    string
	DatabaseURL     string
	SessionDuration time.Duration
	StaticFilesPath string
	MigrationsPath  string
	SecretKey       string

	// Result persistence: "sql" (default) or "mongo"
	ResultStore   string
	MongoURI      string
	MongoDatabase string

	GoogleClientID       string
	GoogleClientSecret   string
	OAuthRedirectBaseURL string

	AWSRegion    string
	SESFromEmail string
	SESFromName  string
	AppBaseURL   string

	// Live game sessions unused for this long are closed
	GameIdleTimeout time.Duration
	// Session starts allowed per client per minute
	GameStartsPerMinute int

	AudioEnabled bool
	Debug        bool
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is applied first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	return &Config{
		ServerPort:           getEnv("PORT", "8080"),
		DatabaseType:         strings.ToLower(getEnv("DB_TYPE", "sqlite")),
		DatabasePath:         getEnv("DB_PATH", "./mindbridge.db"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		SessionDuration:      getEnvDuration("SESSION_DURATION", 24*time.Hour),
		StaticFilesPath:      getEnv("STATIC_PATH", "./static"),
		MigrationsPath:       getEnv("MIGRATIONS_PATH", "./migrations"),
		SecretKey:            getEnv("SECRET_KEY", "change-me-in-production"),
		ResultStore:          strings.ToLower(getEnv("RESULT_STORE", "sql")),
		MongoURI:             getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:        getEnv("MONGO_DATABASE", "mindbridge"),
		GoogleClientID:       getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:   getEnv("GOOGLE_CLIENT_SECRET", ""),
		OAuthRedirectBaseURL: getEnv("OAUTH_REDIRECT_BASE_URL", ""),
		AWSRegion:            getEnv("AWS_REGION", "us-east-1"),
		SESFromEmail:         getEnv("SES_FROM_EMAIL", ""),
		SESFromName:          getEnv("SES_FROM_NAME", "MindBridge"),
		AppBaseURL:           getEnv("APP_BASE_URL", "http://localhost:8080"),
		GameIdleTimeout:      getEnvDuration("GAME_IDLE_TIMEOUT", 30*time.Minute),
		GameStartsPerMinute:  getEnvInt("GAME_STARTS_PER_MINUTE", 30),
		AudioEnabled:         getEnvBool("AUDIO_ENABLED", false),
		Debug:                getEnvBool("DEBUG", false),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Warning: invalid boolean for %s=%q, using default %v", key, value, defaultValue)
		return defaultValue
	}
	return b
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		log.Printf("Warning: invalid integer for %s=%q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid duration for %s=%q, using default %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
