package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"mindbridge/internal/audio"
	"mindbridge/internal/config"
	"mindbridge/internal/database"
	"mindbridge/internal/game"
	"mindbridge/internal/handlers"
	"mindbridge/internal/repository"
	"mindbridge/internal/resultstore"
	"mindbridge/internal/security"
	"mindbridge/internal/service"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	resultWriteTimeout = 10 * time.Second
	authRateLimit      = 10
	shutdownTimeout    = 15 * time.Second
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := resultstore.Open(ctx, cfg, db)
	if err != nil {
		log.Fatalf("Failed to open result store: %v", err)
	}
	log.Printf("Result store ready (backend: %s)", cfg.ResultStore)

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.Debug)
	if err != nil {
		log.Printf("Warning: email disabled: %v", err)
		emailService = nil
	}

	// Initialize services
	authService := service.NewAuthService(repository.NewUserRepository(db), security.NewTokenIssuer(cfg.SecretKey), emailService, cfg.SessionDuration)
	resultService := service.NewResultService(store, emailService)
	reporter := game.NewReporter(resultService, resultWriteTimeout)
	games := service.NewGameService(reporter, cfg.Debug)
	recommendService := service.NewRecommendService(resultService)

	oauthProviders := map[string]handlers.OAuthProvider{
		"google": {
			Name:  "google",
			Label: "Google",
			Config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				Endpoint:     google.Endpoint,
				Scopes:       []string{"openid", "email", "profile"},
			},
			UserInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		},
	}

	// Spoken prompts are optional; a nil service leaves game details without audio
	var ttsService *audio.TTSService
	if cfg.AudioEnabled {
		ttsService = audio.NewTTSService(filepath.Join(cfg.StaticFilesPath, "audio"))
		go prepareAudio(ctx, ttsService)
	}

	csrf := security.NewCSRFGenerator(cfg.SecretKey)
	limiter := security.NewRateLimiter(authRateLimit, time.Minute)
	defer limiter.Stop()
	gameLimiter := security.NewRateLimiter(cfg.GameStartsPerMinute, time.Minute)
	defer gameLimiter.Stop()

	router := &handlers.Router{
		Middleware: handlers.NewMiddleware(authService, csrf, limiter).WithGameLimiter(gameLimiter),
		Auth:       handlers.NewAuthHandler(authService, csrf, oauthProviders, cfg.OAuthRedirectBaseURL),
		Games:      handlers.NewGameHandler(games, ttsService),
		Events:     handlers.NewEventsHandler(games),
		Results:    handlers.NewResultsHandler(resultService, recommendService),
		Health:     handlers.NewHealthHandler(db, games),
		StaticPath: cfg.StaticFilesPath,
	}

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background session cleanup
	go cleanupExpiredSessions(ctx, authService)
	go evictIdleGames(ctx, games, cfg.GameIdleTimeout)

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Server failed: %v", err)
			stop()
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()
	log.Println("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}
	// closes live sessions and waits for pending result writes
	games.Shutdown()
	if err := store.Close(shutdownCtx); err != nil {
		log.Printf("Error closing result store: %v", err)
	}

	log.Println("Server stopped")
}

func prepareAudio(ctx context.Context, tts *audio.TTSService) {
	n, err := tts.GenerateCatalogAudio(ctx)
	if err != nil {
		log.Printf("Warning: Failed to generate prompt audio: %v", err)
	} else if n > 0 {
		log.Printf("Generated %d prompt audio files", n)
	}

	if removed, err := tts.CleanupOrphanedAudio(); err != nil {
		log.Printf("Warning: Failed to cleanup orphaned audio files: %v", err)
	} else if removed > 0 {
		log.Printf("Removed %d orphaned audio files", removed)
	}
}

// cleanupExpiredSessions periodically removes expired sessions
func cleanupExpiredSessions(ctx context.Context, authService *service.AuthService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := authService.CleanupExpiredSessions()
			if err != nil {
				log.Printf("Error cleaning up expired sessions: %v", err)
				continue
			}
			log.Printf("Expired sessions cleaned up: %d", n)
		}
	}
}

// evictIdleGames closes live game sessions abandoned for longer than ttl
func evictIdleGames(ctx context.Context, games *service.GameService, ttl time.Duration) {
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := games.EvictIdle(ttl); n > 0 {
				log.Printf("Closed %d idle game sessions", n)
			}
		}
	}
}
