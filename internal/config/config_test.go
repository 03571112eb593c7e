package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_TYPE", "RESULT_STORE", "SESSION_DURATION", "AUDIO_ENABLED", "GAME_IDLE_TIMEOUT", "GAME_STARTS_PER_MINUTE"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("DatabaseType = %q, want sqlite", cfg.DatabaseType)
	}
	if cfg.ResultStore != "sql" {
		t.Errorf("ResultStore = %q, want sql", cfg.ResultStore)
	}
	if cfg.SessionDuration != 24*time.Hour {
		t.Errorf("SessionDuration = %s, want 24h", cfg.SessionDuration)
	}
	if cfg.AudioEnabled {
		t.Error("AudioEnabled should default to false")
	}
	if cfg.GameIdleTimeout != 30*time.Minute {
		t.Errorf("GameIdleTimeout = %s, want 30m", cfg.GameIdleTimeout)
	}
	if cfg.GameStartsPerMinute != 30 {
		t.Errorf("GameStartsPerMinute = %d, want 30", cfg.GameStartsPerMinute)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_TYPE", "Postgres")
	t.Setenv("RESULT_STORE", "MONGO")
	t.Setenv("SESSION_DURATION", "2h")
	t.Setenv("AUDIO_ENABLED", "true")

	cfg := Load()

	if cfg.ServerPort != "9090" {
		t.Errorf("ServerPort = %q, want 9090", cfg.ServerPort)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("DatabaseType = %q, want postgres", cfg.DatabaseType)
	}
	if cfg.ResultStore != "mongo" {
		t.Errorf("ResultStore = %q, want mongo", cfg.ResultStore)
	}
	if cfg.SessionDuration != 2*time.Hour {
		t.Errorf("SessionDuration = %s, want 2h", cfg.SessionDuration)
	}
	if !cfg.AudioEnabled {
		t.Error("AudioEnabled should be true")
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("SESSION_DURATION", "soon")
	t.Setenv("AUDIO_ENABLED", "maybe")
	t.Setenv("GAME_STARTS_PER_MINUTE", "lots")

	cfg := Load()

	if cfg.SessionDuration != 24*time.Hour {
		t.Errorf("SessionDuration = %s, want default 24h", cfg.SessionDuration)
	}
	if cfg.AudioEnabled {
		t.Error("AudioEnabled should fall back to false")
	}
	if cfg.GameStartsPerMinute != 30 {
		t.Errorf("GameStartsPerMinute = %d, want default 30", cfg.GameStartsPerMinute)
	}
}
