package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "PORT", "DB_PATH", "BACKEND_URL", "BACKEND_TIMEOUT", "REDIS_ADDR", "RECENT_LIMIT", "CORS_ORIGINS", "SESSION_IDLE"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != defaultPort || cfg.DBPath != defaultDBPath || cfg.RecentLimit != defaultRecentLimit {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.BackendTimeout != defaultBackendTimeout || cfg.SessionIdle != defaultSessionIdle {
		t.Fatalf("unexpected duration defaults: %+v", cfg)
	}
	if !cfg.IsDev() {
		t.Fatalf("expected development by default")
	}
}

func TestLoadParsesValuesAndFallsBackOnGarbage(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("BACKEND_TIMEOUT", "3s")
	t.Setenv("RECENT_LIMIT", "-2")
	t.Setenv("RATE_LIMIT_RPS", "0.5")
	t.Setenv("HANDOFF_TTL", "mañana")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, https://app.example.com ,")

	cfg := Load()
	if cfg.IsDev() {
		t.Fatalf("production must not be dev")
	}
	if cfg.BackendTimeout != 3*time.Second {
		t.Fatalf("BackendTimeout = %v", cfg.BackendTimeout)
	}
	if cfg.RecentLimit != defaultRecentLimit {
		t.Fatalf("RecentLimit = %d, want default", cfg.RecentLimit)
	}
	if cfg.RateLimitRPS != 0.5 {
		t.Fatalf("RateLimitRPS = %v", cfg.RateLimitRPS)
	}
	if cfg.HandoffTTL != defaultHandoffTTL {
		t.Fatalf("HandoffTTL = %v, want default", cfg.HandoffTTL)
	}
	want := []string{"http://localhost:5173", "https://app.example.com"}
	if !reflect.DeepEqual(cfg.CORSOrigins, want) {
		t.Fatalf("CORSOrigins = %v, want %v", cfg.CORSOrigins, want)
	}
}
