package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	defaultEnv            = "development"
	defaultDBPath         = "./comparativas.db"
	defaultPort           = "8080"
	defaultTokenCookie    = "token"
	defaultBackendTimeout = 15 * time.Second
	defaultHandoffTTL     = 24 * time.Hour
	defaultSessionIdle    = 2 * time.Hour
	defaultRecentLimit    = 5
	defaultRateLimitRPS   = 5
	defaultRateLimitBurst = 10
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env            string
	Port           string
	DBPath         string
	BackendURL     string
	BackendTimeout time.Duration
	TokenCookie    string
	RedisAddr      string
	HandoffTTL     time.Duration
	RegulatedFile  string
	RecentLimit    int
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
	SessionIdle    time.Duration
}

// Load reads environment variables and returns a populated Config.
// Invalid values are logged and replaced by their defaults.
func Load() Config {
	// Best-effort: production injects real environment variables.
	if err := loadDotEnv(".env"); err != nil {
		log.Warn().Err(err).Msg("could not read .env")
	}

	cfg := Config{
		Env:            envString("APP_ENV", defaultEnv),
		Port:           envString("PORT", defaultPort),
		DBPath:         envString("DB_PATH", defaultDBPath),
		BackendURL:     strings.TrimSpace(os.Getenv("BACKEND_URL")),
		BackendTimeout: envDuration("BACKEND_TIMEOUT", defaultBackendTimeout),
		TokenCookie:    envString("TOKEN_COOKIE", defaultTokenCookie),
		RedisAddr:      strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		HandoffTTL:     envDuration("HANDOFF_TTL", defaultHandoffTTL),
		RegulatedFile:  strings.TrimSpace(os.Getenv("REGULATED_FILE")),
		RecentLimit:    envInt("RECENT_LIMIT", defaultRecentLimit),
		CORSOrigins:    envList("CORS_ORIGINS"),
		RateLimitRPS:   envFloat("RATE_LIMIT_RPS", defaultRateLimitRPS),
		RateLimitBurst: envInt("RATE_LIMIT_BURST", defaultRateLimitBurst),
		SessionIdle:    envDuration("SESSION_IDLE", defaultSessionIdle),
	}

	if cfg.BackendURL == "" {
		log.Warn().Msg("BACKEND_URL is not set, comparisons are stored in the local database")
	}
	if cfg.RedisAddr == "" {
		log.Warn().Msg("REDIS_ADDR is not set, results are handed off in memory")
	}

	return cfg
}

// IsDev reports whether the service runs in a development environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.Env) {
	case "", "dev", "development", "local":
		return true
	default:
		return false
	}
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		log.Warn().Str("key", key).Str("value", raw).Int("default", fallback).Msg("invalid integer, using default")
		return fallback
	}
	return v
}

func envFloat(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		log.Warn().Str("key", key).Str("value", raw).Float64("default", fallback).Msg("invalid number, using default")
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		log.Warn().Str("key", key).Str("value", raw).Dur("default", fallback).Msg("invalid duration, using default")
		return fallback
	}
	return v
}

func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
