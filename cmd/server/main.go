package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Simplici0/comparativas/internal/backend"
	"github.com/Simplici0/comparativas/internal/catalog"
	"github.com/Simplici0/comparativas/internal/comparison"
	"github.com/Simplici0/comparativas/internal/config"
	"github.com/Simplici0/comparativas/internal/db"
	"github.com/Simplici0/comparativas/internal/handoff"
	"github.com/Simplici0/comparativas/internal/migrations"
	"github.com/Simplici0/comparativas/internal/regulated"
	"github.com/Simplici0/comparativas/internal/seed"
	"github.com/Simplici0/comparativas/internal/wizard"
)

const (
	janitorInterval = time.Minute
	limiterIdle     = 10 * time.Minute
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}

// run starts the server and blocks until it fails or receives SIGINT/SIGTERM.
func run() error {
	cfg := config.Load()
	setupLogger(cfg.IsDev())

	constants, err := regulated.Load(cfg.RegulatedFile)
	if err != nil {
		return fmt.Errorf("load regulated constants: %w", err)
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := migrations.Up(database); err != nil {
		return err
	}
	if cfg.IsDev() {
		stats, err := seed.Run(context.Background(), database)
		if err != nil {
			return fmt.Errorf("seed tariff catalog: %w", err)
		}
		log.Info().Int("inserts", stats.Inserts).Int("skipped", stats.Skipped).Msg("tariff catalog seeded")
	}

	var store comparison.Store
	if cfg.BackendURL != "" {
		store = backend.NewClient(cfg.BackendURL, cfg.BackendTimeout)
	} else {
		store = comparison.NewSQLStore(database)
	}

	var handoffs handoff.Store
	memory := handoff.NewMemoryStore(cfg.HandoffTTL)
	if cfg.RedisAddr != "" {
		redisStore := handoff.NewRedisStore(cfg.RedisAddr, cfg.HandoffTTL)
		defer redisStore.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisStore.Ping(ctx)
		cancel()
		if err != nil {
			return fmt.Errorf("redis at %s: %w", cfg.RedisAddr, err)
		}
		handoffs = redisStore
	} else {
		handoffs = memory
	}

	tariffs := catalog.NewSQLStore(database)
	srv := &server{
		sessions:    wizard.NewSessions(0),
		comparisons: comparison.NewService(store, tariffs, handoffs, constants, cfg.RecentLimit),
		tariffs:     tariffs,
		recentLimit: cfg.RecentLimit,
	}
	limiter := newIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	httpServer := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: srv.routes(routeOptions{
			corsOrigins: cfg.CORSOrigins,
			tokenCookie: cfg.TokenCookie,
			limiter:     limiter,
		}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go runJanitor(ctx, srv.sessions, limiter, memory, cfg.SessionIdle)

	serverErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", httpServer.Addr).
			Str("env", cfg.Env).
			Bool("remote_backend", cfg.BackendURL != "").
			Bool("redis_handoff", cfg.RedisAddr != "").
			Msg("starting comparativas server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
		log.Info().Msg("shutting down server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info().Msg("server exited")
	return nil
}

// runJanitor drops idle wizard sessions, stale rate limiters and expired
// in-memory handoffs until ctx is done.
func runJanitor(ctx context.Context, sessions *wizard.Sessions, limiter *ipRateLimiter, memory *handoff.MemoryStore, idle time.Duration) {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := sessions.Sweep(idle)
			limiter.sweep(limiterIdle)
			memory.Purge()
			if removed > 0 {
				log.Debug().Int("sessions", removed).Msg("swept idle wizard sessions")
			}
		}
	}
}
