package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/Simplici0/comparativas/internal/catalog"
	"github.com/Simplici0/comparativas/internal/comparison"
	"github.com/Simplici0/comparativas/internal/wizard"
)

const requestTimeout = 30 * time.Second

type tariffStore interface {
	List(ctx context.Context) ([]catalog.Tariff, error)
	Create(ctx context.Context, t catalog.Tariff) (catalog.Tariff, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

type server struct {
	sessions    *wizard.Sessions
	comparisons *comparison.Service
	tariffs     tariffStore
	recentLimit int
}

type routeOptions struct {
	corsOrigins []string
	tokenCookie string
	limiter     *ipRateLimiter
}

func (s *server) routes(opts routeOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(corsHandler(opts.corsOrigins))
	r.Use(tokenMiddleware(opts.tokenCookie))
	if opts.limiter != nil {
		r.Use(opts.limiter.middleware)
	}

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/wizard", s.handleWizardCreate)
		r.Get("/wizard/{id}", s.handleWizardGet)
		r.Post("/wizard/{id}/actions", s.handleWizardAction)
		r.Post("/wizard/{id}/undo", s.handleWizardUndo)
		r.Delete("/wizard/{id}", s.handleWizardDelete)

		r.Get("/comparativas/recent", s.handleRecent)
		r.Post("/comparativas", s.handleComparisonCreate)
		r.Delete("/comparativas/{id}", s.handleComparisonDelete)
		r.Get("/comparativas/{id}/export", s.handleComparisonExport)

		r.Get("/resultados/{uuid}", s.handleResults)

		r.Get("/tarifas", s.handleTariffsList)
		r.Post("/tarifas", s.handleTariffCreate)
		r.Post("/tarifas/{id}/active", s.handleTariffSetActive)
	})

	return r
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
	}
	if len(origins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	} else {
		opts.AllowCredentials = true
	}
	return cors.New(opts).Handler
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	})
}
