package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/praveenks/lendbook/internal/adapter/http/handler"
	"github.com/praveenks/lendbook/internal/adapter/http/middleware"
	"github.com/praveenks/lendbook/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	LoanHandler       *handler.LoanHandler
	CollectionHandler *handler.CollectionHandler
	LedgerHandler     *handler.LedgerHandler
	HealthHandler     *handler.HealthHandler
	IdempotencyStore  usecase.IdempotencyStore
	IdempotencyTTL    time.Duration
	Logger            zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Metrics)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Loans
		r.Route("/loans", func(r chi.Router) {
			r.Post("/", cfg.LoanHandler.Create)
			r.Get("/", cfg.LoanHandler.List)
			r.Get("/{id}", cfg.LoanHandler.Get)
			r.Put("/{id}", cfg.LoanHandler.Update)
			r.Delete("/{id}", cfg.LoanHandler.Delete)
			r.Post("/{loanNo}/reconcile", cfg.LoanHandler.Reconcile)
		})

		// Collections
		r.Route("/collections", func(r chi.Router) {
			r.Post("/", cfg.CollectionHandler.Create)
			r.Get("/", cfg.CollectionHandler.List)
			r.Get("/report", cfg.CollectionHandler.Report)
			r.Put("/{id}", cfg.CollectionHandler.Update)
			r.Delete("/{id}", cfg.CollectionHandler.Delete)
		})

		// Party ledger
		r.Get("/ledger/{partyName}", cfg.LedgerHandler.ByParty)
	})

	return r
}
