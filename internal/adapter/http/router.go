package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/fleetbooks/fleetbooks/internal/adapter/http/handler"
	"github.com/fleetbooks/fleetbooks/internal/adapter/http/middleware"
	"github.com/fleetbooks/fleetbooks/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	PostingHandler        *handler.PostingHandler
	AccountHandler        *handler.AccountHandler
	ReconciliationHandler *handler.ReconciliationHandler
	HealthHandler         *handler.HealthHandler
	IdempotencyStore      usecase.IdempotencyStore
	Logger                zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	logging := middleware.NewLoggingMiddleware(cfg.Logger)
	recovery := middleware.NewRecoveryMiddleware(cfg.Logger)

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(logging.Wrap)
	r.Use(recovery.Wrap)
	r.Use(middleware.Metrics)

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.IdempotencyStore != nil {
			idempotency := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.Logger)
			r.Use(idempotency.Wrap)
		}

		r.Route("/postings", func(r chi.Router) {
			r.Post("/", cfg.PostingHandler.Create)
			r.Get("/{ref}", cfg.PostingHandler.Get)
			r.Post("/{ref}/reverse", cfg.PostingHandler.Reverse)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{code}", cfg.AccountHandler.Get)
			r.Get("/{code}/balance", cfg.AccountHandler.Balance)
			r.Get("/{code}/entries", cfg.AccountHandler.Entries)
		})

		r.Route("/reconciliation", func(r chi.Router) {
			r.Get("/invoices", cfg.ReconciliationHandler.Invoices)
			r.Get("/equation", cfg.ReconciliationHandler.Equation)
			r.Get("/report", cfg.ReconciliationHandler.Report)
		})
	})

	return r
}
