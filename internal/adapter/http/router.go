package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/labelpay/labelpay/internal/adapter/http/handler"
	"github.com/labelpay/labelpay/internal/adapter/http/middleware"
	"github.com/labelpay/labelpay/internal/infrastructure/auth"
	"github.com/labelpay/labelpay/internal/infrastructure/metrics"
	"github.com/labelpay/labelpay/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AuthHandler           *handler.AuthHandler
	AccountHandler        *handler.AccountHandler
	CreditHandler         *handler.CreditHandler
	TransactionHandler    *handler.TransactionHandler
	ShipmentHandler       *handler.ShipmentHandler
	BatchHandler          *handler.BatchHandler
	ReconciliationHandler *handler.ReconciliationHandler
	HealthHandler         *handler.HealthHandler

	JWTManager       *auth.JWTManager
	AccountRepo      usecase.AccountRepository
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	Metrics          *metrics.Metrics
	RateLimiter      *middleware.RateLimiter
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)

	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", cfg.AuthHandler.Login)

		// Everything past this point requires a valid token; the
		// account behind it is re-read from storage per request.
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager, cfg.AccountRepo))

			if cfg.IdempotencyStore != nil {
				r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
			}

			r.Route("/accounts", func(r chi.Router) {
				r.Post("/", cfg.AccountHandler.Create)
				r.Get("/", cfg.AccountHandler.List)
				r.Get("/me", cfg.AccountHandler.Me)
				r.Get("/{id}", cfg.AccountHandler.Get)
				r.Post("/{id}/reset-password", cfg.AccountHandler.ResetPassword)
			})

			r.Route("/credits", func(r chi.Router) {
				r.Post("/assign", cfg.CreditHandler.Assign)
				r.Post("/revoke", cfg.CreditHandler.Revoke)
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Get("/", cfg.TransactionHandler.List)
				r.Get("/{id}", cfg.TransactionHandler.Get)
			})

			r.Route("/shipping", func(r chi.Router) {
				r.Post("/rates", cfg.ShipmentHandler.GetRates)
				r.Post("/validate-address", cfg.ShipmentHandler.ValidateAddress)
				r.Post("/labels", cfg.ShipmentHandler.Purchase)
				r.Get("/labels", cfg.ShipmentHandler.List)
				r.Get("/labels/{id}", cfg.ShipmentHandler.Get)
				r.Post("/refunds", cfg.ShipmentHandler.Refund)
			})

			r.Route("/batches", func(r chi.Router) {
				r.Post("/", cfg.BatchHandler.Create)
				r.Get("/", cfg.BatchHandler.List)
				r.Get("/{id}", cfg.BatchHandler.Get)
				r.Post("/{id}/cancel", cfg.BatchHandler.Cancel)
				r.Get("/{id}/shipments", cfg.BatchHandler.ListShipments)
			})

			r.Route("/reconciliation", func(r chi.Router) {
				r.Get("/", cfg.ReconciliationHandler.ReconcileAll)
				r.Get("/{id}", cfg.ReconciliationHandler.ReconcileAccount)
			})
		})
	})

	return r
}
