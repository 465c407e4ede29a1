package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shelfmetrics/stockwatch/internal/api/handlers"
	"github.com/shelfmetrics/stockwatch/internal/api/middleware"
	"github.com/shelfmetrics/stockwatch/internal/config"
	"github.com/shelfmetrics/stockwatch/internal/pkg/logger"
	"github.com/shelfmetrics/stockwatch/internal/pkg/metrics"
)

type Handlers struct {
	Health    *handlers.HealthHandler
	Alert     *handlers.AlertHandler
	Scheduler *handlers.SchedulerHandler
}

func New(cfg *config.Config, log *logger.Logger, h *Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.DefaultCORS(cfg.Server.FrontendURL))
	r.Use(middleware.RateLimit(100, 200)) // 100 req/sec, burst of 200
	r.Use(metrics.Middleware)

	// Health checks and metrics
	r.Get("/healthz", h.Health.Healthz)
	r.Get("/readyz", h.Health.Readyz)
	r.Handle("/metrics", metrics.Handler())

	// Alerting API
	r.Route("/api/v1/alerts", func(r chi.Router) {
		r.Route("/inventory", func(r chi.Router) {
			r.Post("/", h.Alert.Sweep)
			r.Get("/", h.Alert.List)
		})
		r.Route("/scheduler", func(r chi.Router) {
			r.Post("/", h.Scheduler.Run)
			r.Get("/", h.Scheduler.Status)
		})
		r.Patch("/{id}/acknowledge", h.Alert.Acknowledge)
	})

	return r
}
