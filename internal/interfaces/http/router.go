// Package http wires the screening API's route tree and server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ukgridlab/solarscreen/internal/infrastructure/monitoring/logging"
	"github.com/ukgridlab/solarscreen/internal/infrastructure/monitoring/prometheus"
	"github.com/ukgridlab/solarscreen/internal/interfaces/http/handlers"
	"github.com/ukgridlab/solarscreen/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies required
// to construct the complete HTTP route tree.
type RouterConfig struct {
	ScreeningHandler *handlers.ScreeningHandler
	HealthHandler    *handlers.HealthHandler

	Logger  logging.Logger
	Metrics *prometheus.Metrics

	CORS    *middleware.CORSConfig
	Logging *middleware.LoggingConfig
}

// NewRouter constructs the HTTP route tree: global middleware, public probe
// endpoints, the metrics scrape target, and the versioned API group.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	corsCfg := middleware.DefaultCORSConfig()
	if cfg.CORS != nil {
		corsCfg = *cfg.CORS
	}
	r.Use(middleware.CORS(corsCfg))

	if cfg.Logger != nil {
		logCfg := middleware.DefaultLoggingConfig()
		if cfg.Logging != nil {
			logCfg = *cfg.Logging
		}
		r.Use(middleware.RequestLogging(cfg.Logger, logCfg))
	}

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler())
	}

	r.Route("/api/v1", func(api chi.Router) {
		registerScreeningRoutes(api, cfg.ScreeningHandler)
	})

	return r
}

// registerScreeningRoutes mounts the screening views under /screening.
func registerScreeningRoutes(r chi.Router, h *handlers.ScreeningHandler) {
	if h == nil {
		return
	}
	r.Route("/screening", func(sr chi.Router) {
		sr.Get("/map", h.Map)
		sr.Get("/table", h.Table)
		sr.Get("/summary", h.Summary)
		sr.Get("/relationships", h.Relationships)
		sr.Get("/categories", h.Categories)
	})
}
