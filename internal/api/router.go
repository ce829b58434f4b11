// Package api provides the HTTP API for TerraPulse.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/terrapulse/terrapulse/internal/api/handler"
	"github.com/terrapulse/terrapulse/internal/api/middleware"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version   string
	BuildTime string
	Logger    zerolog.Logger
	Metrics   *middleware.Metrics

	Air       handler.OverviewProvider
	Water     handler.OverviewProvider
	Countries handler.DirectoryProvider
	Feeds     map[string]handler.CircuitReporter
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing())
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.ContentTypeJSON)

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Feeds)
	overviewHandler := handler.NewOverviewHandler(cfg.Air, cfg.Water)
	countryHandler := handler.NewCountryHandler(cfg.Countries)

	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/status", opsHandler.SystemStatus)
		})

		r.Group(func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/air/overview", overviewHandler.AirOverview)
			r.Get("/water/overview", overviewHandler.WaterOverview)
			r.Get("/countries", countryHandler.ListCountries)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
