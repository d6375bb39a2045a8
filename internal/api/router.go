// Package api provides the HTTP API for aeromap.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/aeromap/aeromap/internal/api/handler"
	"github.com/aeromap/aeromap/internal/api/middleware"
	"github.com/aeromap/aeromap/internal/api/store"
	"github.com/aeromap/aeromap/internal/provider/resilience"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version   string
	BuildTime string
	Logger    zerolog.Logger
	Metrics   *middleware.Metrics
	Store     *store.Store
	Registry  *resilience.Registry
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

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Store, cfg.Registry)
	observationHandler := handler.NewObservationHandler(cfg.Store)
	predictionHandler := handler.NewPredictionHandler(cfg.Store)
	aerosolHandler := handler.NewAerosolHandler(cfg.Store)
	mapHandler := handler.NewMapHandler(cfg.Store)

	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)
	mapRateLimit := middleware.RateLimitByIP(middleware.MapRateLimit)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/status", opsHandler.SystemStatus)
		})

		r.Group(func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/observations", observationHandler.List)
			r.Get("/observations/nearest", observationHandler.Nearest)
			r.Get("/predictions", predictionHandler.List)
			r.Get("/aerosol", aerosolHandler.List)
		})
	})

	// Rendered map at the root, mirroring the file the batch run writes.
	r.With(mapRateLimit).Get("/", mapHandler.Serve)

	return r
}
