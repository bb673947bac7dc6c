package routes

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/upb/review-generator/app"
	"github.com/upb/review-generator/handlers"
	"github.com/upb/review-generator/middleware"
	"github.com/upb/review-generator/services"
	"github.com/upb/review-generator/utils"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()
	cfg := deps.Config

	// Core middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(cfg.RequestDeadline()))
	r.Use(middleware.Metrics)

	origins := cfg.Server.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", handlers.SessionHeader},
		ExposedHeaders:   []string{"X-Request-ID", handlers.SessionHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	health := handlers.NewHealthHandler(map[string]handlers.Check{
		"redis": deps.Ping,
		"generator": func(context.Context) error {
			if deps.Generator == nil {
				return errors.New("generator not initialized")
			}
			return nil
		},
	}, deps.Logger)

	r.Get("/healthz", health.HandleHealth)
	r.Get("/readyz", health.HandleReadiness)

	if cfg.Observability.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	reviews := handlers.NewReviewHandler(deps.Generator, deps.Logger.Named("reviews"))
	platforms := handlers.NewPlatformHandler(deps.Logger.Named("platforms"))
	admin := handlers.NewAdminHandler(handlers.AdminSources{
		Providers: deps.Generator,
		Budget:    deps.Ledger,
		Cache:     deps.Cache,
		Throttle:  deps.Throttle,
		Variants:  deps.Assigner,
		Analytics: deps.Analytics,
	}, deps.Logger.Named("admin"))

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if limit := cfg.RateLimit.RequestsPerMinute; limit > 0 {
				r.Use(httprate.Limit(limit, time.Minute,
					httprate.WithKeyFuncs(httprate.KeyByIP),
					httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
						handlers.HandleServiceError(w, services.ErrRateLimitExceeded, deps.Logger)
					}),
				))
			}
			r.Post("/reviews", reviews.HandleGenerate)
		})

		r.Get("/platforms", platforms.HandleList)
		r.Get("/platforms/{platform}/link", platforms.HandleLink)

		// Operational status (require admin role)
		r.Route("/admin", func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireAuth)
			r.Use(deps.AuthMiddleware.RequireRole("admin"))
			r.Get("/providers", admin.HandleProviders)
			r.Get("/budget", admin.HandleBudget)
			r.Get("/cache", admin.HandleCache)
			r.Get("/analytics", admin.HandleAnalytics)
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteNotFound(w, "endpoint not found")
	})

	return r
}
