package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"infinite-experiment/contactimport/internal/api"
	"infinite-experiment/contactimport/internal/logging"
	"infinite-experiment/contactimport/internal/middleware"
)

// Options tune the router per environment
type Options struct {
	RateLimitPerSec float64
	RateLimitBurst  int
	// DebugLogging dumps requests and responses at debug level
	DebugLogging bool
}

func RegisterRoutes(deps *api.Dependencies, opts Options, upSince time.Time) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	if opts.DebugLogging {
		r.Use(middleware.Logging)
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	logging.Info("Router initialized with metrics and logging middleware")

	// health check
	r.With(middleware.MetricsMiddleware(deps.Metrics)).
		Get("/healthCheck", api.HealthCheckHandler(deps.DB, upSince))

	handlers := api.NewHandlers(deps)
	limiter := middleware.NewRateLimiter(opts.RateLimitPerSec, opts.RateLimitBurst)

	RegisterAPIRoutes(r, deps, handlers, limiter)

	return r
}
