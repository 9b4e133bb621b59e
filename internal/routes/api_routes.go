package routes

import (
	"github.com/go-chi/chi/v5"

	"infinite-experiment/contactimport/internal/api"
	"infinite-experiment/contactimport/internal/constants"
	"infinite-experiment/contactimport/internal/middleware"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
// This keeps API route registration separate from the main router setup
func RegisterAPIRoutes(r chi.Router, deps *api.Dependencies, handlers *api.Handlers, limiter *middleware.RateLimiter) {

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(limiter.Middleware)
		v1.Use(middleware.InFlightMiddleware(deps.Metrics, "/api/v1"))
		v1.Use(middleware.AuthMiddleware(deps.Signer)) // every route needs a token once JWT_SECRET is set
		v1.Use(middleware.MetricsMiddleware(deps.Metrics))

		// Read-only group
		v1.Group(func(viewer chi.Router) {
			viewer.Use(middleware.RequireRole(constants.RoleViewer))

			viewer.Get("/catalog/tables", handlers.GetCatalog())
			viewer.Get("/import/runs", handlers.ListImportRuns())

			// analysis never writes to the store
			viewer.Post("/mapping/analyze", handlers.AnalyzeMapping())
			viewer.Post("/mapping/hints", handlers.SuggestHints())
			viewer.Post("/import/analyze", handlers.AnalyzeImportFile())
			viewer.Post("/import/validate", handlers.ValidateRows())
		})

		// Importer group (writes destination rows)
		v1.Group(func(importer chi.Router) {
			importer.Use(middleware.RequireRole(constants.RoleImporter))
			importer.Post("/import/transfer", handlers.TransferRows())
		})
	})
}
