package routes

import (
	"github.com/go-chi/chi/v5"

	"taiwan-opendata/landsync/internal/api"
	"taiwan-opendata/landsync/internal/config"
	"taiwan-opendata/landsync/internal/metrics"
	"taiwan-opendata/landsync/internal/middleware"
)

// RegisterAPIRoutes registers all API v1 routes and handlers.
// Kept separate from the main router setup.
func RegisterAPIRoutes(r chi.Router, cfg *config.Config, metricsReg *metrics.MetricsRegistry, deps *api.Dependencies) {

	landsHandler := api.NewLandsHandler(deps.Services.Query, deps.Services.SourceStatus, deps.Repo.SyncLog)
	syncHandler := api.NewSyncHandler(deps.Services.Sync, deps.Services.Query)
	exportHandler := api.NewExportHandler(deps.Services.Query, deps.Services.URLSigner)

	// Presigned export downloads sit outside /api/v1: the token is the auth
	r.Get("/export/lands", exportHandler.ServeExport())

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(middleware.MetricsMiddleware(metricsReg))

		// Read API
		v1.Get("/lands", landsHandler.ListLands())
		v1.Get("/lands/stats", landsHandler.GetStats())
		v1.Get("/lands/cities", landsHandler.GetCities())
		v1.Get("/sources", landsHandler.GetSources())
		v1.Get("/sync/logs", landsHandler.GetSyncLogs())

		v1.Post("/lands/export-link", exportHandler.CreateExportLink())

		// Trigger surfaces, bearer-secret guarded
		v1.Group(func(guarded chi.Router) {
			guarded.Use(middleware.TriggerAuthMiddleware(cfg))
			guarded.Post("/sync/run", syncHandler.TriggerScheduledSync())
			guarded.Post("/admin/sync", syncHandler.TriggerManualSync())
		})
	})
}
