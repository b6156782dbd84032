package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"taiwan-opendata/landsync/internal/api"
	"taiwan-opendata/landsync/internal/config"
	"taiwan-opendata/landsync/internal/db"
	"taiwan-opendata/landsync/internal/jobs"
	"taiwan-opendata/landsync/internal/logging"
	"taiwan-opendata/landsync/internal/metrics"
	"taiwan-opendata/landsync/internal/middleware"
)

// RegisterRoutes builds the router, wires dependencies and starts the
// scheduled sync job
func RegisterRoutes(cfg *config.Config, upSince time.Time) http.Handler {

	r := chi.NewRouter()

	metricsReg := metrics.NewMetricsRegistry()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.RateLimitMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	logging.Info("Router initialized with rate limiting and request-ID middleware")

	// health check
	r.Get("/healthCheck", api.HealthCheckHandler(db.DB, upSince))

	deps, err := api.InitDependencies(cfg, metricsReg)
	if err != nil {
		panic("Failed to initialize dependencies: " + err.Error())
	}

	// Register the per-city data sources before any sync can run
	if err := deps.Services.Sync.SeedSources(context.Background()); err != nil {
		logging.Error("Failed to seed data sources", "error", err.Error())
	}

	jobs.InitializeJobs(context.Background(), deps.Services.Sync, deps.Repo.SyncLog)

	RegisterAPIRoutes(r, cfg, metricsReg, deps)

	return r
}
