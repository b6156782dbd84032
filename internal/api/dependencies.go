package api

import (
	"taiwan-opendata/landsync/internal/common"
	"taiwan-opendata/landsync/internal/config"
	"taiwan-opendata/landsync/internal/db"
	"taiwan-opendata/landsync/internal/db/repositories"
	"taiwan-opendata/landsync/internal/metrics"
	"taiwan-opendata/landsync/internal/services"
)

type Repositories struct {
	Land       *repositories.LandRepository
	LandQuery  *repositories.LandQueryRepository
	SyncLog    *repositories.SyncLogRepository
	DataSource *repositories.DataSourceRepository
}

type Services struct {
	Cache        common.CacheInterface
	Sync         *services.SyncService
	Query        *services.LandQueryService
	SourceStatus *services.SourceStatusService
	Geocoder     *common.GeocoderService
	URLSigner    *common.URLSignerService
}

type Dependencies struct {
	Config   *config.Config
	Repo     *Repositories
	Services *Services
}

// InitDependencies wires repositories and services onto the shared
// database handles
func InitDependencies(cfg *config.Config, metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {

	repos := &Repositories{
		Land:       repositories.NewLandRepository(db.PgDB),
		LandQuery:  repositories.NewLandQueryRepository(db.DB),
		SyncLog:    repositories.NewSyncLogRepository(db.PgDB),
		DataSource: repositories.NewDataSourceRepository(db.PgDB),
	}

	cacheSvc := common.SelectCache(cfg)

	syncSvc := services.NewSyncService(repos.Land, repos.SyncLog, repos.DataSource, metricsReg)
	querySvc := services.NewLandQueryService(repos.LandQuery, cacheSvc, metricsReg)
	statusSvc := services.NewSourceStatusService(repos.DataSource, cacheSvc)
	geocoder := common.NewGeocoderService(cfg.GeocoderBaseURL, cacheSvc)

	signerSecret := cfg.CronSecret
	if signerSecret == "" {
		signerSecret = "landsync-dev-secret"
	}
	signer := common.NewURLSignerService([]byte(signerSecret), cacheSvc)

	svcs := &Services{
		Cache:        cacheSvc,
		Sync:         syncSvc,
		Query:        querySvc,
		SourceStatus: statusSvc,
		Geocoder:     geocoder,
		URLSigner:    signer,
	}

	return &Dependencies{
		Config:   cfg,
		Repo:     repos,
		Services: svcs,
	}, nil
}
