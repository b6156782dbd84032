package jobs

import (
	"context"
	"time"

	"taiwan-opendata/landsync/internal/db/repositories"
	"taiwan-opendata/landsync/internal/services"
)

// InitializeJobs initializes and starts all background jobs
func InitializeJobs(
	ctx context.Context,
	syncSvc *services.SyncService,
	logRepo *repositories.SyncLogRepository,
) *LandSyncJob {
	// Daily sync; the upsert key makes overlapping or repeated runs idempotent
	landSyncJob := NewLandSyncJob(syncSvc, logRepo)

	go landSyncJob.RunScheduled(ctx, 24*time.Hour)

	return landSyncJob
}
