package jobs

import (
	"context"
	"log"
	"time"

	"taiwan-opendata/landsync/internal/db/repositories"
	"taiwan-opendata/landsync/internal/services"
)

// LandSyncJob runs the ingestion pipeline on a schedule
type LandSyncJob struct {
	syncSvc *services.SyncService
	logRepo *repositories.SyncLogRepository
}

// NewLandSyncJob creates a new land sync job instance
func NewLandSyncJob(syncSvc *services.SyncService, logRepo *repositories.SyncLogRepository) *LandSyncJob {
	return &LandSyncJob{
		syncSvc: syncSvc,
		logRepo: logRepo,
	}
}

// Run executes one full sync across all known cities
func (j *LandSyncJob) Run(ctx context.Context) {
	start := time.Now()
	log.Printf("[LandSyncJob] Starting land sync at %s", start.Format(time.RFC3339))

	result := j.syncSvc.SyncCities(ctx, nil)

	total := 0
	failed := 0
	for _, city := range result.Cities {
		total += city.RecordsAdded
		if !city.OK {
			failed++
		}
	}

	log.Printf("[LandSyncJob] Completed in %s. Records written: %d, failed cities: %d",
		time.Since(start).Truncate(time.Millisecond), total, failed)
}

// shouldRunInitialSync checks if enough time has passed since the last
// completed sync. Returns true when the last sync was more than 12 hours
// ago or no sync has completed yet.
func (j *LandSyncJob) shouldRunInitialSync(ctx context.Context) bool {
	lastCompleted, err := j.logRepo.LastCompletedAt(ctx)

	if err != nil {
		log.Printf("[LandSyncJob] Error checking last sync time: %v. Running sync anyway.", err)
		return true
	}

	if lastCompleted == nil {
		log.Printf("[LandSyncJob] No previous sync found. Running initial sync.")
		return true
	}

	sinceLast := time.Since(*lastCompleted)
	if sinceLast > 12*time.Hour {
		log.Printf("[LandSyncJob] Last sync was %s ago (> 12 hours). Running sync.", sinceLast.Truncate(time.Minute))
		return true
	}

	log.Printf("[LandSyncJob] Last sync was %s ago (< 12 hours). Skipping initial sync.", sinceLast.Truncate(time.Minute))
	return false
}

// RunScheduled runs the sync job on a fixed interval until the context
// is cancelled
func (j *LandSyncJob) RunScheduled(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if j.shouldRunInitialSync(ctx) {
		j.Run(ctx)
	}

	for {
		select {
		case <-ticker.C:
			j.Run(ctx)
		case <-ctx.Done():
			log.Printf("[LandSyncJob] Shutting down scheduled sync")
			return
		}
	}
}
