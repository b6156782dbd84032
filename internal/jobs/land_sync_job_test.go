package jobs

import (
	"context"
	"testing"
	"time"

	"taiwan-opendata/landsync/internal/db/repositories"
	gormModels "taiwan-opendata/landsync/internal/models/gorm"

	"gorm.io/driver/sqlite"
	gormlib "gorm.io/gorm"
)

// Setup test database
func setupJobTestDB(t *testing.T) *gormlib.DB {
	db, err := gormlib.Open(sqlite.Open(":memory:"), &gormlib.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&gormModels.SyncLog{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func TestShouldRunInitialSync_NoPreviousSync(t *testing.T) {
	db := setupJobTestDB(t)
	job := NewLandSyncJob(nil, repositories.NewSyncLogRepository(db))

	if !job.shouldRunInitialSync(context.Background()) {
		t.Error("Expected initial sync with no history")
	}
}

func TestShouldRunInitialSync_RecentSyncSkips(t *testing.T) {
	db := setupJobTestDB(t)
	logRepo := repositories.NewSyncLogRepository(db)
	job := NewLandSyncJob(nil, logRepo)

	ctx := context.Background()
	id, err := logRepo.Start(ctx, "台南市")
	if err != nil {
		t.Fatalf("Failed to start log: %v", err)
	}
	if err := logRepo.Complete(ctx, id, 10, 0); err != nil {
		t.Fatalf("Failed to complete log: %v", err)
	}

	if job.shouldRunInitialSync(ctx) {
		t.Error("Expected skip when a sync completed moments ago")
	}
}

func TestShouldRunInitialSync_StaleSyncRuns(t *testing.T) {
	db := setupJobTestDB(t)
	logRepo := repositories.NewSyncLogRepository(db)
	job := NewLandSyncJob(nil, logRepo)

	stale := time.Now().Add(-13 * time.Hour)
	row := gormModels.SyncLog{
		ID:          "stale-run",
		SourceCity:  "台南市",
		StartedAt:   stale,
		CompletedAt: &stale,
		Status:      "completed",
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("Failed to seed log: %v", err)
	}

	if !job.shouldRunInitialSync(context.Background()) {
		t.Error("Expected sync when the last completion is older than 12 hours")
	}
}

func TestShouldRunInitialSync_FailedRunsDoNotCount(t *testing.T) {
	db := setupJobTestDB(t)
	logRepo := repositories.NewSyncLogRepository(db)
	job := NewLandSyncJob(nil, logRepo)

	ctx := context.Background()
	id, err := logRepo.Start(ctx, "桃園市")
	if err != nil {
		t.Fatalf("Failed to start log: %v", err)
	}
	if err := logRepo.Fail(ctx, id, "fetch failed"); err != nil {
		t.Fatalf("Failed to fail log: %v", err)
	}

	if !job.shouldRunInitialSync(ctx) {
		t.Error("Expected sync when only failed runs exist")
	}
}
