package repositories

import (
	"context"
	"time"

	"taiwan-opendata/landsync/internal/constants"
	gormModels "taiwan-opendata/landsync/internal/models/gorm"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
)

// SyncLogRepository handles sync_logs operations
type SyncLogRepository struct {
	db *gormlib.DB
}

// NewSyncLogRepository creates a new sync log repository
func NewSyncLogRepository(db *gormlib.DB) *SyncLogRepository {
	return &SyncLogRepository{db: db}
}

// Start creates a "running" log row for one city's sync attempt and
// returns its generated identifier
func (r *SyncLogRepository) Start(ctx context.Context, sourceCity string) (string, error) {
	row := gormModels.SyncLog{
		ID:         uuid.New().String(),
		SourceCity: sourceCity,
		StartedAt:  time.Now(),
		Status:     constants.SyncStatusRunning,
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", err
	}
	return row.ID, nil
}

// Complete marks a log row completed with final counts
func (r *SyncLogRepository) Complete(ctx context.Context, id string, added, updated int) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&gormModels.SyncLog{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":          constants.SyncStatusCompleted,
			"completed_at":    &now,
			"records_added":   added,
			"records_updated": updated,
		}).Error
}

// Fail marks a log row failed with the captured error message
func (r *SyncLogRepository) Fail(ctx context.Context, id string, errMsg string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&gormModels.SyncLog{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        constants.SyncStatusFailed,
			"completed_at":  &now,
			"error_message": errMsg,
		}).Error
}

// Recent returns the latest log rows, newest first
func (r *SyncLogRepository) Recent(ctx context.Context, limit int) ([]gormModels.SyncLog, error) {
	var logs []gormModels.SyncLog
	err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// LastCompletedAt returns when any source last completed a sync, or nil
// when no completed run exists. Used by the scheduler's initial-run gate.
func (r *SyncLogRepository) LastCompletedAt(ctx context.Context) (*time.Time, error) {
	var row gormModels.SyncLog
	err := r.db.WithContext(ctx).
		Where("status = ?", constants.SyncStatusCompleted).
		Order("completed_at DESC").
		First(&row).Error

	if err != nil {
		if err == gormlib.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return row.CompletedAt, nil
}
