package services

import (
	"context"
	"time"

	"taiwan-opendata/landsync/internal/common"
	"taiwan-opendata/landsync/internal/constants"
	"taiwan-opendata/landsync/internal/db/repositories"
	gormModels "taiwan-opendata/landsync/internal/models/gorm"
)

const availabilityCacheKey = "source_availability"

// SourceAvailability is an explicit, time-stamped snapshot of data source
// health derived from sync outcomes. Callers receive the snapshot as a
// value and can force a refresh; there is no module-level shared state.
type SourceAvailability struct {
	CheckedAt time.Time               `json:"checked_at"`
	Sources   []SourceStatus          `json:"sources"`
	ByCity    map[string]SourceStatus `json:"-"`
}

// SourceStatus is one source's registration plus its derived health
type SourceStatus struct {
	City         string     `json:"city"`
	DatasetID    string     `json:"dataset_id"`
	Status       string     `json:"status"`
	Healthy      bool       `json:"healthy"`
	LastSyncedAt *time.Time `json:"last_synced_at"`
	RecordCount  int        `json:"record_count"`
}

// SourceStatusService builds availability snapshots from the persisted
// source metadata
type SourceStatusService struct {
	sourceRepo *repositories.DataSourceRepository
	cache      common.CacheInterface
}

// NewSourceStatusService creates a new availability service
func NewSourceStatusService(sourceRepo *repositories.DataSourceRepository, cache common.CacheInterface) *SourceStatusService {
	return &SourceStatusService{
		sourceRepo: sourceRepo,
		cache:      cache,
	}
}

// Snapshot returns the current availability, cached for a minute
func (s *SourceStatusService) Snapshot(ctx context.Context) (*SourceAvailability, error) {
	if cached, found := s.cache.Get(availabilityCacheKey); found {
		if snap, ok := cached.(*SourceAvailability); ok {
			return snap, nil
		}
	}
	return s.Refresh(ctx)
}

// Refresh rebuilds the snapshot from the store and re-caches it
func (s *SourceStatusService) Refresh(ctx context.Context) (*SourceAvailability, error) {
	sources, err := s.sourceRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	snap := &SourceAvailability{
		CheckedAt: time.Now(),
		ByCity:    make(map[string]SourceStatus, len(sources)),
	}

	for _, src := range sources {
		status := toSourceStatus(src)
		snap.Sources = append(snap.Sources, status)
		snap.ByCity[src.City] = status
	}

	s.cache.Set(availabilityCacheKey, snap, time.Minute)
	return snap, nil
}

// toSourceStatus derives health: a source is healthy when active and
// synced within the last 48 hours
func toSourceStatus(src gormModels.DataSource) SourceStatus {
	healthy := src.Status == constants.SourceStatusActive &&
		src.LastSyncedAt != nil &&
		time.Since(*src.LastSyncedAt) < 48*time.Hour

	return SourceStatus{
		City:         src.City,
		DatasetID:    src.DatasetID,
		Status:       src.Status,
		Healthy:      healthy,
		LastSyncedAt: src.LastSyncedAt,
		RecordCount:  src.RecordCount,
	}
}
