package repositories

import (
	"context"
	"encoding/json"

	"taiwan-opendata/landsync/internal/models"
	gormModels "taiwan-opendata/landsync/internal/models/gorm"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LandRepository handles unclaimed_lands write operations
type LandRepository struct {
	db *gormlib.DB
}

// NewLandRepository creates a new land repository
func NewLandRepository(db *gormlib.DB) *LandRepository {
	return &LandRepository{db: db}
}

// UpsertBatch writes one batch of canonical records.
// ON CONFLICT (source_city, district, land_number) DO UPDATE, so reruns
// with identical upstream data are idempotent. Returns rows written.
func (r *LandRepository) UpsertBatch(ctx context.Context, lands []models.NormalizedLand) (int, error) {
	if len(lands) == 0 {
		return 0, nil
	}

	rows := make([]gormModels.LandRecord, 0, len(lands))
	for _, land := range lands {
		rows = append(rows, toLandRecord(land))
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "source_city"},
				{Name: "district"},
				{Name: "land_number"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"section", "owner_name", "area_m2", "area_ping",
				"status", "latitude", "longitude", "raw_data",
				"source_url", "updated_at",
			}),
		}).
		Create(&rows).Error

	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// Count returns the total number of stored records
func (r *LandRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&gormModels.LandRecord{}).Count(&count).Error
	return count, err
}

// CountByCity returns the number of stored records for one city
func (r *LandRepository) CountByCity(ctx context.Context, city string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.LandRecord{}).
		Where("source_city = ?", city).
		Count(&count).Error
	return count, err
}

// toLandRecord converts a canonical pipeline record to its stored shape.
// IDs are assigned client-side so the sqlite test driver behaves the
// same as postgres.
func toLandRecord(land models.NormalizedLand) gormModels.LandRecord {
	rec := gormModels.LandRecord{
		ID:         uuid.New().String(),
		SourceCity: land.SourceCity,
		District:   land.District,
		Section:    land.Section,
		LandNumber: land.LandNumber,
		OwnerName:  land.OwnerName,
		AreaM2:     land.AreaM2,
		AreaPing:   land.AreaPing,
		Status:     land.Status,
		SourceURL:  land.SourceURL,
	}

	if land.Coordinates != nil {
		lat, lng := land.Coordinates.Lat, land.Coordinates.Lng
		rec.Latitude = &lat
		rec.Longitude = &lng
	}

	if land.RawData != nil {
		if raw, err := json.Marshal(land.RawData); err == nil {
			rec.RawData = raw
		}
	}

	return rec
}
