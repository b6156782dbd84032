package repositories

import (
	"context"
	"time"

	gormModels "taiwan-opendata/landsync/internal/models/gorm"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
)

// DataSourceRepository handles data_sources operations
type DataSourceRepository struct {
	db *gormlib.DB
}

// NewDataSourceRepository creates a new data source repository
func NewDataSourceRepository(db *gormlib.DB) *DataSourceRepository {
	return &DataSourceRepository{db: db}
}

// Seed registers a data source for a city if none exists yet.
// Existing rows are left untouched, so operator edits survive restarts.
func (r *DataSourceRepository) Seed(ctx context.Context, city, datasetID, apiURL string) error {
	source := gormModels.DataSource{
		ID:        uuid.New().String(),
		City:      city,
		DatasetID: datasetID,
		APIURL:    apiURL,
		Status:    "active",
	}

	return r.db.WithContext(ctx).
		Where("city = ?", city).
		FirstOrCreate(&source).Error
}

// MarkSynced updates a source's metadata after a successful sync
func (r *DataSourceRepository) MarkSynced(ctx context.Context, city string, recordCount int) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&gormModels.DataSource{}).
		Where("city = ?", city).
		Updates(map[string]interface{}{
			"last_synced_at": &now,
			"record_count":   recordCount,
		}).Error
}

// List returns all registered sources
func (r *DataSourceRepository) List(ctx context.Context) ([]gormModels.DataSource, error) {
	var sources []gormModels.DataSource
	err := r.db.WithContext(ctx).Order("city").Find(&sources).Error
	return sources, err
}

// GetByCity returns one source by its city key, nil when absent
func (r *DataSourceRepository) GetByCity(ctx context.Context, city string) (*gormModels.DataSource, error) {
	var source gormModels.DataSource
	err := r.db.WithContext(ctx).Where("city = ?", city).First(&source).Error
	if err != nil {
		if err == gormlib.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &source, nil
}
