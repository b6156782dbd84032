package repositories

import (
	"context"

	"taiwan-opendata/landsync/internal/constants"
	"taiwan-opendata/landsync/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

// LandQueryRepository is the sqlx read side: search, stats and export.
// Writes never go through here.
type LandQueryRepository struct {
	db *sqlx.DB
}

// LandFilter narrows the list/search queries
type LandFilter struct {
	City     string
	District string
	Keyword  string
	Limit    int
	Offset   int
}

// NewLandQueryRepository creates a new read-side repository
func NewLandQueryRepository(db *sqlx.DB) *LandQueryRepository {
	return &LandQueryRepository{db: db}
}

// List returns filtered, paginated records
func (r *LandQueryRepository) List(ctx context.Context, filter LandFilter) ([]entities.LandRow, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	var rows []entities.LandRow
	err := r.db.SelectContext(ctx, &rows, constants.ListLands,
		filter.City, filter.District, filter.Keyword, limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of records matching a filter
func (r *LandQueryRepository) Count(ctx context.Context, filter LandFilter) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, constants.CountLands,
		filter.City, filter.District, filter.Keyword)
	return count, err
}

// CityStats aggregates counts and areas per source city
func (r *LandQueryRepository) CityStats(ctx context.Context) ([]entities.CityStats, error) {
	var stats []entities.CityStats
	err := r.db.SelectContext(ctx, &stats, constants.CityStatsQuery)
	return stats, err
}

// DistinctCities returns every city present in the store
func (r *LandQueryRepository) DistinctCities(ctx context.Context) ([]string, error) {
	var cities []string
	err := r.db.SelectContext(ctx, &cities, constants.DistinctCities)
	return cities, err
}

// Export returns every record for a city (or all cities when empty),
// ordered for CSV streaming
func (r *LandQueryRepository) Export(ctx context.Context, city string) ([]entities.LandRow, error) {
	var rows []entities.LandRow
	err := r.db.SelectContext(ctx, &rows, constants.ExportLands, city)
	return rows, err
}
