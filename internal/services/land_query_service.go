package services

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"taiwan-opendata/landsync/internal/common"
	"taiwan-opendata/landsync/internal/db/repositories"
	"taiwan-opendata/landsync/internal/metrics"
	"taiwan-opendata/landsync/internal/models/entities"
)

const statsCacheKey = "land_stats"

// LandQueryService serves the read API: filtered search and cached
// aggregate stats. Stats recomputation is deduplicated with singleflight
// so concurrent cache misses trigger one store query, not a stampede.
type LandQueryService struct {
	queryRepo  *repositories.LandQueryRepository
	cache      common.CacheInterface
	metricsReg *metrics.MetricsRegistry
	group      singleflight.Group
}

// NewLandQueryService creates a new read-side service
func NewLandQueryService(
	queryRepo *repositories.LandQueryRepository,
	cache common.CacheInterface,
	metricsReg *metrics.MetricsRegistry,
) *LandQueryService {
	return &LandQueryService{
		queryRepo:  queryRepo,
		cache:      cache,
		metricsReg: metricsReg,
	}
}

// SearchResult pairs one page of records with the total match count
type SearchResult struct {
	Total   int                `json:"total"`
	Limit   int                `json:"limit"`
	Offset  int                `json:"offset"`
	Records []entities.LandRow `json:"records"`
}

// Search returns filtered, paginated records plus the total match count
func (s *LandQueryService) Search(ctx context.Context, filter repositories.LandFilter) (*SearchResult, error) {
	total, err := s.queryRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	rows, err := s.queryRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	return &SearchResult{
		Total:   total,
		Limit:   limit,
		Offset:  filter.Offset,
		Records: rows,
	}, nil
}

// Stats returns per-city aggregates, cached for five minutes
func (s *LandQueryService) Stats(ctx context.Context) (*entities.LandStats, error) {
	if cached, found := s.cache.Get(statsCacheKey); found {
		if stats, ok := cached.(*entities.LandStats); ok {
			if s.metricsReg != nil {
				s.metricsReg.CacheHitsTotal.WithLabelValues("stats").Inc()
			}
			return stats, nil
		}
	}

	if s.metricsReg != nil {
		s.metricsReg.CacheMissesTotal.WithLabelValues("stats").Inc()
	}

	v, err, _ := s.group.Do(statsCacheKey, func() (interface{}, error) {
		cityStats, err := s.queryRepo.CityStats(ctx)
		if err != nil {
			return nil, err
		}

		total := 0
		for _, c := range cityStats {
			total += c.RecordCount
		}

		stats := &entities.LandStats{
			TotalRecords: total,
			Cities:       cityStats,
			GeneratedAt:  time.Now(),
		}
		s.cache.Set(statsCacheKey, stats, 5*time.Minute)
		return stats, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*entities.LandStats), nil
}

// Cities lists every source city present in the store
func (s *LandQueryService) Cities(ctx context.Context) ([]string, error) {
	return s.queryRepo.DistinctCities(ctx)
}

// Export returns all records for a city filter, for CSV streaming
func (s *LandQueryService) Export(ctx context.Context, city string) ([]entities.LandRow, error) {
	return s.queryRepo.Export(ctx, city)
}

// InvalidateStats drops the cached aggregates, called after sync runs
func (s *LandQueryService) InvalidateStats() {
	s.cache.Delete(statsCacheKey)
}
