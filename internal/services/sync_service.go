package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"taiwan-opendata/landsync/internal/constants"
	"taiwan-opendata/landsync/internal/db/repositories"
	"taiwan-opendata/landsync/internal/metrics"
	"taiwan-opendata/landsync/internal/normalizer"
	"taiwan-opendata/landsync/internal/parsers"
	"taiwan-opendata/landsync/internal/providers"
)

// sourceEntry binds a city to its fetch strategy, dataset and parser.
// The table is fixed at construction: unknown cities fail fast without
// touching the network.
type sourceEntry struct {
	DatasetID string
	APIURL    string
	Fetcher   providers.SourceFetcher
	Parser    parsers.Parser
}

// CityResult is the per-city outcome of one run
type CityResult struct {
	City           string   `json:"city"`
	OK             bool     `json:"ok"`
	RecordsAdded   int      `json:"records_added"`
	RecordsUpdated int      `json:"records_updated"`
	BatchErrors    []string `json:"batch_errors,omitempty"`
	Error          string   `json:"error,omitempty"`
	DurationMs     int64    `json:"duration_ms"`
}

// RunResult aggregates a whole run. OK is true only when every city
// succeeded; individual failures ride in Cities, never as an error.
type RunResult struct {
	OK          bool         `json:"ok"`
	Cities      []CityResult `json:"cities"`
	StartedAt   time.Time    `json:"started_at"`
	CompletedAt time.Time    `json:"completed_at"`
}

// SyncService drives the per-source fetch → parse → normalize → upsert
// sequence. Cities are processed strictly sequentially; one city's
// failure never aborts the run.
type SyncService struct {
	landRepo   *repositories.LandRepository
	logRepo    *repositories.SyncLogRepository
	sourceRepo *repositories.DataSourceRepository
	metricsReg *metrics.MetricsRegistry
	sources    map[string]sourceEntry
}

// NewSyncService creates the orchestrator with the default dispatch table
func NewSyncService(
	landRepo *repositories.LandRepository,
	logRepo *repositories.SyncLogRepository,
	sourceRepo *repositories.DataSourceRepository,
	metricsReg *metrics.MetricsRegistry,
) *SyncService {
	ckan := providers.NewCKANProvider()
	listing := providers.NewListingProvider()

	return &SyncService{
		landRepo:   landRepo,
		logRepo:    logRepo,
		sourceRepo: sourceRepo,
		metricsReg: metricsReg,
		sources: map[string]sourceEntry{
			constants.CityTaoyuan: {
				DatasetID: "5ca2bfc7-9ace-4719-88ae-4034476c2420",
				APIURL:    "https://data.tycg.gov.tw/api/v1/rest/datastore/5ca2bfc7-9ace-4719-88ae-4034476c2420",
				Fetcher:   listing,
				Parser:    parsers.NewTaoyuanParser(),
			},
			constants.CityTainan: {
				DatasetID: "unclaimed-inheritance-land",
				APIURL:    "https://data.tainan.gov.tw/api/3/action/package_show",
				Fetcher:   ckan,
				Parser:    parsers.NewTainanParser(),
			},
			constants.CityKaohsiung: {
				DatasetID: "kcg-unclaimed-land",
				APIURL:    "https://data.kcg.gov.tw/api/3/action/package_show",
				Fetcher:   ckan,
				Parser:    parsers.NewKaohsiungParser(),
			},
		},
	}
}

// SeedSources registers a data_sources row per dispatch entry.
// Existing rows are left alone.
func (s *SyncService) SeedSources(ctx context.Context) error {
	for city, entry := range s.sources {
		if err := s.sourceRepo.Seed(ctx, city, entry.DatasetID, entry.APIURL); err != nil {
			return fmt.Errorf("failed to seed data source for %s: %w", city, err)
		}
	}
	return nil
}

// KnownCities lists the cities the dispatch table covers
func (s *SyncService) KnownCities() []string {
	return constants.KnownCities
}

// SyncCities runs the pipeline for the given cities in order. An empty
// list means all known cities.
func (s *SyncService) SyncCities(ctx context.Context, cities []string) *RunResult {
	if len(cities) == 0 {
		cities = constants.KnownCities
	}

	run := &RunResult{OK: true, StartedAt: time.Now()}
	log.Printf("[SyncService] Starting sync run for %d cities", len(cities))

	for _, city := range cities {
		result := s.syncCity(ctx, city)
		if !result.OK {
			run.OK = false
		}
		run.Cities = append(run.Cities, result)
	}

	run.CompletedAt = time.Now()
	log.Printf("[SyncService] Run finished in %s, ok=%v",
		run.CompletedAt.Sub(run.StartedAt).Truncate(time.Millisecond), run.OK)
	return run
}

// syncCity executes one city's full cycle. Every error is captured into
// the sync log and the returned result; nothing propagates.
func (s *SyncService) syncCity(ctx context.Context, city string) CityResult {
	start := time.Now()
	result := CityResult{City: city}

	logID, err := s.logRepo.Start(ctx, city)
	if err != nil {
		result.Error = fmt.Sprintf("failed to create sync log: %v", err)
		result.DurationMs = time.Since(start).Milliseconds()
		s.countFailure(city, "log")
		return result
	}

	entry, ok := s.sources[city]
	if !ok {
		result.Error = fmt.Sprintf("unknown city %q: no data source configured", city)
		s.finishFailed(ctx, logID, city, "dispatch", &result, start)
		return result
	}

	canonical := constants.NormalizeCity(city)

	fetched, err := entry.Fetcher.FetchCSV(ctx, providers.SourceConfig{
		City:      canonical,
		DatasetID: entry.DatasetID,
		APIURL:    entry.APIURL,
	})
	if err != nil {
		result.Error = fmt.Sprintf("fetch failed: %v", err)
		s.finishFailed(ctx, logID, city, "fetch", &result, start)
		return result
	}

	log.Printf("[SyncService] %s: fetched %d raw rows via %s", canonical, fetched.RecordCount, entry.Fetcher.Strategy())

	rawRecords, err := entry.Parser.Parse(fetched.CSV)
	if err != nil {
		// Parsers degrade row by row; an error here means the whole
		// payload was unusable, which counts as a fetch-level failure
		result.Error = fmt.Sprintf("unparseable payload: %v", err)
		s.finishFailed(ctx, logID, city, "parse", &result, start)
		return result
	}

	lands := normalizer.Normalize(rawRecords, fetched.SourceURL)
	log.Printf("[SyncService] %s: %d records after parse+normalize", canonical, len(lands))

	// Best-effort batches: a failed batch is recorded and skipped, the
	// rest still land. Counts reflect only rows actually written.
	added := 0
	for i := 0; i < len(lands); i += constants.UpsertBatchSize {
		end := i + constants.UpsertBatchSize
		if end > len(lands) {
			end = len(lands)
		}

		written, err := s.landRepo.UpsertBatch(ctx, lands[i:end])
		if err != nil {
			msg := fmt.Sprintf("batch %d-%d: %v", i, end, err)
			log.Printf("[SyncService] %s: upsert %s", canonical, msg)
			result.BatchErrors = append(result.BatchErrors, msg)
			if s.metricsReg != nil {
				s.metricsReg.BatchFailuresTotal.WithLabelValues(canonical).Inc()
			}
			continue
		}
		added += written
	}

	// Every row returned from a successful batch counts as added; the
	// insert/update split is not distinguished at the batch level
	result.RecordsAdded = added
	result.OK = true
	result.DurationMs = time.Since(start).Milliseconds()

	if err := s.logRepo.Complete(ctx, logID, added, 0); err != nil {
		log.Printf("[SyncService] %s: warning - failed to complete sync log: %v", canonical, err)
	}
	if err := s.sourceRepo.MarkSynced(ctx, city, added); err != nil {
		log.Printf("[SyncService] %s: warning - failed to update data source: %v", canonical, err)
	}

	if s.metricsReg != nil {
		s.metricsReg.SyncRunsTotal.WithLabelValues(canonical, constants.SyncStatusCompleted).Inc()
		s.metricsReg.SyncDuration.WithLabelValues(canonical).Observe(time.Since(start).Seconds())
		s.metricsReg.RecordsUpserted.WithLabelValues(canonical).Add(float64(added))
	}

	log.Printf("[SyncService] %s: completed in %s, %d records written, %d batch errors",
		canonical, time.Since(start).Truncate(time.Millisecond), added, len(result.BatchErrors))
	return result
}

// finishFailed closes the log row and records failure metrics
func (s *SyncService) finishFailed(ctx context.Context, logID, city, stage string, result *CityResult, start time.Time) {
	result.DurationMs = time.Since(start).Milliseconds()
	if err := s.logRepo.Fail(ctx, logID, result.Error); err != nil {
		log.Printf("[SyncService] %s: warning - failed to mark sync log failed: %v", city, err)
	}
	s.countFailure(city, stage)
	log.Printf("[SyncService] %s: sync failed at %s stage: %s", city, stage, result.Error)
}

func (s *SyncService) countFailure(city, stage string) {
	if s.metricsReg != nil {
		s.metricsReg.SyncRunsTotal.WithLabelValues(city, constants.SyncStatusFailed).Inc()
		s.metricsReg.SourceFailuresTotal.WithLabelValues(city, stage).Inc()
	}
}
