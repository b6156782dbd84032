package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"taiwan-opendata/landsync/internal/constants"
	"taiwan-opendata/landsync/internal/db/repositories"
	"taiwan-opendata/landsync/internal/models"
	gormModels "taiwan-opendata/landsync/internal/models/gorm"
	"taiwan-opendata/landsync/internal/parsers"
	"taiwan-opendata/landsync/internal/providers"

	"gorm.io/driver/sqlite"
	gormlib "gorm.io/gorm"
)

// Mock fetcher with a canned payload
type mockFetcher struct {
	csv   string
	err   error
	calls int
}

func (m *mockFetcher) FetchCSV(ctx context.Context, src providers.SourceConfig) (*providers.FetchResult, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &providers.FetchResult{
		CSV:         m.csv,
		RecordCount: 1,
		SourceURL:   "https://example.test/" + src.DatasetID + ".csv",
	}, nil
}

func (m *mockFetcher) Strategy() string {
	return "mock"
}

// Setup test database
func setupSyncTestDB(t *testing.T) *gormlib.DB {
	db, err := gormlib.Open(sqlite.Open(":memory:"), &gormlib.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&gormModels.LandRecord{},
		&gormModels.SyncLog{},
		&gormModels.DataSource{},
	); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	return db
}

// newTestSyncService wires a service against the test database with the
// real dispatch table replaced by mock fetchers. Metrics stay nil so no
// collector registration happens in tests.
func newTestSyncService(db *gormlib.DB, fetchers map[string]*mockFetcher) *SyncService {
	s := NewSyncService(
		repositories.NewLandRepository(db),
		repositories.NewSyncLogRepository(db),
		repositories.NewDataSourceRepository(db),
		nil,
	)

	sources := make(map[string]sourceEntry)
	for city, f := range fetchers {
		entry := s.sources[city]
		entry.Fetcher = f
		if entry.Parser == nil {
			entry.Parser = parsers.ParserFor(city)
		}
		sources[city] = entry
	}
	s.sources = sources
	return s
}

const tainanCSV = "鄉鎮市區,段別,地號,被繼承人姓名,面積(平方公尺)\n" +
	"東區,大同段,123-4,王O,150.5\n" +
	"南區,文南段,55-1,陳O,80\n"

func TestSyncService_SingleCitySuccess(t *testing.T) {
	db := setupSyncTestDB(t)
	s := newTestSyncService(db, map[string]*mockFetcher{
		constants.CityTainan: {csv: tainanCSV},
	})

	ctx := context.Background()
	if err := s.SeedSources(ctx); err != nil {
		t.Fatalf("Failed to seed sources: %v", err)
	}

	run := s.SyncCities(ctx, []string{constants.CityTainan})

	if !run.OK {
		t.Fatalf("Expected run OK, got %+v", run)
	}
	if len(run.Cities) != 1 {
		t.Fatalf("Expected 1 city result, got %d", len(run.Cities))
	}
	if run.Cities[0].RecordsAdded != 2 {
		t.Errorf("Expected 2 records added, got %d", run.Cities[0].RecordsAdded)
	}
	if run.Cities[0].RecordsUpdated != 0 {
		t.Errorf("Expected 0 records updated, got %d", run.Cities[0].RecordsUpdated)
	}

	var count int64
	db.Model(&gormModels.LandRecord{}).Count(&count)
	if count != 2 {
		t.Errorf("Expected 2 stored rows, got %d", count)
	}

	// Completed sync log with counts
	var logs []gormModels.SyncLog
	db.Find(&logs)
	if len(logs) != 1 {
		t.Fatalf("Expected 1 sync log, got %d", len(logs))
	}
	if logs[0].Status != constants.SyncStatusCompleted {
		t.Errorf("Expected completed log, got %s", logs[0].Status)
	}
	if logs[0].RecordsAdded != 2 {
		t.Errorf("Expected 2 records in log, got %d", logs[0].RecordsAdded)
	}
	if logs[0].CompletedAt == nil {
		t.Error("Expected completed_at set")
	}

	// Source marked synced
	var source gormModels.DataSource
	if err := db.Where("city = ?", constants.CityTainan).First(&source).Error; err != nil {
		t.Fatalf("Failed to load data source: %v", err)
	}
	if source.LastSyncedAt == nil {
		t.Error("Expected last_synced_at set after success")
	}
	if source.RecordCount != 2 {
		t.Errorf("Expected record count 2 on source, got %d", source.RecordCount)
	}
}

func TestSyncService_OneFailureDoesNotAbortRun(t *testing.T) {
	db := setupSyncTestDB(t)

	taoyuanCSV := "行政區,地段,土地地號,被繼承人,面積\n中壢區,內壢段,55-2,許O,66.12\n"
	kaohsiungCSV := "行政區,地段,地號,被繼承人,面積(平方公尺)\n左營區,新莊子段,310,吳O,100\n"

	failing := &mockFetcher{err: &providers.ProviderError{
		Code:    constants.ErrCodeHTTPStatus,
		Message: "HTTP 502 from upstream",
	}}

	s := newTestSyncService(db, map[string]*mockFetcher{
		constants.CityTaoyuan:   {csv: taoyuanCSV},
		constants.CityTainan:    failing,
		constants.CityKaohsiung: {csv: kaohsiungCSV},
	})

	ctx := context.Background()
	run := s.SyncCities(ctx, []string{
		constants.CityTaoyuan, constants.CityTainan, constants.CityKaohsiung,
	})

	if run.OK {
		t.Error("Expected run not OK when one city fails")
	}
	if len(run.Cities) != 3 {
		t.Fatalf("Expected 3 city results, got %d", len(run.Cities))
	}

	if !run.Cities[0].OK || !run.Cities[2].OK {
		t.Errorf("Expected neighbors to succeed: %+v", run.Cities)
	}
	if run.Cities[1].OK {
		t.Error("Expected middle city to fail")
	}
	if run.Cities[1].Error == "" {
		t.Error("Expected captured error message on failed city")
	}

	// Rows from the healthy cities still landed
	var count int64
	db.Model(&gormModels.LandRecord{}).Count(&count)
	if count != 2 {
		t.Errorf("Expected 2 stored rows from healthy cities, got %d", count)
	}

	// One failed log row, two completed
	var failed int64
	db.Model(&gormModels.SyncLog{}).Where("status = ?", constants.SyncStatusFailed).Count(&failed)
	if failed != 1 {
		t.Errorf("Expected 1 failed log, got %d", failed)
	}
	var completed int64
	db.Model(&gormModels.SyncLog{}).Where("status = ?", constants.SyncStatusCompleted).Count(&completed)
	if completed != 2 {
		t.Errorf("Expected 2 completed logs, got %d", completed)
	}
}

func TestSyncService_RerunsAreIdempotent(t *testing.T) {
	db := setupSyncTestDB(t)
	s := newTestSyncService(db, map[string]*mockFetcher{
		constants.CityTainan: {csv: tainanCSV},
	})

	ctx := context.Background()
	first := s.SyncCities(ctx, []string{constants.CityTainan})
	second := s.SyncCities(ctx, []string{constants.CityTainan})

	if !first.OK || !second.OK {
		t.Fatalf("Expected both runs OK: %+v / %+v", first, second)
	}

	var count int64
	db.Model(&gormModels.LandRecord{}).Count(&count)
	if count != 2 {
		t.Errorf("Expected 2 rows after rerun with identical data, got %d", count)
	}
}

func TestSyncService_UnknownCityFailsWithoutFetching(t *testing.T) {
	db := setupSyncTestDB(t)
	fetcher := &mockFetcher{csv: tainanCSV}
	s := newTestSyncService(db, map[string]*mockFetcher{
		constants.CityTainan: fetcher,
	})

	ctx := context.Background()
	run := s.SyncCities(ctx, []string{"基隆市"})

	if run.OK {
		t.Error("Expected run not OK for unconfigured city")
	}
	if fetcher.calls != 0 {
		t.Errorf("Expected no fetch for unconfigured city, got %d calls", fetcher.calls)
	}

	var logRow gormModels.SyncLog
	if err := db.Where("source_city = ?", "基隆市").First(&logRow).Error; err != nil {
		t.Fatalf("Expected a failed log row: %v", err)
	}
	if logRow.Status != constants.SyncStatusFailed {
		t.Errorf("Expected failed log, got %s", logRow.Status)
	}
	if logRow.ErrorMessage == nil {
		t.Error("Expected error message on failed log")
	}
}

func TestSyncService_EmptyCityListMeansAll(t *testing.T) {
	db := setupSyncTestDB(t)

	taoyuan := &mockFetcher{csv: "行政區,地段,土地地號,被繼承人,面積\n中壢區,內壢段,1,許O,10\n"}
	tainan := &mockFetcher{csv: tainanCSV}
	kaohsiung := &mockFetcher{csv: "行政區,地段,地號,被繼承人,面積(平方公尺)\n左營區,新莊子段,2,吳O,20\n"}

	s := newTestSyncService(db, map[string]*mockFetcher{
		constants.CityTaoyuan:   taoyuan,
		constants.CityTainan:    tainan,
		constants.CityKaohsiung: kaohsiung,
	})

	run := s.SyncCities(context.Background(), nil)

	if len(run.Cities) != len(constants.KnownCities) {
		t.Fatalf("Expected %d city results, got %d", len(constants.KnownCities), len(run.Cities))
	}
	if taoyuan.calls != 1 || tainan.calls != 1 || kaohsiung.calls != 1 {
		t.Errorf("Expected each source fetched once, got %d/%d/%d",
			taoyuan.calls, tainan.calls, kaohsiung.calls)
	}
}

// Parser stub that always rejects its payload
type failingParser struct{}

func (failingParser) SourceCity() string { return constants.CityTainan }

func (failingParser) Parse(text string) ([]models.RawLandRecord, error) {
	return nil, errors.New("unusable payload")
}

func TestSyncService_UnparseablePayloadFailsCity(t *testing.T) {
	db := setupSyncTestDB(t)
	s := newTestSyncService(db, map[string]*mockFetcher{
		constants.CityTainan: {csv: tainanCSV},
	})

	entry := s.sources[constants.CityTainan]
	entry.Parser = failingParser{}
	s.sources[constants.CityTainan] = entry

	run := s.SyncCities(context.Background(), []string{constants.CityTainan})

	if run.OK {
		t.Error("Expected run not OK for unparseable payload")
	}
	if !strings.Contains(run.Cities[0].Error, "unparseable payload") {
		t.Errorf("Expected parse-stage error, got %q", run.Cities[0].Error)
	}

	var failed int64
	db.Model(&gormModels.SyncLog{}).Where("status = ?", constants.SyncStatusFailed).Count(&failed)
	if failed != 1 {
		t.Errorf("Expected 1 failed log, got %d", failed)
	}
}
