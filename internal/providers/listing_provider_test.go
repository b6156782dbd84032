package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"taiwan-opendata/landsync/internal/constants"
)

func TestListingProvider_PaginatesUntilEmptyPage(t *testing.T) {
	// Two full-ish pages then an empty one
	pages := map[int]int{0: 3, 1000: 2, 2000: 0}

	var requests []int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		requests = append(requests, offset)

		if got := r.URL.Query().Get("limit"); got != "1000" {
			t.Errorf("Expected limit 1000, got %s", got)
		}

		count := pages[offset]
		rows := make([]string, 0, count)
		for i := 0; i < count; i++ {
			rows = append(rows, fmt.Sprintf(`{"行政區":"中壢區","土地地號":"%d-%d","被繼承人":"許O"}`, offset, i))
		}
		fmt.Fprintf(w, `{"result":{"records":[%s]}}`, strings.Join(rows, ","))
	}))
	defer server.Close()

	provider := NewListingProvider()
	result, err := provider.FetchCSV(context.Background(), SourceConfig{
		City:   constants.CityTaoyuan,
		APIURL: server.URL,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(requests) != 3 {
		t.Fatalf("Expected 3 page fetches, got %d (%v)", len(requests), requests)
	}
	if requests[0] != 0 || requests[1] != 1000 || requests[2] != 2000 {
		t.Errorf("Expected offsets 0,1000,2000, got %v", requests)
	}
	if result.RecordCount != 5 {
		t.Errorf("Expected 5 combined records, got %d", result.RecordCount)
	}
	if result.SourceURL != server.URL {
		t.Errorf("Expected listing URL as provenance, got %s", result.SourceURL)
	}

	lines := strings.Split(strings.TrimSpace(result.CSV), "\n")
	if len(lines) != 6 {
		t.Fatalf("Expected header plus 5 rows, got %d lines", len(lines))
	}
	// Header is the union of keys seen across records
	for _, col := range []string{"行政區", "土地地號", "被繼承人"} {
		if !strings.Contains(lines[0], col) {
			t.Errorf("Expected header to contain %s, got %s", col, lines[0])
		}
	}
}

func TestListingProvider_SafetyCapStopsPagination(t *testing.T) {
	// Every page is full, pagination would never terminate on its own
	var pagesServed int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pagesServed++
		rows := make([]string, 0, 1000)
		for i := 0; i < 1000; i++ {
			rows = append(rows, fmt.Sprintf(`{"地號":"%d"}`, i))
		}
		fmt.Fprintf(w, `{"result":{"records":[%s]}}`, strings.Join(rows, ","))
	}))
	defer server.Close()

	result, err := NewListingProvider().FetchCSV(context.Background(), SourceConfig{
		City:   constants.CityTaoyuan,
		APIURL: server.URL,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.RecordCount != 100000 {
		t.Errorf("Expected record count capped at 100000, got %d", result.RecordCount)
	}
	if pagesServed != 100 {
		t.Errorf("Expected exactly 100 page fetches before the cap, got %d", pagesServed)
	}
}

func TestListingProvider_HTTPErrorMidPagination(t *testing.T) {
	var pagesServed int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pagesServed++
		if pagesServed > 1 {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
			return
		}
		rows := make([]string, 0, 1000)
		for i := 0; i < 1000; i++ {
			rows = append(rows, fmt.Sprintf(`{"地號":"%d"}`, i))
		}
		fmt.Fprintf(w, `{"result":{"records":[%s]}}`, strings.Join(rows, ","))
	}))
	defer server.Close()

	_, err := NewListingProvider().FetchCSV(context.Background(), SourceConfig{
		City:   constants.CityTaoyuan,
		APIURL: server.URL,
	})
	if err == nil {
		t.Fatal("Expected an error when a later page fails")
	}

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("Expected a ProviderError, got %T", err)
	}
	if provErr.Code != constants.ErrCodeHTTPStatus {
		t.Errorf("Expected code %s, got %s", constants.ErrCodeHTTPStatus, provErr.Code)
	}
}

func TestRecordsToCSV_StableHeaderAndNumbers(t *testing.T) {
	records := []map[string]interface{}{
		{"b": "x", "a": float64(42)},
		{"a": 1.5, "c": "y"},
	}

	text, err := recordsToCSV(records)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	lines := strings.Split(strings.TrimSpace(text), "\n")
	if lines[0] != "a,b,c" {
		t.Errorf("Expected sorted union header a,b,c, got %s", lines[0])
	}
	if lines[1] != "42,x," {
		t.Errorf("Expected integer-clean formatting, got %s", lines[1])
	}
	if lines[2] != "1.5,,y" {
		t.Errorf("Expected 1.5,,y, got %s", lines[2])
	}
}

func TestRecordsToCSV_EmptyInput(t *testing.T) {
	text, err := recordsToCSV(nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if strings.TrimSpace(text) != "" {
		t.Errorf("Expected empty output for no records, got %q", text)
	}
}
