package providers

import (
	"context"
	"fmt"
)

// SourceConfig identifies one upstream dataset to fetch
type SourceConfig struct {
	City      string // canonical city name, used for logging only
	DatasetID string // portal dataset identifier
	APIURL    string // metadata endpoint or listing endpoint, per strategy
}

// FetchResult is the uniform fetch outcome: raw CSV text (header row plus
// data rows) ready for parsing, regardless of the upstream wire shape.
type FetchResult struct {
	CSV         string
	RecordCount int    // data rows, header excluded
	SourceURL   string // resolved download URL, kept for provenance
}

// SourceFetcher retrieves raw tabular text for one data source.
// Implementations convert every HTTP or transport failure into a
// ProviderError; they never panic out of FetchCSV.
type SourceFetcher interface {
	FetchCSV(ctx context.Context, src SourceConfig) (*FetchResult, error)

	// Strategy returns the retrieval strategy identifier
	Strategy() string
}

// ProviderError represents a fetch-level error with a stable code
type ProviderError struct {
	Code    string
	Message string
	Details string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
