package providers

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"time"

	"taiwan-opendata/landsync/internal/constants"
)

const (
	// listingPageSize is the offset increment per page fetch
	listingPageSize = 1000

	// listingMaxRecords caps total accumulated rows so a misbehaving
	// upstream that never terminates pagination cannot exhaust memory
	listingMaxRecords = 100000
)

// ListingProvider fetches datasets exposed as a paginated JSON listing:
// fixed-size pages at increasing offsets until an empty page, then the
// combined record set is serialized to CSV so downstream parsing is
// uniform with the CKAN strategy.
type ListingProvider struct {
	client *http.Client
}

// NewListingProvider creates a new paginated-listing fetcher
func NewListingProvider() *ListingProvider {
	return &ListingProvider{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Strategy returns the retrieval strategy identifier
func (p *ListingProvider) Strategy() string {
	return "paginated_listing"
}

// FetchCSV accumulates all listing pages and serializes them to CSV
func (p *ListingProvider) FetchCSV(ctx context.Context, src SourceConfig) (*FetchResult, error) {
	var all []map[string]interface{}
	offset := 0
	page := 0

	for {
		page++
		url := fmt.Sprintf("%s?format=json&limit=%d&offset=%d", src.APIURL, listingPageSize, offset)

		records, err := p.fetchPage(ctx, url)
		if err != nil {
			return nil, err
		}

		log.Printf("[ListingProvider] %s: page %d returned %d records", src.City, page, len(records))

		if len(records) == 0 {
			break
		}

		all = append(all, records...)
		if len(all) >= listingMaxRecords {
			log.Printf("[ListingProvider] %s: hit safety cap of %d records, stopping pagination", src.City, listingMaxRecords)
			all = all[:listingMaxRecords]
			break
		}

		offset += listingPageSize
	}

	text, err := recordsToCSV(all)
	if err != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeBadPayload,
			Message: constants.GetErrorMessage(constants.ErrCodeBadPayload),
			Err:     err,
		}
	}

	return &FetchResult{
		CSV:         text,
		RecordCount: len(all),
		SourceURL:   src.APIURL,
	}, nil
}

// fetchPage retrieves one page of the listing
func (p *ListingProvider) fetchPage(ctx context.Context, url string) ([]map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &ProviderError{
			Code:    constants.ErrCodeHTTPStatus,
			Message: fmt.Sprintf("HTTP %d from %s", resp.StatusCode, url),
			Details: string(body),
		}
	}

	var envelope listingResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeBadPayload,
			Message: constants.GetErrorMessage(constants.ErrCodeBadPayload),
			Err:     err,
		}
	}

	return envelope.Result.Records, nil
}

// recordsToCSV serializes the combined record set with a stable header:
// the sorted union of all keys seen across records
func recordsToCSV(records []map[string]interface{}) (string, error) {
	keySet := make(map[string]bool)
	for _, rec := range records {
		for k := range rec {
			keySet[k] = true
		}
	}

	header := make([]string, 0, len(keySet))
	for k := range keySet {
		header = append(header, k)
	}
	sort.Strings(header)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, rec := range records {
		row := make([]string, len(header))
		for i, k := range header {
			if v, ok := rec[k]; ok && v != nil {
				switch val := v.(type) {
				case string:
					row[i] = val
				case float64:
					// JSON numbers decode as float64; keep integers clean
					if val == float64(int64(val)) {
						row[i] = fmt.Sprintf("%d", int64(val))
					} else {
						row[i] = fmt.Sprintf("%g", val)
					}
				default:
					row[i] = fmt.Sprintf("%v", val)
				}
			}
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	return buf.String(), w.Error()
}

// Paginated listing response structure

type listingResponse struct {
	Result struct {
		Records []map[string]interface{} `json:"records"`
	} `json:"result"`
}
