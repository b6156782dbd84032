package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"taiwan-opendata/landsync/internal/constants"
)

// CKANProvider fetches datasets published behind a CKAN-style metadata
// document: the dataset id resolves to a resource list, and the first
// resource tagged CSV is downloaded.
type CKANProvider struct {
	client *http.Client
}

// NewCKANProvider creates a new metadata-indirection fetcher
func NewCKANProvider() *CKANProvider {
	return &CKANProvider{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Strategy returns the retrieval strategy identifier
func (p *CKANProvider) Strategy() string {
	return "ckan_csv"
}

// FetchCSV resolves the dataset metadata, picks the CSV resource and
// downloads it. Fails if the metadata fetch fails, no CSV-tagged resource
// exists, or the resource download fails.
func (p *CKANProvider) FetchCSV(ctx context.Context, src SourceConfig) (*FetchResult, error) {
	metaURL := fmt.Sprintf("%s?id=%s", src.APIURL, src.DatasetID)

	body, err := p.get(ctx, metaURL)
	if err != nil {
		return nil, err
	}

	var meta ckanPackageResponse
	if err := json.Unmarshal(body, &meta); err != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeBadPayload,
			Message: constants.GetErrorMessage(constants.ErrCodeBadPayload),
			Err:     err,
		}
	}

	resource := meta.findCSVResource()
	if resource == nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeNoCSVResource,
			Message: constants.GetErrorMessage(constants.ErrCodeNoCSVResource),
			Details: fmt.Sprintf("dataset %s", src.DatasetID),
		}
	}

	log.Printf("[CKANProvider] %s: resolved CSV resource %s", src.City, resource.URL)

	csvBody, err := p.get(ctx, resource.URL)
	if err != nil {
		return nil, err
	}

	text := string(csvBody)
	return &FetchResult{
		CSV:         text,
		RecordCount: countDataRows(text),
		SourceURL:   resource.URL,
	}, nil
}

// get performs one GET and maps any failure to a ProviderError
func (p *CKANProvider) get(ctx context.Context, url string) ([]byte, error) {
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

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}
	return body, nil
}

// countDataRows counts non-empty lines after the header row
func countDataRows(text string) int {
	lines := strings.Split(text, "\n")
	count := 0
	for i, line := range lines {
		if i == 0 {
			continue
		}
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}

// CKAN metadata response structures

type ckanResource struct {
	Format string `json:"format"`
	URL    string `json:"url"`
	Name   string `json:"name,omitempty"`
}

type ckanPackageResponse struct {
	Result struct {
		Resources []ckanResource `json:"resources"`
	} `json:"result"`
}

// findCSVResource returns the first resource whose format tag equals
// "csv" case-insensitively, or nil
func (r *ckanPackageResponse) findCSVResource() *ckanResource {
	for i := range r.Result.Resources {
		if strings.EqualFold(strings.TrimSpace(r.Result.Resources[i].Format), "csv") {
			return &r.Result.Resources[i]
		}
	}
	return nil
}
