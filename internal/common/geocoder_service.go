package common

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"taiwan-opendata/landsync/internal/models"
)

// GeocoderService is the optional enrichment path: it resolves a free-text
// address to a point via a Nominatim-compatible endpoint. It is never on
// the primary sync path (district lookups cover that) and it paces
// requests to one per second as the upstream usage policy requires.
type GeocoderService struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	cache   CacheInterface
}

// NewGeocoderService creates a geocoder limited to one request per second
func NewGeocoderService(baseURL string, cache CacheInterface) *GeocoderService {
	return &GeocoderService{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		cache:   cache,
	}
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode resolves an address to approximate coordinates. Results are
// cached for a day; cache misses wait on the rate limiter.
func (g *GeocoderService) Geocode(ctx context.Context, address string) (*models.Coordinates, error) {
	if address == "" {
		return nil, fmt.Errorf("empty address")
	}

	cacheKey := "geocode:" + address
	if cached, found := g.cache.Get(cacheKey); found {
		if point, ok := cached.(models.Coordinates); ok {
			return &point, nil
		}
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/search?format=json&limit=1&countrycodes=tw&q=%s",
		g.baseURL, url.QueryEscape(address))

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "landsync/1.0")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder returned HTTP %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode geocoder response: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("bad latitude in geocoder response: %w", err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("bad longitude in geocoder response: %w", err)
	}

	point := models.Coordinates{Lat: lat, Lng: lng}
	g.cache.Set(cacheKey, point, 24*time.Hour)
	return &point, nil
}
