package models

// RawLandRecord is the per-source intermediate shape produced by a parser
// from one row of raw tabular text. Transient: consumed within a single
// sync invocation, never persisted.
type RawLandRecord struct {
	SourceCity string
	District   string
	Section    *string
	LandNumber string
	OwnerName  *string
	AreaM2     *float64
	AreaPing   *float64
	Status     *string
	RawData    map[string]string
}

// Coordinates is an approximate district-level point for map display
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// NormalizedLand is the canonical pipeline output, ready for upsert under
// the (SourceCity, District, LandNumber) uniqueness key.
type NormalizedLand struct {
	SourceCity  string
	District    string
	Section     *string
	LandNumber  string
	OwnerName   *string
	AreaM2      *float64
	AreaPing    *float64
	Status      string
	Coordinates *Coordinates
	RawData     map[string]string
	SourceURL   *string
}
