package entities

import (
	"encoding/json"
	"time"
)

// LandRow is the sqlx scan target for the unclaimed_lands read queries
type LandRow struct {
	ID         string          `db:"id" json:"id"`
	SourceCity string          `db:"source_city" json:"source_city"`
	District   string          `db:"district" json:"district"`
	Section    *string         `db:"section" json:"section"`
	LandNumber string          `db:"land_number" json:"land_number"`
	OwnerName  *string         `db:"owner_name" json:"owner_name"`
	AreaM2     *float64        `db:"area_m2" json:"area_m2"`
	AreaPing   *float64        `db:"area_ping" json:"area_ping"`
	Status     string          `db:"status" json:"status"`
	Latitude   *float64        `db:"latitude" json:"latitude"`
	Longitude  *float64        `db:"longitude" json:"longitude"`
	RawData    json.RawMessage `db:"raw_data" json:"raw_data,omitempty"`
	SourceURL  *string         `db:"source_url" json:"source_url"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}

// CityStats aggregates record counts and area per source city
type CityStats struct {
	SourceCity    string   `db:"source_city" json:"source_city"`
	RecordCount   int      `db:"record_count" json:"record_count"`
	TotalAreaM2   *float64 `db:"total_area_m2" json:"total_area_m2"`
	TotalAreaPing *float64 `db:"total_area_ping" json:"total_area_ping"`
}

// LandStats is the full stats payload served by the read API
type LandStats struct {
	TotalRecords int         `json:"total_records"`
	Cities       []CityStats `json:"cities"`
	GeneratedAt  time.Time   `json:"generated_at"`
}
