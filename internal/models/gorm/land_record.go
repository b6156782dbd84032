package gorm

import (
	"encoding/json"
	"time"
)

// LandRecord is a canonical unclaimed-inheritance parcel row.
// Uniqueness is the (source_city, district, land_number) triple; the
// pipeline upserts on that key so reruns never duplicate rows.
type LandRecord struct {
	ID         string  `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	SourceCity string  `gorm:"column:source_city;type:varchar(20);not null;uniqueIndex:idx_lands_identity,priority:1" json:"source_city"`
	District   string  `gorm:"column:district;type:varchar(50);not null;uniqueIndex:idx_lands_identity,priority:2" json:"district"`
	Section    *string `gorm:"column:section;type:varchar(100)" json:"section"`
	LandNumber string  `gorm:"column:land_number;type:varchar(100);not null;uniqueIndex:idx_lands_identity,priority:3" json:"land_number"`
	OwnerName  *string `gorm:"column:owner_name;type:varchar(100)" json:"owner_name"`

	AreaM2   *float64 `gorm:"column:area_m2;type:numeric(14,2)" json:"area_m2"`
	AreaPing *float64 `gorm:"column:area_ping;type:numeric(14,2)" json:"area_ping"`

	Status string `gorm:"column:status;type:varchar(50);not null" json:"status"`

	// Approximate district-level point for map display, never parcel geometry
	Latitude  *float64 `gorm:"column:latitude;type:numeric(10,6)" json:"latitude"`
	Longitude *float64 `gorm:"column:longitude;type:numeric(10,6)" json:"longitude"`

	RawData   json.RawMessage `gorm:"column:raw_data;type:jsonb" json:"raw_data"`
	SourceURL *string         `gorm:"column:source_url;type:text" json:"source_url"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (LandRecord) TableName() string {
	return "unclaimed_lands"
}
