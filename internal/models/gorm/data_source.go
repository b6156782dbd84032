package gorm

import "time"

// DataSource is the per-city dataset registration. Seeded once per known
// city, updated in place by the orchestrator after a successful sync.
type DataSource struct {
	ID           string     `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	City         string     `gorm:"column:city;type:varchar(20);not null;uniqueIndex" json:"city"`
	DatasetID    string     `gorm:"column:dataset_id;type:varchar(100);not null" json:"dataset_id"`
	APIURL       string     `gorm:"column:api_url;type:text;not null" json:"api_url"`
	LastSyncedAt *time.Time `gorm:"column:last_synced_at" json:"last_synced_at"`
	RecordCount  int        `gorm:"column:record_count;default:0" json:"record_count"`
	Status       string     `gorm:"column:status;type:varchar(20);default:active" json:"status"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (DataSource) TableName() string {
	return "data_sources"
}
