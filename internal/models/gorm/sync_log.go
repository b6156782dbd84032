package gorm

import "time"

// SyncLog is one sync attempt for one source city. Rows are strictly
// additive: created as "running" at the start of an attempt and updated
// exactly once on completion or failure. Pruning is an external concern.
type SyncLog struct {
	ID             string     `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	SourceCity     string     `gorm:"column:source_city;type:varchar(20);not null" json:"source_city"`
	StartedAt      time.Time  `gorm:"column:started_at;not null" json:"started_at"`
	CompletedAt    *time.Time `gorm:"column:completed_at" json:"completed_at"`
	RecordsAdded   int        `gorm:"column:records_added;default:0" json:"records_added"`
	RecordsUpdated int        `gorm:"column:records_updated;default:0" json:"records_updated"`
	Status         string     `gorm:"column:status;type:varchar(20);not null" json:"status"`
	ErrorMessage   *string    `gorm:"column:error_message;type:text" json:"error_message"`
}

// TableName specifies the table name for GORM
func (SyncLog) TableName() string {
	return "sync_logs"
}
