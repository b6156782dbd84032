package constants

// Sync log lifecycle states. A log row is created as running and updated
// exactly once to completed or failed.
const (
	SyncStatusRunning   = "running"
	SyncStatusCompleted = "completed"
	SyncStatusFailed    = "failed"
)

// Data source availability states
const (
	SourceStatusActive   = "active"
	SourceStatusInactive = "inactive"
)

// UpsertBatchSize is the number of records written per store round trip
const UpsertBatchSize = 100
