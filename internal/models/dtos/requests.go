package dtos

// SyncTriggerRequest is the manual sync trigger body. An empty city list
// means all known cities.
type SyncTriggerRequest struct {
	Cities []string `json:"cities,omitempty"`
}

// ExportLinkRequest asks for a presigned CSV export link
type ExportLinkRequest struct {
	City string `json:"city,omitempty"`
}
