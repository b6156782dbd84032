package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"taiwan-opendata/landsync/internal/models/dtos"
	"taiwan-opendata/landsync/internal/services"
)

// SyncHandler exposes the two trigger surfaces for the ingestion
// pipeline: the scheduled cron entry point and the manual admin trigger.
// Both sit behind the bearer-secret middleware.
type SyncHandler struct {
	syncSvc  *services.SyncService
	querySvc *services.LandQueryService
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(syncSvc *services.SyncService, querySvc *services.LandQueryService) *SyncHandler {
	return &SyncHandler{
		syncSvc:  syncSvc,
		querySvc: querySvc,
	}
}

// TriggerScheduledSync handles POST /api/v1/sync/run, the cron surface.
// It always syncs every known city. Per-city failures ride in the
// payload; the transport status stays 200 as long as the run completed.
func (h *SyncHandler) TriggerScheduledSync() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("[SyncHandler] Scheduled sync triggered")

		result := h.runGuarded(r, nil)
		if result == nil {
			respondWithError(w, http.StatusInternalServerError, "Sync run aborted unexpectedly")
			return
		}

		h.querySvc.InvalidateStats()
		respondWithSuccess(w, http.StatusOK, result)
	}
}

// TriggerManualSync handles POST /api/v1/admin/sync, the admin surface.
// Accepts an explicit city list; an empty or absent list syncs all
// known cities.
func (h *SyncHandler) TriggerManualSync() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.SyncTriggerRequest
		if r.Body != nil {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err.Error() != "EOF" {
				respondWithError(w, http.StatusBadRequest, "Invalid request body")
				return
			}
		}

		log.Printf("[SyncHandler] Manual sync triggered for %d cities", len(req.Cities))

		result := h.runGuarded(r, req.Cities)
		if result == nil {
			respondWithError(w, http.StatusInternalServerError, "Sync run aborted unexpectedly")
			return
		}

		h.querySvc.InvalidateStats()
		respondWithSuccess(w, http.StatusOK, result)
	}
}

// runGuarded executes a run and converts a panic outside the per-city
// scope into a nil result; per-city errors never reach here
func (h *SyncHandler) runGuarded(r *http.Request, cities []string) (result *services.RunResult) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[SyncHandler] Fatal: sync run panicked: %v", rec)
			result = nil
		}
	}()

	start := time.Now()
	result = h.syncSvc.SyncCities(r.Context(), cities)
	log.Printf("[SyncHandler] Run completed in %s", time.Since(start).Truncate(time.Millisecond))
	return result
}
