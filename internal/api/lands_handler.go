package api

import (
	"net/http"
	"strconv"

	"taiwan-opendata/landsync/internal/db/repositories"
	"taiwan-opendata/landsync/internal/services"
)

// LandsHandler serves the read API over the unclaimed_lands store
type LandsHandler struct {
	querySvc  *services.LandQueryService
	statusSvc *services.SourceStatusService
	logRepo   *repositories.SyncLogRepository
}

// NewLandsHandler creates a new lands handler
func NewLandsHandler(querySvc *services.LandQueryService, statusSvc *services.SourceStatusService, logRepo *repositories.SyncLogRepository) *LandsHandler {
	return &LandsHandler{
		querySvc:  querySvc,
		statusSvc: statusSvc,
		logRepo:   logRepo,
	}
}

// ListLands handles GET /api/v1/lands with city/district/keyword filters
// and limit/offset pagination
func (h *LandsHandler) ListLands() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		limit, _ := strconv.Atoi(q.Get("limit"))
		offset, _ := strconv.Atoi(q.Get("offset"))
		if offset < 0 {
			offset = 0
		}

		filter := repositories.LandFilter{
			City:     q.Get("city"),
			District: q.Get("district"),
			Keyword:  q.Get("q"),
			Limit:    limit,
			Offset:   offset,
		}

		result, err := h.querySvc.Search(r.Context(), filter)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to query land records")
			return
		}

		respondWithSuccess(w, http.StatusOK, result)
	}
}

// GetStats handles GET /api/v1/lands/stats
func (h *LandsHandler) GetStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.querySvc.Stats(r.Context())
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to compute stats")
			return
		}

		respondWithSuccess(w, http.StatusOK, stats)
	}
}

// GetCities handles GET /api/v1/lands/cities
func (h *LandsHandler) GetCities() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cities, err := h.querySvc.Cities(r.Context())
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to list cities")
			return
		}

		respondWithSuccess(w, http.StatusOK, &cities)
	}
}

// GetSources handles GET /api/v1/sources, the availability snapshot
func (h *LandsHandler) GetSources() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		refresh := r.URL.Query().Get("refresh") == "true"

		var snap *services.SourceAvailability
		var err error
		if refresh {
			snap, err = h.statusSvc.Refresh(r.Context())
		} else {
			snap, err = h.statusSvc.Snapshot(r.Context())
		}
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to read data sources")
			return
		}

		respondWithSuccess(w, http.StatusOK, snap)
	}
}

// GetSyncLogs handles GET /api/v1/sync/logs
func (h *LandsHandler) GetSyncLogs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit <= 0 || limit > 200 {
			limit = 50
		}

		logs, err := h.logRepo.Recent(r.Context(), limit)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to read sync logs")
			return
		}

		respondWithSuccess(w, http.StatusOK, &logs)
	}
}
