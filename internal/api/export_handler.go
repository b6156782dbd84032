package api

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"taiwan-opendata/landsync/internal/common"
	"taiwan-opendata/landsync/internal/models/dtos"
	"taiwan-opendata/landsync/internal/services"
)

// ExportHandler issues presigned CSV export links and serves them
type ExportHandler struct {
	querySvc *services.LandQueryService
	signer   *common.URLSignerService
}

// NewExportHandler creates a new export handler
func NewExportHandler(querySvc *services.LandQueryService, signer *common.URLSignerService) *ExportHandler {
	return &ExportHandler{
		querySvc: querySvc,
		signer:   signer,
	}
}

type exportLinkResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CreateExportLink handles POST /api/v1/lands/export-link
func (h *ExportHandler) CreateExportLink() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.ExportLinkRequest
		if r.Body != nil {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err.Error() != "EOF" {
				respondWithError(w, http.StatusBadRequest, "Invalid request body")
				return
			}
		}

		ttl := 15 * time.Minute
		token, err := h.signer.GenerateExportToken(req.City, ttl)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to sign export link")
			return
		}

		resp := exportLinkResponse{
			URL:       fmt.Sprintf("/export/lands?token=%s", token),
			ExpiresAt: time.Now().Add(ttl),
		}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// ServeExport handles GET /export/lands?token=... and streams CSV
func (h *ExportHandler) ServeExport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString := r.URL.Query().Get("token")
		if tokenString == "" {
			http.Error(w, "Missing token", http.StatusUnauthorized)
			return
		}

		token, err := h.signer.ValidateToken(tokenString)
		if err != nil {
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		rows, err := h.querySvc.Export(r.Context(), token.City)
		if err != nil {
			http.Error(w, "Export failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="unclaimed_lands.csv"`)

		cw := csv.NewWriter(w)
		_ = cw.Write([]string{"source_city", "district", "section", "land_number", "owner_name", "area_m2", "area_ping", "status", "latitude", "longitude"})

		for _, row := range rows {
			record := []string{
				row.SourceCity,
				row.District,
				deref(row.Section),
				row.LandNumber,
				deref(row.OwnerName),
				formatFloat(row.AreaM2),
				formatFloat(row.AreaPing),
				row.Status,
				formatFloat(row.Latitude),
				formatFloat(row.Longitude),
			}
			_ = cw.Write(record)
		}
		cw.Flush()
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
