package handlers

import (
	"encoding/json"
	"net/http"

	"Thrive/internal/api"
	"Thrive/internal/api/middleware"
	"Thrive/internal/backend"
)

// ReportHandler serves the moderation endpoints.
type ReportHandler struct {
	store api.ReportStore
}

// NewReportHandler creates a new report handler
func NewReportHandler(store api.ReportStore) *ReportHandler {
	return &ReportHandler{store: store}
}

// HandleListReasons returns the report reason catalog
// GET /api/report-reasons
func (h *ReportHandler) HandleListReasons(w http.ResponseWriter, r *http.Request) {
	reasons, err := h.store.ListReasons(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if reasons == nil {
		reasons = []backend.ReportReason{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": reasons,
	})
}

// HandleCreate files a report against a post. A user may report a
// given post once; repeats respond 409.
// POST /api/reports
func (h *ReportHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	reporter := middleware.GetUserID(r)

	var req backend.CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}
	if req.PostID == "" {
		WriteError(w, http.StatusBadRequest, "InvalidRequest", "postId is required")
		return
	}
	if req.ReasonID == "" {
		WriteError(w, http.StatusBadRequest, "InvalidRequest", "reasonId is required")
		return
	}

	report, err := h.store.Create(r.Context(), reporter, req)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, report)
}
