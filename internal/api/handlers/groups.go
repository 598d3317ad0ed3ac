package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Thrive/internal/api"
	"Thrive/internal/api/middleware"
	"Thrive/internal/backend"
)

// GroupHandler serves the group directory and membership endpoints.
type GroupHandler struct {
	store api.GroupStore
}

// NewGroupHandler creates a new group handler
func NewGroupHandler(store api.GroupStore) *GroupHandler {
	return &GroupHandler{store: store}
}

// HandleList returns a page of the group directory
// GET /api/groups?pageNumber=1&pageSize=20
func (h *GroupHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.GetUserID(r)
	_, size, limit, offset := parsePage(r, 20)

	groups, total, err := h.store.List(r.Context(), viewer, limit, offset)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if groups == nil {
		groups = []backend.Group{}
	}
	writePage(w, groups, total, size)
}

// HandleGet returns a single group
// GET /api/groups/{groupID}
func (h *GroupHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.GetUserID(r)
	groupID := chi.URLParam(r, "groupID")

	group, err := h.store.Get(r.Context(), viewer, groupID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

// HandleJoin requests membership in a group. Private groups produce a
// pending membership that an admin would approve out of band.
// POST /api/groups/{groupID}/join
func (h *GroupHandler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	groupID := chi.URLParam(r, "groupID")

	status, err := h.store.Join(r.Context(), groupID, userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, backend.MembershipResult{GroupID: groupID, Status: status})
}

// HandleLeave withdraws membership from a group
// POST /api/groups/{groupID}/leave
func (h *GroupHandler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	groupID := chi.URLParam(r, "groupID")

	if err := h.store.Leave(r.Context(), groupID, userID); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
