package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"Thrive/internal/api"
	"Thrive/internal/api/middleware"
	"Thrive/internal/backend"
)

// ReactionHandler serves the reaction endpoints.
type ReactionHandler struct {
	store api.ReactionStore
}

// NewReactionHandler creates a new reaction handler
func NewReactionHandler(store api.ReactionStore) *ReactionHandler {
	return &ReactionHandler{store: store}
}

// HandleListTypes returns the reaction type catalog as a bare array
// GET /api/reaction-types
func (h *ReactionHandler) HandleListTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.store.ListTypes(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if types == nil {
		types = []backend.ReactionType{}
	}
	writeJSON(w, http.StatusOK, types)
}

// HandleListForPost returns every reaction on a post
// GET /api/posts/{postID}/reactions
func (h *ReactionHandler) HandleListForPost(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")

	reactions, err := h.store.ListForPost(r.Context(), postID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if reactions == nil {
		reactions = []backend.Reaction{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reactions": reactions,
	})
}

// HandleSet creates or replaces the caller's reaction on a post
// PUT /api/posts/{postID}/reaction
func (h *ReactionHandler) HandleSet(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	postID := chi.URLParam(r, "postID")

	var req struct {
		TypeID string `json:"typeId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}
	if req.TypeID == "" {
		WriteError(w, http.StatusBadRequest, "InvalidRequest", "typeId is required")
		return
	}

	reaction, err := h.store.Set(r.Context(), postID, userID, req.TypeID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reaction)
}

// HandleRemove withdraws the caller's reaction from a post
// DELETE /api/posts/{postID}/reaction
func (h *ReactionHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	postID := chi.URLParam(r, "postID")

	if err := h.store.Remove(r.Context(), postID, userID); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
