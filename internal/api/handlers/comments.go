package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"Thrive/internal/api"
	"Thrive/internal/api/middleware"
	"Thrive/internal/backend"
)

// CommentHandler serves the comment thread endpoints.
type CommentHandler struct {
	store api.CommentStore
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(store api.CommentStore) *CommentHandler {
	return &CommentHandler{store: store}
}

type commentRequest struct {
	Text string `json:"text"`
}

// HandleList returns a page of a post's comments
// GET /api/posts/{postID}/comments?pageNumber=1&pageSize=10
func (h *CommentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")
	_, size, limit, offset := parsePage(r, 10)

	comments, total, err := h.store.List(r.Context(), postID, limit, offset)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if comments == nil {
		comments = []backend.Comment{}
	}
	writePage(w, comments, total, size)
}

// HandleCreate adds a comment to a post
// POST /api/posts/{postID}/comments
func (h *CommentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.GetUserID(r)
	postID := chi.URLParam(r, "postID")

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}
	if req.Text == "" {
		WriteError(w, http.StatusBadRequest, "InvalidRequest", "text is required")
		return
	}

	comment, err := h.store.Create(r.Context(), postID, viewer, req.Text)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

// HandleEdit updates a comment's text
// PATCH /api/comments/{commentID}
func (h *CommentHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.GetUserID(r)
	commentID := chi.URLParam(r, "commentID")

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}
	if req.Text == "" {
		WriteError(w, http.StatusBadRequest, "InvalidRequest", "text is required")
		return
	}

	comment, err := h.store.Edit(r.Context(), commentID, viewer, req.Text)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

// HandleDelete removes a comment
// DELETE /api/comments/{commentID}
func (h *CommentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.GetUserID(r)
	commentID := chi.URLParam(r, "commentID")

	if err := h.store.Delete(r.Context(), commentID, viewer); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
