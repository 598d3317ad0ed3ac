package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"Thrive/internal/api"
	"Thrive/internal/api/middleware"
	"Thrive/internal/backend"
)

// PostHandler serves the post feed and authoring endpoints.
type PostHandler struct {
	posts     api.PostStore
	groups    api.GroupStore
	reactions api.ReactionStore
}

// NewPostHandler creates a new post handler
func NewPostHandler(posts api.PostStore, groups api.GroupStore, reactions api.ReactionStore) *PostHandler {
	return &PostHandler{posts: posts, groups: groups, reactions: reactions}
}

// HandleListGroupPosts returns a filtered page of a group's posts.
// Only joined members may read a group's feed.
// GET /api/groups/{groupID}/posts?pageNumber=1&pageSize=10&search=&status=&from=&to=
func (h *PostHandler) HandleListGroupPosts(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.GetUserID(r)
	groupID := chi.URLParam(r, "groupID")

	if !h.requireMember(w, r, groupID, viewer) {
		return
	}

	q := r.URL.Query()
	filter := api.PostFilter{
		Search: q.Get("search"),
		Status: q.Get("status"),
		From:   q.Get("from"),
		To:     q.Get("to"),
	}
	if !validDate(filter.From) || !validDate(filter.To) {
		WriteError(w, http.StatusBadRequest, "InvalidRequest", "from/to must be formatted as 2006-01-02")
		return
	}

	var size int
	_, size, filter.Limit, filter.Offset = parsePage(r, 10)

	posts, total, err := h.posts.List(r.Context(), viewer, groupID, filter)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	// Embed each post's reactions so clients can seed their caches
	// without a second round trip per post.
	for i := range posts {
		reactions, err := h.reactions.ListForPost(r.Context(), posts[i].ID)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		posts[i].Reactions = reactions
	}
	if posts == nil {
		posts = []backend.Post{}
	}
	writePage(w, posts, total, size)
}

// HandleCreate publishes a post. The author must be a joined member of
// the target group.
// POST /api/posts
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.GetUserID(r)

	var req backend.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}
	if req.GroupID == "" {
		WriteError(w, http.StatusBadRequest, "InvalidRequest", "groupId is required")
		return
	}
	if req.Content == "" {
		WriteError(w, http.StatusBadRequest, "InvalidRequest", "content is required")
		return
	}

	if !h.requireMember(w, r, req.GroupID, viewer) {
		return
	}

	post, err := h.posts.Create(r.Context(), viewer, req)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// HandleEdit updates a post's content
// PATCH /api/posts/{postID}
func (h *PostHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.GetUserID(r)
	postID := chi.URLParam(r, "postID")

	var req backend.EditPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}
	if req.Content == "" {
		WriteError(w, http.StatusBadRequest, "InvalidRequest", "content is required")
		return
	}

	post, err := h.posts.Edit(r.Context(), postID, viewer, req)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// HandleDelete soft-deletes a post
// DELETE /api/posts/{postID}
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.GetUserID(r)
	postID := chi.URLParam(r, "postID")

	if err := h.posts.Delete(r.Context(), postID, viewer); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PostHandler) requireMember(w http.ResponseWriter, r *http.Request, groupID, userID string) bool {
	status, err := h.groups.MembershipStatus(r.Context(), groupID, userID)
	if err != nil {
		writeStoreError(w, err)
		return false
	}
	if status != "joined" {
		WriteError(w, http.StatusForbidden, "Forbidden", "Group membership required")
		return false
	}
	return true
}

func validDate(s string) bool {
	if s == "" {
		return true
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
