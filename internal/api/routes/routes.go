// Package routes wires handlers onto the chi router. Every endpoint
// except token issuance requires a Bearer token.
package routes

import (
	"github.com/go-chi/chi/v5"

	"Thrive/internal/api/handlers"
	"Thrive/internal/api/middleware"
)

// RegisterAuthRoutes registers the token issuance endpoint
func RegisterAuthRoutes(r chi.Router, h *handlers.AuthHandler) {
	r.Post("/api/auth/token", h.HandleToken)
}

// RegisterGroupRoutes registers the group directory and membership endpoints
func RegisterGroupRoutes(r chi.Router, h *handlers.GroupHandler, auth *middleware.TokenAuth) {
	r.With(auth.RequireAuth).Get("/api/groups", h.HandleList)
	r.With(auth.RequireAuth).Get("/api/groups/{groupID}", h.HandleGet)
	r.With(auth.RequireAuth).Post("/api/groups/{groupID}/join", h.HandleJoin)
	r.With(auth.RequireAuth).Post("/api/groups/{groupID}/leave", h.HandleLeave)
}

// RegisterPostRoutes registers the feed and post authoring endpoints
func RegisterPostRoutes(r chi.Router, h *handlers.PostHandler, auth *middleware.TokenAuth) {
	r.With(auth.RequireAuth).Get("/api/groups/{groupID}/posts", h.HandleListGroupPosts)
	r.With(auth.RequireAuth).Post("/api/posts", h.HandleCreate)
	r.With(auth.RequireAuth).Patch("/api/posts/{postID}", h.HandleEdit)
	r.With(auth.RequireAuth).Delete("/api/posts/{postID}", h.HandleDelete)
}

// RegisterCommentRoutes registers the comment thread endpoints
func RegisterCommentRoutes(r chi.Router, h *handlers.CommentHandler, auth *middleware.TokenAuth) {
	r.With(auth.RequireAuth).Get("/api/posts/{postID}/comments", h.HandleList)
	r.With(auth.RequireAuth).Post("/api/posts/{postID}/comments", h.HandleCreate)
	r.With(auth.RequireAuth).Patch("/api/comments/{commentID}", h.HandleEdit)
	r.With(auth.RequireAuth).Delete("/api/comments/{commentID}", h.HandleDelete)
}

// RegisterReactionRoutes registers the reaction endpoints
func RegisterReactionRoutes(r chi.Router, h *handlers.ReactionHandler, auth *middleware.TokenAuth) {
	r.With(auth.RequireAuth).Get("/api/reaction-types", h.HandleListTypes)
	r.With(auth.RequireAuth).Get("/api/posts/{postID}/reactions", h.HandleListForPost)
	r.With(auth.RequireAuth).Put("/api/posts/{postID}/reaction", h.HandleSet)
	r.With(auth.RequireAuth).Delete("/api/posts/{postID}/reaction", h.HandleRemove)
}

// RegisterReportRoutes registers the moderation endpoints
func RegisterReportRoutes(r chi.Router, h *handlers.ReportHandler, auth *middleware.TokenAuth) {
	r.With(auth.RequireAuth).Get("/api/report-reasons", h.HandleListReasons)
	r.With(auth.RequireAuth).Post("/api/reports", h.HandleCreate)
}
