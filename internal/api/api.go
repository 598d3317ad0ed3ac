// Package api defines the storage interfaces and sentinel errors the
// reference server's handlers consume. Postgres implementations live in
// internal/db/postgres.
package api

import (
	"context"
	"errors"

	"Thrive/internal/backend"
)

var (
	// ErrNotFound indicates the requested row doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrDuplicate indicates the requested state already holds
	ErrDuplicate = errors.New("already exists")

	// ErrNotOwner indicates the caller doesn't own the target row
	ErrNotOwner = errors.New("not the owner")
)

// PostFilter carries the query parameters of a post listing.
type PostFilter struct {
	Search string
	Status string
	From   string // inclusive date bound, "2006-01-02", empty when absent
	To     string
	Limit  int
	Offset int
}

// UserStore is the account storage surface.
type UserStore interface {
	Ensure(ctx context.Context, id, displayName, avatarURL string) error
}

// GroupStore is the group directory and membership storage surface.
type GroupStore interface {
	List(ctx context.Context, viewerID string, limit, offset int) ([]backend.Group, int, error)
	Get(ctx context.Context, viewerID, groupID string) (*backend.Group, error)
	MembershipStatus(ctx context.Context, groupID, userID string) (string, error)
	Join(ctx context.Context, groupID, userID string) (string, error)
	Leave(ctx context.Context, groupID, userID string) error
}

// PostStore is the post storage surface.
type PostStore interface {
	List(ctx context.Context, viewerID, groupID string, filter PostFilter) ([]backend.Post, int, error)
	Get(ctx context.Context, viewerID, postID string) (*backend.Post, error)
	Create(ctx context.Context, authorID string, req backend.CreatePostRequest) (*backend.Post, error)
	Edit(ctx context.Context, postID, authorID string, req backend.EditPostRequest) (*backend.Post, error)
	Delete(ctx context.Context, postID, authorID string) error
}

// CommentStore is the comment storage surface.
type CommentStore interface {
	List(ctx context.Context, postID string, limit, offset int) ([]backend.Comment, int, error)
	Create(ctx context.Context, postID, authorID, text string) (*backend.Comment, error)
	Edit(ctx context.Context, commentID, authorID, text string) (*backend.Comment, error)
	Delete(ctx context.Context, commentID, authorID string) error
}

// ReactionStore is the reaction storage surface.
type ReactionStore interface {
	ListTypes(ctx context.Context) ([]backend.ReactionType, error)
	ListForPost(ctx context.Context, postID string) ([]backend.Reaction, error)
	Set(ctx context.Context, postID, userID, typeID string) (*backend.Reaction, error)
	Remove(ctx context.Context, postID, userID string) error
}

// ReportStore is the moderation storage surface.
type ReportStore interface {
	ListReasons(ctx context.Context) ([]backend.ReportReason, error)
	Create(ctx context.Context, reporterID string, req backend.CreateReportRequest) (*backend.Report, error)
}
