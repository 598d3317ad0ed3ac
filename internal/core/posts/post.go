// Package posts maintains the per-group post cache and the write-path post
// mutations. Feed pages are written here by the feed service; optimistic
// creates and deletes go through the mutation engine.
package posts

import (
	"time"

	"Thrive/internal/backend"
)

// Status is a post's lifecycle state as reported by the backend.
type Status string

const (
	// StatusActive is a live post.
	StatusActive Status = "active"

	// StatusDeleted is a soft-deleted post. It may remain cached but is
	// excluded from feed rendering.
	StatusDeleted Status = "deleted"
)

// Author identifies the creator of a post or comment.
type Author struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

// Post is the cached view of a group post.
// Pending marks a locally fabricated post awaiting its server id; the flag
// is the structural marker for pending entities, never a string convention
// on the id.
type Post struct {
	ID           string    `json:"id"`
	GroupID      string    `json:"groupId"`
	Author       Author    `json:"author"`
	Content      string    `json:"content"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	Status       Status    `json:"status"`
	CommentCount int       `json:"commentCount"`
	ReportStatus string    `json:"reportStatus,omitempty"`
	Pending      bool      `json:"-"`
}

// Visible reports whether the post should be rendered in a feed.
// Soft-deleted posts stay cached but are never rendered.
func (p Post) Visible() bool {
	return p.Status != StatusDeleted
}

// ID returns the post's id; used as the cache id extractor.
func ID(p Post) string { return p.ID }

// FromBackend converts a backend post to the cached model.
func FromBackend(p backend.Post) Post {
	return Post{
		ID:      p.ID,
		GroupID: p.GroupID,
		Author: Author{
			ID:          p.Author.ID,
			DisplayName: p.Author.DisplayName,
			AvatarURL:   p.Author.AvatarURL,
		},
		Content:      p.Content,
		ThumbnailURL: p.ThumbnailURL,
		Tags:         p.Tags,
		CreatedAt:    p.CreatedAt,
		Status:       Status(p.Status),
		CommentCount: p.CommentCount,
		ReportStatus: p.ReportStatus,
	}
}
