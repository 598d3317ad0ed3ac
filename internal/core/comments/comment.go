// Package comments maintains the per-post comment cache and the comment
// write path. A created comment exists first as a pending entity with a
// temporary id; it is swapped for the server-confirmed comment on success
// and removed on failure, so a temporary copy never outlives its duplicate.
package comments

import (
	"time"

	"Thrive/internal/backend"
	"Thrive/internal/core/posts"
)

// Comment is the cached view of a post comment.
// Pending marks a locally fabricated comment awaiting its server id.
type Comment struct {
	ID        string       `json:"id"`
	PostID    string       `json:"postId"`
	Author    posts.Author `json:"author"`
	Text      string       `json:"text"`
	CreatedAt time.Time    `json:"createdAt"`
	Pending   bool         `json:"-"`
}

// ID extraction for the cache store.
func ID(c Comment) string { return c.ID }

// FromBackend converts a backend comment to the cached model.
func FromBackend(c backend.Comment) Comment {
	return Comment{
		ID:     c.ID,
		PostID: c.PostID,
		Author: posts.Author{
			ID:          c.Author.ID,
			DisplayName: c.Author.DisplayName,
			AvatarURL:   c.Author.AvatarURL,
		},
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
}
