package posts

import "context"

// Service defines the write-path operations for posts. Reads go through the
// shared cache; feed pages are populated by the feed service.
type Service interface {
	// Create optimistically publishes a post: a pending copy is prepended
	// to the group's feed, then swapped for the server-confirmed post.
	Create(ctx context.Context, groupID, content, thumbnailURL string, tags []string) error

	// Edit updates a post's content. The correction is fetch-based: the
	// server's returned post is swapped into the cache on success.
	Edit(ctx context.Context, groupID, postID, content string) error

	// Delete optimistically removes a post from its group's feed,
	// re-inserting it at its original position if the backend rejects.
	Delete(ctx context.Context, groupID, postID string) error

	// Get reads a cached post.
	Get(groupID, postID string) (Post, bool)

	// Feed reads the group's cached posts, excluding soft-deleted ones.
	Feed(groupID string) []Post

	// Busy reports whether a post mutation for the scope is in flight.
	Busy(postID string) bool
}
