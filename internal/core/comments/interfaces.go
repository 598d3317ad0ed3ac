package comments

import "context"

// Service defines comment reads and the comment write path.
type Service interface {
	// Load fetches a page of the post's comments. refresh replaces
	// page 1; otherwise the next page is appended.
	Load(ctx context.Context, postID string, refresh bool) error

	// Comments reads a post's cached comments in server order, pending
	// entries first.
	Comments(postID string) []Comment

	// HasMore reports whether more comment pages are expected for the post.
	HasMore(postID string) bool

	// Create optimistically adds a comment: a pending copy is prepended,
	// then swapped for the server-confirmed comment.
	Create(ctx context.Context, postID, text string) error

	// Edit optimistically updates a comment's text; corrections after a
	// failed call are fetch-based rather than snapshot rollback.
	Edit(ctx context.Context, postID, commentID, text string) error

	// Delete optimistically removes a comment; corrections after a
	// failed call are fetch-based.
	Delete(ctx context.Context, postID, commentID string) error

	// InputErr returns the error message attached to the post's
	// comment-input slot, empty when the last write succeeded.
	InputErr(postID string) string
}
