package comments

import "errors"

var (
	// ErrCommentNotFound indicates the requested comment doesn't exist in the cache
	ErrCommentNotFound = errors.New("comment not found")

	// ErrEmptyText indicates the comment text is empty
	ErrEmptyText = errors.New("comment text must not be empty")

	// ErrCommentPending indicates the comment is still awaiting server confirmation
	ErrCommentPending = errors.New("comment is awaiting confirmation")
)
