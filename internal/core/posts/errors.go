package posts

import "errors"

var (
	// ErrPostNotFound indicates the requested post doesn't exist in the cache
	ErrPostNotFound = errors.New("post not found")

	// ErrEmptyContent indicates the post body is empty
	ErrEmptyContent = errors.New("post content must not be empty")

	// ErrPostPending indicates the post is still awaiting server confirmation
	ErrPostPending = errors.New("post is awaiting confirmation")
)
