package feeds

import (
	"context"

	"Thrive/internal/core/paging"
	"Thrive/internal/core/posts"
)

// Service defines the feed synchronization surface the UI consumes.
type Service interface {
	// SetQuery changes the group's filter set. Returns true when the
	// query key changed, which resets pagination to page 1.
	SetQuery(groupID string, q Query) bool

	// Query returns the group's current filter set.
	Query(groupID string) Query

	// Refresh loads page 1 with replace semantics.
	Refresh(ctx context.Context, groupID string) error

	// LoadMore appends the next page.
	LoadMore(ctx context.Context, groupID string) error

	// Activate issues the initial page-1 load after a join resolves to
	// full membership.
	Activate(ctx context.Context, groupID string) error

	// Posts reads the group's cached feed, excluding soft-deleted posts.
	Posts(groupID string) []posts.Post

	// HasMore reports whether another page is expected.
	HasMore(groupID string) bool

	// State returns the feed's pagination lifecycle state.
	State(groupID string) paging.State

	// Err returns the error recorded by the most recent failed load.
	Err(groupID string) error
}
