package groups

import "context"

// Service defines the business logic interface for the group directory and
// membership mutations.
type Service interface {
	// LoadDirectory fetches a page of the group directory into the cache.
	// refresh reloads page 1 with replace semantics; otherwise the next
	// page is appended.
	LoadDirectory(ctx context.Context, refresh bool) error

	// LoadGroup fetches a single group into the cache.
	LoadGroup(ctx context.Context, groupID string) (*Group, error)

	// Group reads a cached group.
	Group(groupID string) (Group, bool)

	// Groups reads the cached directory in server order.
	Groups() []Group

	// HasMore reports whether more directory pages are expected.
	HasMore() bool

	// Join optimistically joins a group. Public groups resolve to
	// "joined", private groups to "pending". A join that resolves to
	// "joined" triggers the feed activation hook.
	Join(ctx context.Context, groupID string) error

	// Leave optimistically withdraws membership.
	Leave(ctx context.Context, groupID string) error

	// Busy reports whether a membership change for the group is in flight.
	Busy(groupID string) bool
}
