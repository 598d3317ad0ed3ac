package feeds

import "errors"

var (
	// ErrFeedGated indicates the viewer is not a member of the group, so
	// its feed must not be fetched or populated.
	ErrFeedGated = errors.New("feed requires group membership")

	// ErrGroupUnknown indicates the group is not in the cache; load the
	// directory or the group itself first.
	ErrGroupUnknown = errors.New("group not cached")
)
