package groups

import "errors"

var (
	// ErrGroupNotFound indicates the requested group doesn't exist
	ErrGroupNotFound = errors.New("group not found")

	// ErrAlreadyMember indicates the viewer already holds the requested membership
	ErrAlreadyMember = errors.New("already a member of this group")

	// ErrNotMember indicates the viewer is not a member of the group
	ErrNotMember = errors.New("not a member of this group")

	// ErrMembershipBusy indicates a membership change for the group is still in flight
	ErrMembershipBusy = errors.New("membership change already in progress")
)
