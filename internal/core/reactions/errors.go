package reactions

import "errors"

var (
	// ErrUnknownType indicates the reaction type is not in the reference list
	ErrUnknownType = errors.New("unknown reaction type")

	// ErrNotReacted indicates the viewer has no reaction on the post
	ErrNotReacted = errors.New("no reaction to remove")

	// ErrReactionBusy indicates a reaction change for the post is still in flight
	ErrReactionBusy = errors.New("reaction change already in progress")
)
