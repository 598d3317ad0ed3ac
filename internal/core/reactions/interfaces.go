package reactions

import "context"

// Service defines reaction reads and the viewer's optimistic mutations.
type Service interface {
	// EnsureTypes fetches the reaction type reference list once per
	// session. Subsequent calls are no-ops.
	EnsureTypes(ctx context.Context) error

	// Types returns the cached reaction type reference list.
	Types() []Type

	// Load fetches a post's reactions into the cache with replace semantics.
	Load(ctx context.Context, postID string) error

	// Reactions reads a post's cached reactions.
	Reactions(postID string) []Reaction

	// ViewerReaction returns the viewer's reaction on the post, if any.
	ViewerReaction(postID string) (Reaction, bool)

	// React optimistically sets or replaces the viewer's reaction.
	React(ctx context.Context, postID, typeID string) error

	// Unreact optimistically withdraws the viewer's reaction.
	Unreact(ctx context.Context, postID string) error

	// Busy reports whether a reaction change for the post is in flight.
	Busy(postID string) bool
}
