// Package reactions maintains the per-post reaction cache and the viewer's
// react/unreact mutations. Each user holds at most one reaction per post:
// changing the reaction type replaces the entry, never adds one.
package reactions

import "Thrive/internal/backend"

// Reaction is a single user's typed response to a post.
// Identity is composite: (post id, user id).
type Reaction struct {
	PostID string `json:"postId"`
	UserID string `json:"userId"`
	TypeID string `json:"typeId"`
}

// Type is a reaction type: reference data fetched once per session.
type Type struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IconURL string `json:"iconUrl,omitempty"`
}

// UserID is the cache id extractor. Scoping reactions per post and keying
// them by user id makes the at-most-one-per-user invariant structural:
// upserts and append de-duplication both collapse on the user.
func UserID(r Reaction) string { return r.UserID }

// FromBackend converts a backend reaction to the cached model.
func FromBackend(r backend.Reaction) Reaction {
	return Reaction{PostID: r.PostID, UserID: r.UserID, TypeID: r.TypeID}
}

// TypeFromBackend converts a backend reaction type to the cached model.
func TypeFromBackend(t backend.ReactionType) Type {
	return Type{ID: t.ID, Name: t.Name, IconURL: t.IconURL}
}
