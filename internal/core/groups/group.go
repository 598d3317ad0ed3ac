// Package groups maintains the cached group directory and the viewer's
// membership state. Membership is the only group field the client mutates
// optimistically, and it gates access to the group's feed.
package groups

import (
	"time"

	"Thrive/internal/backend"
)

// MembershipStatus is the viewer's relationship to a group.
type MembershipStatus string

const (
	// MembershipNone means the viewer has no relationship to the group.
	MembershipNone MembershipStatus = "none"

	// MembershipJoined means the viewer is a member; the feed is visible.
	MembershipJoined MembershipStatus = "joined"

	// MembershipPending means a join request awaits approval (private
	// groups). The feed stays gated.
	MembershipPending MembershipStatus = "pending"
)

// Group is the cached view of a community group.
type Group struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Description  string           `json:"description,omitempty"`
	ThumbnailURL string           `json:"thumbnailUrl,omitempty"`
	MemberCount  int              `json:"memberCount"`
	Private      bool             `json:"private"`
	Membership   MembershipStatus `json:"membership"`
	CreatedAt    time.Time        `json:"createdAt"`
}

// CanViewFeed reports whether the group's feed may be shown and fetched.
// Only full members see the feed; pending requests stay gated and the UI
// shows a join affordance instead.
func CanViewFeed(g Group) bool {
	return g.Membership == MembershipJoined
}

// fromBackend converts a backend group to the cached model. Unknown
// membership strings degrade to "none" rather than granting access.
func fromBackend(g backend.Group) Group {
	membership := MembershipStatus(g.Membership)
	switch membership {
	case MembershipNone, MembershipJoined, MembershipPending:
	default:
		membership = MembershipNone
	}
	return Group{
		ID:           g.ID,
		Name:         g.Name,
		Description:  g.Description,
		ThumbnailURL: g.ThumbnailURL,
		MemberCount:  g.MemberCount,
		Private:      g.Private,
		Membership:   membership,
		CreatedAt:    g.CreatedAt,
	}
}
