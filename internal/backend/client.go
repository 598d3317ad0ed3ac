// Package backend abstracts the remote platform API consumed by the sync
// layer. It provides a consistent, canonical interface regardless of the
// wire shape the server answers with: legacy endpoints return bare arrays,
// newer ones return paged envelopes, and both are normalized here before
// anything reaches the cache layer.
//
// Session handling (token attachment, refresh-on-401) is entirely this
// package's concern; callers only ever see success or a typed error.
package backend

import (
	"context"
	"time"

	"Thrive/internal/core/paging"
)

// Client provides authenticated access to the platform API.
// All list operations return a normalized page: items in server order plus
// whatever totals the server reported.
type Client interface {
	// ListGroups returns a page of the group directory.
	ListGroups(ctx context.Context, page paging.Page) (*GroupPage, error)

	// GetGroup retrieves a single group by id.
	GetGroup(ctx context.Context, groupID string) (*Group, error)

	// JoinGroup requests membership in a group. The returned status is
	// "joined" for public groups and "pending" for private ones.
	JoinGroup(ctx context.Context, groupID string) (*MembershipResult, error)

	// LeaveGroup withdraws membership from a group.
	LeaveGroup(ctx context.Context, groupID string) error

	// ListPosts returns a filtered page of a group's posts.
	ListPosts(ctx context.Context, groupID string, params ListPostsParams) (*PostPage, error)

	// CreatePost publishes a new post in a group.
	CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error)

	// EditPost updates a post's content.
	EditPost(ctx context.Context, postID string, req EditPostRequest) (*Post, error)

	// DeletePost removes a post.
	DeletePost(ctx context.Context, postID string) error

	// ListComments returns a page of a post's comments.
	ListComments(ctx context.Context, postID string, page paging.Page) (*CommentPage, error)

	// CreateComment adds a comment to a post and returns the
	// server-confirmed comment with its permanent id.
	CreateComment(ctx context.Context, postID, text string) (*Comment, error)

	// EditComment updates a comment's text.
	EditComment(ctx context.Context, commentID, text string) (*Comment, error)

	// DeleteComment removes a comment.
	DeleteComment(ctx context.Context, commentID string) error

	// ListReactionTypes returns the reference list of reaction types.
	ListReactionTypes(ctx context.Context) ([]ReactionType, error)

	// ListReactions returns all reactions on a post.
	ListReactions(ctx context.Context, postID string) ([]Reaction, error)

	// SetReaction creates or replaces the caller's reaction on a post.
	SetReaction(ctx context.Context, postID, typeID string) (*Reaction, error)

	// RemoveReaction withdraws the caller's reaction from a post.
	RemoveReaction(ctx context.Context, postID string) error

	// ListReportReasons returns the reference list of report reasons.
	ListReportReasons(ctx context.Context) ([]ReportReason, error)

	// CreateReport files a report against a post.
	CreateReport(ctx context.Context, req CreateReportRequest) (*Report, error)
}

// ListPostsParams carries the normalized filter payload produced by the
// query composer. Empty fields are omitted from the request, never sent
// as null.
type ListPostsParams struct {
	Page   paging.Page
	Search string
	Status string
	From   string // formatted date, empty when absent
	To     string // formatted date, empty when absent
}

// Group is the canonical group shape after wire normalization.
type Group struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	MemberCount  int       `json:"memberCount"`
	Private      bool      `json:"private"`
	Membership   string    `json:"membership"` // "none", "joined", "pending"
	CreatedAt    time.Time `json:"createdAt"`
}

// MembershipResult is the outcome of a join request.
type MembershipResult struct {
	GroupID string `json:"groupId"`
	Status  string `json:"status"` // "joined" or "pending"
}

// Author identifies the creator of a post or comment.
type Author struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

// Post is the canonical post shape after wire normalization.
type Post struct {
	ID           string     `json:"id"`
	GroupID      string     `json:"groupId"`
	Author       Author     `json:"author"`
	Content      string     `json:"content"`
	ThumbnailURL string     `json:"thumbnailUrl,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	Status       string     `json:"status"` // "active", "deleted", ...
	CommentCount int        `json:"commentCount"`
	Reactions    []Reaction `json:"reactions,omitempty"` // denormalized in some flows
	ReportStatus string     `json:"reportStatus,omitempty"`
}

// CreatePostRequest is the payload for publishing a post.
type CreatePostRequest struct {
	GroupID      string   `json:"groupId"`
	Content      string   `json:"content"`
	ThumbnailURL string   `json:"thumbnailUrl,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

// EditPostRequest is the payload for updating a post.
type EditPostRequest struct {
	Content      string   `json:"content"`
	ThumbnailURL string   `json:"thumbnailUrl,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

// Comment is the canonical comment shape after wire normalization.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	Author    Author    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Reaction is a single user's typed response to a post.
// Identity is composite: (post id, user id).
type Reaction struct {
	PostID string `json:"postId"`
	UserID string `json:"userId"`
	TypeID string `json:"typeId"`
}

// ReactionType is session reference data: fetched once, cached.
type ReactionType struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IconURL string `json:"iconUrl,omitempty"`
}

// ReportReason is session reference data for the moderation flow.
type ReportReason struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// CreateReportRequest is the payload for filing a report.
type CreateReportRequest struct {
	PostID   string `json:"postId"`
	ReasonID string `json:"reasonId"`
	Detail   string `json:"detail,omitempty"`
}

// Report is a filed report and its status.
type Report struct {
	ID       string `json:"id"`
	PostID   string `json:"postId"`
	ReasonID string `json:"reasonId"`
	Detail   string `json:"detail,omitempty"`
	Status   string `json:"status"` // "none", "sent", "resolved"
}

// GroupPage is a normalized page of groups.
type GroupPage struct {
	Items []Group
	Info  paging.Info
}

// PostPage is a normalized page of posts.
type PostPage struct {
	Items []Post
	Info  paging.Info
}

// CommentPage is a normalized page of comments.
type CommentPage struct {
	Items []Comment
	Info  paging.Info
}
