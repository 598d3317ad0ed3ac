package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Thrive/internal/backend"
	"Thrive/internal/backend/backendtest"
	"Thrive/internal/core/groups"
	"Thrive/internal/core/paging"
	"Thrive/internal/core/posts"
)

// End-to-end through the facade: loading the directory, joining a group,
// and seeing its feed activate on resolution.
func TestJoinActivatesFeed(t *testing.T) {
	stub := &backendtest.Stub{
		ListGroupsFunc: func(ctx context.Context, page paging.Page) (*backend.GroupPage, error) {
			return &backend.GroupPage{
				Items: []backend.Group{{ID: "g1", Name: "Morning Runners"}},
				Info:  paging.Info{TotalPages: 1, TotalCount: 1, HasTotals: true},
			}, nil
		},
		JoinGroupFunc: func(ctx context.Context, groupID string) (*backend.MembershipResult, error) {
			return &backend.MembershipResult{GroupID: groupID, Status: "joined"}, nil
		},
		ListPostsFunc: func(ctx context.Context, groupID string, params backend.ListPostsParams) (*backend.PostPage, error) {
			return &backend.PostPage{
				Items: []backend.Post{{ID: "p1", GroupID: groupID, Status: "active"}},
				Info:  paging.Info{TotalPages: 1, TotalCount: 1, HasTotals: true},
			}, nil
		},
	}

	c := New(stub, Config{Viewer: posts.Author{ID: "u1", DisplayName: "Jo"}})

	require.NoError(t, c.Groups.LoadDirectory(context.Background(), true))

	// The directory copy reports no membership yet, so the feed is gated.
	assert.Nil(t, c.Feeds.Posts("g1"))

	require.NoError(t, c.Groups.Join(context.Background(), "g1"))

	g, ok := c.Groups.Group("g1")
	require.True(t, ok)
	assert.Equal(t, groups.MembershipJoined, g.Membership)

	feed := c.Feeds.Posts("g1")
	require.Len(t, feed, 1, "resolving to joined loads the feed's first page")
	assert.Equal(t, "p1", feed[0].ID)
}

// A comment created through the facade is visible in the shared store the
// feed's comment counts would read from.
func TestSharedStoresAcrossServices(t *testing.T) {
	stub := &backendtest.Stub{
		CreateCommentFunc: func(ctx context.Context, postID, text string) (*backend.Comment, error) {
			return &backend.Comment{ID: "c-server", PostID: postID, Text: text}, nil
		},
		ListCommentsFunc: func(ctx context.Context, postID string, page paging.Page) (*backend.CommentPage, error) {
			return &backend.CommentPage{
				Items: []backend.Comment{{ID: "c-server", PostID: postID, Text: "hello"}},
				Info:  paging.Info{TotalPages: 1, TotalCount: 1, HasTotals: true},
			}, nil
		},
	}

	c := New(stub, Config{Viewer: posts.Author{ID: "u1"}})

	require.NoError(t, c.Comments.Create(context.Background(), "p1", "hello"))

	got := c.Comments.Comments("p1")
	require.Len(t, got, 1)
	assert.Equal(t, "c-server", got[0].ID)
	assert.Empty(t, c.Comments.InputErr("p1"))
}
