package posts

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Thrive/internal/backend"
	"Thrive/internal/backend/backendtest"
	"Thrive/internal/core/cache"
	"Thrive/internal/core/errs"
	"Thrive/internal/core/mutations"
)

var viewer = Author{ID: "u1", DisplayName: "Jo"}

func newTestService(api backend.Client) (Service, *cache.List[Post]) {
	store := cache.NewList(ID, nil)
	return NewService(api, store, mutations.NewEngine(nil), viewer, nil), store
}

func seedFeed(store *cache.List[Post], groupID string, ids ...string) {
	page := make([]Post, len(ids))
	for i, id := range ids {
		page[i] = Post{ID: id, GroupID: groupID, Status: StatusActive}
	}
	store.SetPage(groupID, page, cache.Replace)
}

func TestCreateSwapsPendingForConfirmed(t *testing.T) {
	stub := &backendtest.Stub{
		CreatePostFunc: func(ctx context.Context, req backend.CreatePostRequest) (*backend.Post, error) {
			return &backend.Post{
				ID:      "server-1",
				GroupID: req.GroupID,
				Content: req.Content,
				Status:  "active",
				Author:  backend.Author{ID: viewer.ID, DisplayName: viewer.DisplayName},
			}, nil
		},
	}
	svc, store := newTestService(stub)
	seedFeed(store, "g1", "old-1")

	require.NoError(t, svc.Create(context.Background(), "g1", "hello group", "", nil))

	feed := svc.Feed("g1")
	require.Len(t, feed, 2)
	assert.Equal(t, "server-1", feed[0].ID, "confirmed post replaces the pending copy at the head")
	assert.False(t, feed[0].Pending)
	assert.Equal(t, "old-1", feed[1].ID)

	// The temporary id must be gone entirely.
	for _, p := range store.Get("g1") {
		assert.False(t, p.Pending)
	}
}

func TestCreateRejectedRemovesPendingOnly(t *testing.T) {
	stub := &backendtest.Stub{
		CreatePostFunc: func(ctx context.Context, req backend.CreatePostRequest) (*backend.Post, error) {
			return nil, errors.New("storage full")
		},
	}
	svc, store := newTestService(stub)
	seedFeed(store, "g1", "old-1")

	err := svc.Create(context.Background(), "g1", "hello", "", nil)
	require.Error(t, err)
	assert.True(t, errs.IsMutation(err))

	feed := svc.Feed("g1")
	require.Len(t, feed, 1)
	assert.Equal(t, "old-1", feed[0].ID)
}

func TestCreateConflictRemovesPending(t *testing.T) {
	stub := &backendtest.Stub{
		CreatePostFunc: func(ctx context.Context, req backend.CreatePostRequest) (*backend.Post, error) {
			return nil, fmt.Errorf("createPost: %w: duplicate", backend.ErrConflict)
		},
	}
	svc, store := newTestService(stub)
	seedFeed(store, "g1", "old-1")

	err := svc.Create(context.Background(), "g1", "hello", "", nil)
	require.Error(t, err)
	assert.True(t, errs.IsConflict(err))

	feed := svc.Feed("g1")
	require.Len(t, feed, 1, "a rejected create must not strand its pending copy")
	assert.Equal(t, "old-1", feed[0].ID)
	for _, p := range store.Get("g1") {
		assert.False(t, p.Pending)
	}
}

func TestCreateEmptyContentNeverCallsBackend(t *testing.T) {
	called := false
	stub := &backendtest.Stub{
		CreatePostFunc: func(ctx context.Context, req backend.CreatePostRequest) (*backend.Post, error) {
			called = true
			return &backend.Post{}, nil
		},
	}
	svc, _ := newTestService(stub)

	err := svc.Create(context.Background(), "g1", "   ", "", nil)
	assert.True(t, errs.IsValidation(err))
	assert.False(t, called)
}

func TestEditSwapsInServerCopy(t *testing.T) {
	stub := &backendtest.Stub{
		EditPostFunc: func(ctx context.Context, postID string, req backend.EditPostRequest) (*backend.Post, error) {
			return &backend.Post{ID: postID, GroupID: "g1", Content: req.Content, Status: "active"}, nil
		},
	}
	svc, store := newTestService(stub)
	seedFeed(store, "g1", "p1", "p2")

	require.NoError(t, svc.Edit(context.Background(), "g1", "p1", "updated body"))

	p, ok := store.Find("g1", "p1")
	require.True(t, ok)
	assert.Equal(t, "updated body", p.Content)
}

func TestEditFailureLeavesCacheUntouched(t *testing.T) {
	stub := &backendtest.Stub{
		EditPostFunc: func(ctx context.Context, postID string, req backend.EditPostRequest) (*backend.Post, error) {
			return nil, fmt.Errorf("editPost: %w: not yours", backend.ErrForbidden)
		},
	}
	svc, store := newTestService(stub)
	store.SetPage("g1", []Post{{ID: "p1", GroupID: "g1", Content: "original", Status: StatusActive}}, cache.Replace)

	err := svc.Edit(context.Background(), "g1", "p1", "hijack")
	require.Error(t, err)
	assert.True(t, errs.IsAuth(err))

	p, _ := store.Find("g1", "p1")
	assert.Equal(t, "original", p.Content)
}

func TestEditPendingPostRejected(t *testing.T) {
	svc, store := newTestService(&backendtest.Stub{})
	store.SetPage("g1", []Post{{ID: "tmp", GroupID: "g1", Status: StatusActive, Pending: true}}, cache.Replace)

	err := svc.Edit(context.Background(), "g1", "tmp", "new")
	assert.True(t, errs.IsValidation(err))
}

func TestDeleteOptimistic(t *testing.T) {
	svc, store := newTestService(&backendtest.Stub{})
	seedFeed(store, "g1", "p1", "p2", "p3")

	require.NoError(t, svc.Delete(context.Background(), "g1", "p2"))
	assert.Equal(t, 2, store.Len("g1"))
	_, ok := store.Find("g1", "p2")
	assert.False(t, ok)
}

func TestDeleteRejectedRestoresPosition(t *testing.T) {
	stub := &backendtest.Stub{
		DeletePostFunc: func(ctx context.Context, postID string) error {
			return errors.New("server error")
		},
	}
	svc, store := newTestService(stub)
	seedFeed(store, "g1", "p1", "p2", "p3")

	err := svc.Delete(context.Background(), "g1", "p2")
	require.Error(t, err)

	feed := store.Get("g1")
	require.Len(t, feed, 3)
	assert.Equal(t, "p2", feed[1].ID, "rollback re-inserts at the original index")
}

func TestDeleteUnknownPost(t *testing.T) {
	svc, _ := newTestService(&backendtest.Stub{})
	assert.ErrorIs(t, svc.Delete(context.Background(), "g1", "ghost"), ErrPostNotFound)
}

func TestFeedExcludesSoftDeleted(t *testing.T) {
	svc, store := newTestService(&backendtest.Stub{})
	store.SetPage("g1", []Post{
		{ID: "p1", Status: StatusActive},
		{ID: "p2", Status: StatusDeleted},
		{ID: "p3", Status: StatusActive},
	}, cache.Replace)

	feed := svc.Feed("g1")
	require.Len(t, feed, 2)
	assert.Equal(t, "p1", feed[0].ID)
	assert.Equal(t, "p3", feed[1].ID)

	// The deleted post stays cached.
	assert.Equal(t, 3, store.Len("g1"))
}

func TestFeedNilForUnloadedGroup(t *testing.T) {
	svc, _ := newTestService(&backendtest.Stub{})
	assert.Nil(t, svc.Feed("never-loaded"))
}
