package groups

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
	"Thrive/internal/core/paging"
)

func newTestService(api backend.Client) (Service, *cache.Keyed[Group]) {
	store := cache.NewKeyed[Group](nil)
	pager := paging.NewController(20, nil)
	engine := mutations.NewEngine(nil)
	return NewService(api, store, pager, engine, nil), store
}

func directoryPage(groups ...backend.Group) *backend.GroupPage {
	return &backend.GroupPage{
		Items: groups,
		Info:  paging.Info{TotalPages: 1, TotalCount: len(groups), HasTotals: true},
	}
}

func TestLoadDirectoryRefreshReplaces(t *testing.T) {
	stub := &backendtest.Stub{
		ListGroupsFunc: func(ctx context.Context, page paging.Page) (*backend.GroupPage, error) {
			return directoryPage(
				backend.Group{ID: "g1", Name: "Morning Runners", Membership: "joined"},
				backend.Group{ID: "g2", Name: "Meal Preppers"},
			), nil
		},
	}
	svc, _ := newTestService(stub)

	require.NoError(t, svc.LoadDirectory(context.Background(), true))

	groups := svc.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, "g1", groups[0].ID)
	assert.Equal(t, MembershipJoined, groups[0].Membership)
	assert.Equal(t, MembershipNone, groups[1].Membership)
	assert.False(t, svc.HasMore())
}

func TestLoadDirectoryAppendsNextPage(t *testing.T) {
	pages := map[int][]backend.Group{
		1: {{ID: "g1"}, {ID: "g2"}},
		2: {{ID: "g2"}, {ID: "g3"}}, // overlap must not duplicate
	}
	stub := &backendtest.Stub{
		ListGroupsFunc: func(ctx context.Context, page paging.Page) (*backend.GroupPage, error) {
			return &backend.GroupPage{
				Items: pages[page.Number],
				Info:  paging.Info{TotalPages: 2, TotalCount: 3, HasTotals: true},
			}, nil
		},
	}
	svc, _ := newTestService(stub)

	require.NoError(t, svc.LoadDirectory(context.Background(), true))
	assert.True(t, svc.HasMore())
	require.NoError(t, svc.LoadDirectory(context.Background(), false))

	groups := svc.Groups()
	require.Len(t, groups, 3)
	assert.Equal(t, "g3", groups[2].ID)
	assert.False(t, svc.HasMore())
}

func TestLoadDirectoryFetchError(t *testing.T) {
	stub := &backendtest.Stub{
		ListGroupsFunc: func(ctx context.Context, page paging.Page) (*backend.GroupPage, error) {
			return nil, errors.New("network down")
		},
	}
	svc, _ := newTestService(stub)

	err := svc.LoadDirectory(context.Background(), true)
	require.Error(t, err)
	assert.True(t, errs.IsFetch(err))
	assert.Empty(t, svc.Groups())
}

func TestLoadGroupNotFound(t *testing.T) {
	stub := &backendtest.Stub{
		GetGroupFunc: func(ctx context.Context, groupID string) (*backend.Group, error) {
			return nil, fmt.Errorf("getGroup: %w: gone", backend.ErrNotFound)
		},
	}
	svc, _ := newTestService(stub)

	_, err := svc.LoadGroup(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestJoinPublicGroupOptimistic(t *testing.T) {
	stub := &backendtest.Stub{
		JoinGroupFunc: func(ctx context.Context, groupID string) (*backend.MembershipResult, error) {
			return &backend.MembershipResult{GroupID: groupID, Status: "joined"}, nil
		},
		ListGroupsFunc: func(ctx context.Context, page paging.Page) (*backend.GroupPage, error) {
			return directoryPage(backend.Group{ID: "g1", MemberCount: 6, Membership: "joined"}), nil
		},
	}
	svc, store := newTestService(stub)
	store.Set("g1", Group{ID: "g1", MemberCount: 5, Membership: MembershipNone})

	var activated []string
	SetFeedActivationHook(svc, func(ctx context.Context, groupID string) {
		activated = append(activated, groupID)
	})

	require.NoError(t, svc.Join(context.Background(), "g1"))

	g, ok := store.Get("g1")
	require.True(t, ok)
	assert.Equal(t, MembershipJoined, g.Membership)
	assert.Equal(t, []string{"g1"}, activated, "resolving to joined activates the feed")
}

func TestJoinPrivateGroupResolvesPending(t *testing.T) {
	stub := &backendtest.Stub{
		JoinGroupFunc: func(ctx context.Context, groupID string) (*backend.MembershipResult, error) {
			return &backend.MembershipResult{GroupID: groupID, Status: "pending"}, nil
		},
		ListGroupsFunc: func(ctx context.Context, page paging.Page) (*backend.GroupPage, error) {
			return directoryPage(backend.Group{ID: "g1", Private: true, Membership: "pending", MemberCount: 5}), nil
		},
	}
	svc, store := newTestService(stub)
	store.Set("g1", Group{ID: "g1", Private: true, MemberCount: 5})

	hookFired := false
	SetFeedActivationHook(svc, func(ctx context.Context, groupID string) { hookFired = true })

	require.NoError(t, svc.Join(context.Background(), "g1"))

	g, _ := store.Get("g1")
	assert.Equal(t, MembershipPending, g.Membership)
	assert.Equal(t, 5, g.MemberCount, "pending join must not bump the member count")
	assert.False(t, hookFired, "pending membership keeps the feed gated")
}

func TestJoinGroupOffDirectoryPage(t *testing.T) {
	stub := &backendtest.Stub{
		GetGroupFunc: func(ctx context.Context, groupID string) (*backend.Group, error) {
			return &backend.Group{ID: "g1", Name: "Night Owls", MemberCount: 2}, nil
		},
		JoinGroupFunc: func(ctx context.Context, groupID string) (*backend.MembershipResult, error) {
			return &backend.MembershipResult{GroupID: groupID, Status: "joined"}, nil
		},
		ListGroupsFunc: func(ctx context.Context, page paging.Page) (*backend.GroupPage, error) {
			// The joined group is not on the directory's first page.
			return directoryPage(backend.Group{ID: "g2", Name: "Meal Preppers"}), nil
		},
	}
	svc, store := newTestService(stub)

	_, err := svc.LoadGroup(context.Background(), "g1")
	require.NoError(t, err)

	var activated []string
	SetFeedActivationHook(svc, func(ctx context.Context, groupID string) {
		activated = append(activated, groupID)
	})

	require.NoError(t, svc.Join(context.Background(), "g1"))

	g, ok := store.Get("g1")
	require.True(t, ok, "a group off the directory's first page must stay cached after join")
	assert.Equal(t, MembershipJoined, g.Membership)
	assert.Equal(t, []string{"g1"}, activated)

	_, ok = store.Get("g2")
	assert.True(t, ok, "the refreshed directory page is cached alongside")
}

func TestJoinSurvivesStaleDirectoryCopy(t *testing.T) {
	stub := &backendtest.Stub{
		JoinGroupFunc: func(ctx context.Context, groupID string) (*backend.MembershipResult, error) {
			return &backend.MembershipResult{GroupID: groupID, Status: "joined"}, nil
		},
		ListGroupsFunc: func(ctx context.Context, page paging.Page) (*backend.GroupPage, error) {
			// The directory copy does not reflect the join yet.
			return directoryPage(backend.Group{ID: "g1", MemberCount: 6}), nil
		},
	}
	svc, store := newTestService(stub)
	store.Set("g1", Group{ID: "g1", MemberCount: 5, Membership: MembershipNone})

	require.NoError(t, svc.Join(context.Background(), "g1"))

	g, _ := store.Get("g1")
	assert.Equal(t, MembershipJoined, g.Membership, "confirmed membership wins over the stale directory copy")
	assert.Equal(t, 6, g.MemberCount, "non-membership fields come from the fresh copy")
}

func TestJoinFailureRollsBack(t *testing.T) {
	stub := &backendtest.Stub{
		JoinGroupFunc: func(ctx context.Context, groupID string) (*backend.MembershipResult, error) {
			return nil, errors.New("server error")
		},
	}
	svc, store := newTestService(stub)
	store.Set("g1", Group{ID: "g1", MemberCount: 5, Membership: MembershipNone})

	err := svc.Join(context.Background(), "g1")
	require.Error(t, err)
	assert.True(t, errs.IsMutation(err))

	g, _ := store.Get("g1")
	assert.Equal(t, MembershipNone, g.Membership)
	assert.Equal(t, 5, g.MemberCount)
	assert.False(t, svc.Busy("g1"))
}

func TestJoinAlreadyMemberIsConflict(t *testing.T) {
	svc, store := newTestService(&backendtest.Stub{})
	store.Set("g1", Group{ID: "g1", Membership: MembershipJoined})

	err := svc.Join(context.Background(), "g1")
	assert.True(t, errs.IsConflict(err))
}

func TestJoinUnknownGroup(t *testing.T) {
	svc, _ := newTestService(&backendtest.Stub{})
	assert.ErrorIs(t, svc.Join(context.Background(), "nope"), ErrGroupNotFound)
}

func TestJoinWhileBusyRejected(t *testing.T) {
	svc, store := newTestService(&backendtest.Stub{})
	store.Set("g1", Group{ID: "g1", Membership: MembershipNone})
	store.SetBusy("g1", true)

	err := svc.Join(context.Background(), "g1")
	assert.True(t, errs.IsValidation(err))
}

func TestLeaveOptimistic(t *testing.T) {
	svc, store := newTestService(&backendtest.Stub{})
	store.Set("g1", Group{ID: "g1", MemberCount: 5, Membership: MembershipJoined})

	require.NoError(t, svc.Leave(context.Background(), "g1"))

	g, _ := store.Get("g1")
	assert.Equal(t, MembershipNone, g.Membership)
	assert.Equal(t, 4, g.MemberCount)
}

func TestLeaveNotMemberIsConflict(t *testing.T) {
	svc, store := newTestService(&backendtest.Stub{})
	store.Set("g1", Group{ID: "g1", Membership: MembershipNone})

	err := svc.Leave(context.Background(), "g1")
	assert.True(t, errs.IsConflict(err))
}

func TestLeaveFailureRollsBack(t *testing.T) {
	stub := &backendtest.Stub{
		LeaveGroupFunc: func(ctx context.Context, groupID string) error {
			return errors.New("server error")
		},
	}
	svc, store := newTestService(stub)
	store.Set("g1", Group{ID: "g1", MemberCount: 5, Membership: MembershipJoined})

	err := svc.Leave(context.Background(), "g1")
	require.Error(t, err)

	g, _ := store.Get("g1")
	assert.Equal(t, MembershipJoined, g.Membership)
	assert.Equal(t, 5, g.MemberCount)
}

func TestUnknownMembershipDegradesToNone(t *testing.T) {
	g := fromBackend(backend.Group{ID: "g1", Membership: "owner"})
	assert.Equal(t, MembershipNone, g.Membership)
	assert.False(t, CanViewFeed(g))
}
