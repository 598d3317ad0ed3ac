package reactions

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

const viewerID = "u1"

func newTestService(api backend.Client) (Service, *cache.List[Reaction]) {
	store := cache.NewList(UserID, nil)
	types := cache.NewKeyed[Type](nil)
	return NewService(api, store, types, mutations.NewEngine(nil), viewerID, nil), store
}

func TestEnsureTypesFetchesOnce(t *testing.T) {
	calls := 0
	stub := &backendtest.Stub{
		ListReactionTypesFunc: func(ctx context.Context) ([]backend.ReactionType, error) {
			calls++
			return []backend.ReactionType{
				{ID: "like", Name: "Like"},
				{ID: "support", Name: "Support"},
			}, nil
		},
	}
	svc, _ := newTestService(stub)

	require.NoError(t, svc.EnsureTypes(context.Background()))
	require.NoError(t, svc.EnsureTypes(context.Background()))

	assert.Equal(t, 1, calls, "reference data is fetched once per session")
	assert.Len(t, svc.Types(), 2)
}

func TestEnsureTypesFailureRetriesNextCall(t *testing.T) {
	calls := 0
	stub := &backendtest.Stub{
		ListReactionTypesFunc: func(ctx context.Context) ([]backend.ReactionType, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("temporary")
			}
			return []backend.ReactionType{{ID: "like"}}, nil
		},
	}
	svc, _ := newTestService(stub)

	err := svc.EnsureTypes(context.Background())
	assert.True(t, errs.IsFetch(err))

	require.NoError(t, svc.EnsureTypes(context.Background()))
	assert.Equal(t, 2, calls)
	assert.Len(t, svc.Types(), 1)
}

func TestLoadReplacesPostReactions(t *testing.T) {
	stub := &backendtest.Stub{
		ListReactionsFunc: func(ctx context.Context, postID string) ([]backend.Reaction, error) {
			return []backend.Reaction{
				{PostID: postID, UserID: "u2", TypeID: "like"},
				{PostID: postID, UserID: viewerID, TypeID: "support"},
			}, nil
		},
	}
	svc, _ := newTestService(stub)

	require.NoError(t, svc.Load(context.Background(), "p1"))
	assert.Len(t, svc.Reactions("p1"), 2)

	mine, ok := svc.ViewerReaction("p1")
	require.True(t, ok)
	assert.Equal(t, "support", mine.TypeID)
}

func TestReactReplacesExistingReaction(t *testing.T) {
	svc, store := newTestService(&backendtest.Stub{})
	store.SetPage("p1", []Reaction{
		{PostID: "p1", UserID: "u2", TypeID: "like"},
		{PostID: "p1", UserID: viewerID, TypeID: "like"},
	}, cache.Replace)

	// Switching from like to support must replace, not add.
	require.NoError(t, svc.React(context.Background(), "p1", "support"))

	all := svc.Reactions("p1")
	require.Len(t, all, 2)
	mine, _ := svc.ViewerReaction("p1")
	assert.Equal(t, "support", mine.TypeID)
}

func TestReactFailureRestoresPrior(t *testing.T) {
	stub := &backendtest.Stub{
		SetReactionFunc: func(ctx context.Context, postID, typeID string) (*backend.Reaction, error) {
			return nil, errors.New("server error")
		},
	}
	svc, store := newTestService(stub)
	store.SetPage("p1", []Reaction{{PostID: "p1", UserID: viewerID, TypeID: "like"}}, cache.Replace)

	err := svc.React(context.Background(), "p1", "support")
	require.Error(t, err)

	mine, ok := svc.ViewerReaction("p1")
	require.True(t, ok)
	assert.Equal(t, "like", mine.TypeID, "rollback restores the prior reaction")
}

func TestReactFailureOnFreshPostRestoresAbsence(t *testing.T) {
	stub := &backendtest.Stub{
		SetReactionFunc: func(ctx context.Context, postID, typeID string) (*backend.Reaction, error) {
			return nil, errors.New("server error")
		},
	}
	svc, _ := newTestService(stub)

	require.Error(t, svc.React(context.Background(), "p1", "like"))
	_, ok := svc.ViewerReaction("p1")
	assert.False(t, ok)
}

func TestReactValidatesTypeAgainstLoadedReference(t *testing.T) {
	stub := &backendtest.Stub{
		ListReactionTypesFunc: func(ctx context.Context) ([]backend.ReactionType, error) {
			return []backend.ReactionType{{ID: "like"}}, nil
		},
	}
	svc, _ := newTestService(stub)
	require.NoError(t, svc.EnsureTypes(context.Background()))

	err := svc.React(context.Background(), "p1", "eyeroll")
	assert.True(t, errs.IsValidation(err))

	// Unloaded reference list: the type can't be checked locally, the
	// server decides.
	svc2, _ := newTestService(&backendtest.Stub{})
	assert.NoError(t, svc2.React(context.Background(), "p1", "eyeroll"))
}

func TestReactConflictKeepsOptimisticValue(t *testing.T) {
	stub := &backendtest.Stub{
		SetReactionFunc: func(ctx context.Context, postID, typeID string) (*backend.Reaction, error) {
			return nil, fmt.Errorf("setReaction: %w: already reacted", backend.ErrConflict)
		},
	}
	svc, _ := newTestService(stub)

	err := svc.React(context.Background(), "p1", "like")
	assert.True(t, errs.IsConflict(err))

	mine, ok := svc.ViewerReaction("p1")
	require.True(t, ok, "conflict means the state already holds; keep it")
	assert.Equal(t, "like", mine.TypeID)
}

func TestUnreactOptimistic(t *testing.T) {
	svc, store := newTestService(&backendtest.Stub{})
	store.SetPage("p1", []Reaction{{PostID: "p1", UserID: viewerID, TypeID: "like"}}, cache.Replace)

	require.NoError(t, svc.Unreact(context.Background(), "p1"))
	_, ok := svc.ViewerReaction("p1")
	assert.False(t, ok)
}

func TestUnreactWithoutReactionIsConflict(t *testing.T) {
	svc, _ := newTestService(&backendtest.Stub{})
	err := svc.Unreact(context.Background(), "p1")
	assert.True(t, errs.IsConflict(err))
}

func TestUnreactFailureRestoresReaction(t *testing.T) {
	stub := &backendtest.Stub{
		RemoveReactionFunc: func(ctx context.Context, postID string) error {
			return errors.New("server error")
		},
	}
	svc, store := newTestService(stub)
	store.SetPage("p1", []Reaction{
		{PostID: "p1", UserID: "u2", TypeID: "like"},
		{PostID: "p1", UserID: viewerID, TypeID: "support"},
	}, cache.Replace)

	require.Error(t, svc.Unreact(context.Background(), "p1"))

	all := svc.Reactions("p1")
	assert.Len(t, all, 2)
	mine, ok := svc.ViewerReaction("p1")
	require.True(t, ok)
	assert.Equal(t, "support", mine.TypeID)
}

func TestReactWhileBusyRejected(t *testing.T) {
	svc, store := newTestService(&backendtest.Stub{})
	store.SetBusy("p1", true)

	assert.True(t, errs.IsValidation(svc.React(context.Background(), "p1", "like")))
}
