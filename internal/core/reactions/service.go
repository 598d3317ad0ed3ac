package reactions

import (
	"context"
	"log/slog"
	"sync"

	"Thrive/internal/backend"
	"Thrive/internal/core/cache"
	"Thrive/internal/core/errs"
	"Thrive/internal/core/mutations"
)

type reactionService struct {
	api    backend.Client
	store  *cache.List[Reaction]
	types  *cache.Keyed[Type]
	engine *mutations.Engine
	viewer string // viewer user id
	logger *slog.Logger

	typesOnce  sync.Mutex
	typesReady bool
}

// NewService creates a reaction service for the given viewer.
func NewService(api backend.Client, store *cache.List[Reaction], types *cache.Keyed[Type], engine *mutations.Engine, viewerID string, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &reactionService{
		api:    api,
		store:  store,
		types:  types,
		engine: engine,
		viewer: viewerID,
		logger: logger,
	}
}

// EnsureTypes fetches the reaction type reference list on first call and
// caches it for the session.
func (s *reactionService) EnsureTypes(ctx context.Context) error {
	s.typesOnce.Lock()
	defer s.typesOnce.Unlock()

	if s.typesReady {
		return nil
	}

	fetched, err := s.api.ListReactionTypes(ctx)
	if err != nil {
		if backend.IsAuthError(err) {
			return &errs.AuthError{Err: err}
		}
		return &errs.FetchError{Key: "reaction-types", Page: 1, Err: err}
	}

	for _, t := range fetched {
		s.types.Set(t.ID, TypeFromBackend(t))
	}
	s.typesReady = true

	s.logger.Debug("reaction types cached", "count", len(fetched))
	return nil
}

func (s *reactionService) Types() []Type {
	return s.types.All()
}

// Load replaces the post's cached reaction list with the server's.
func (s *reactionService) Load(ctx context.Context, postID string) error {
	fetched, err := s.api.ListReactions(ctx, postID)
	if err != nil {
		if backend.IsAuthError(err) {
			return &errs.AuthError{Err: err}
		}
		return &errs.FetchError{Key: "reactions:" + postID, Page: 1, Err: err}
	}

	items := make([]Reaction, len(fetched))
	for i, r := range fetched {
		items[i] = FromBackend(r)
	}
	s.store.SetPage(postID, items, cache.Replace)
	return nil
}

func (s *reactionService) Reactions(postID string) []Reaction {
	return s.store.Get(postID)
}

func (s *reactionService) ViewerReaction(postID string) (Reaction, bool) {
	return s.store.Find(postID, s.viewer)
}

func (s *reactionService) Busy(postID string) bool {
	return s.store.Busy(postID)
}

// React sets or replaces the viewer's reaction. The optimistic value already
// matches the accepted intent, so success needs no reconcile; failure
// restores the prior entry (or its absence).
func (s *reactionService) React(ctx context.Context, postID, typeID string) error {
	if typeID == "" {
		return errs.NewValidationError("typeId", "reaction type is required")
	}
	if s.types.Len() > 0 {
		if _, known := s.types.Get(typeID); !known {
			return errs.NewValidationError("typeId", ErrUnknownType.Error())
		}
	}
	if s.store.Busy(postID) {
		return errs.NewValidationError("post", ErrReactionBusy.Error())
	}

	snapshot := s.store.Snapshot(postID)

	return s.engine.Run(ctx, mutations.Mutation{
		Action:         "react",
		Scope:          postID,
		KeepOnConflict: true,
		SetBusy: func(busy bool) {
			s.store.SetBusy(postID, busy)
		},
		Apply: func() {
			// Keyed by user id, so this replaces any prior entry.
			s.store.Upsert(postID, Reaction{
				PostID: postID,
				UserID: s.viewer,
				TypeID: typeID,
			})
		},
		Call: func(ctx context.Context) error {
			_, err := s.api.SetReaction(ctx, postID, typeID)
			return err
		},
		Rollback: func() {
			s.store.Restore(postID, snapshot)
		},
	})
}

// Unreact withdraws the viewer's reaction; failure restores the removed entry.
func (s *reactionService) Unreact(ctx context.Context, postID string) error {
	if _, reacted := s.store.Find(postID, s.viewer); !reacted {
		return &errs.ConflictError{Message: ErrNotReacted.Error()}
	}
	if s.store.Busy(postID) {
		return errs.NewValidationError("post", ErrReactionBusy.Error())
	}

	snapshot := s.store.Snapshot(postID)

	return s.engine.Run(ctx, mutations.Mutation{
		Action:         "unreact",
		Scope:          postID,
		KeepOnConflict: true,
		SetBusy: func(busy bool) {
			s.store.SetBusy(postID, busy)
		},
		Apply: func() {
			s.store.Remove(postID, s.viewer)
		},
		Call: func(ctx context.Context) error {
			return s.api.RemoveReaction(ctx, postID)
		},
		Rollback: func() {
			s.store.Restore(postID, snapshot)
		},
	})
}
