package groups

import (
	"context"
	"fmt"
	"log/slog"

	"Thrive/internal/backend"
	"Thrive/internal/core/cache"
	"Thrive/internal/core/errs"
	"Thrive/internal/core/mutations"
	"Thrive/internal/core/paging"
)

// directoryKey is the pagination key for the group directory. The directory
// has no user-facing filters, so the key never changes.
const directoryKey = "groups"

// FeedActivationHook is invoked when a join resolves to full membership,
// so the newly visible feed can issue its initial page load.
type FeedActivationHook func(ctx context.Context, groupID string)

type groupService struct {
	api      backend.Client
	store    *cache.Keyed[Group]
	pager    *paging.Controller
	engine   *mutations.Engine
	logger   *slog.Logger
	onJoined FeedActivationHook
}

// NewService creates a group service backed by the given store and engine.
func NewService(api backend.Client, store *cache.Keyed[Group], pager *paging.Controller, engine *mutations.Engine, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	pager.SetKey(directoryKey)
	return &groupService{
		api:    api,
		store:  store,
		pager:  pager,
		engine: engine,
		logger: logger,
	}
}

// SetFeedActivationHook wires the callback fired when a join resolves to
// "joined". Settable after construction because the feed service and the
// group service reference each other.
func SetFeedActivationHook(s Service, hook FeedActivationHook) {
	if gs, ok := s.(*groupService); ok {
		gs.onJoined = hook
	}
}

func (s *groupService) LoadDirectory(ctx context.Context, refresh bool) error {
	page := 1
	if !refresh {
		page = s.pager.NextPage()
	}

	ticket := s.pager.Begin(page, refresh)

	result, err := s.api.ListGroups(ctx, ticket.Page)
	if err != nil {
		s.pager.Fail(ticket, err)
		if backend.IsAuthError(err) {
			return &errs.AuthError{Err: err}
		}
		return &errs.FetchError{Key: directoryKey, Page: page, Err: err}
	}

	if !s.pager.Commit(ticket, len(result.Items), result.Info) {
		// A newer load superseded this one while it was in flight.
		return nil
	}

	ids := make([]string, len(result.Items))
	values := make([]Group, len(result.Items))
	for i, g := range result.Items {
		ids[i] = g.ID
		values[i] = fromBackend(g)
	}

	if page == 1 {
		s.store.SetAll(ids, values)
	} else {
		s.store.Merge(ids, values)
	}

	s.logger.Debug("group directory page loaded",
		"page", page,
		"count", len(values),
		"has_more", s.pager.HasMore())
	return nil
}

func (s *groupService) LoadGroup(ctx context.Context, groupID string) (*Group, error) {
	result, err := s.api.GetGroup(ctx, groupID)
	if err != nil {
		if backend.IsNotFound(err) {
			return nil, ErrGroupNotFound
		}
		if backend.IsAuthError(err) {
			return nil, &errs.AuthError{Err: err}
		}
		return nil, fmt.Errorf("failed to load group %s: %w", groupID, err)
	}

	group := fromBackend(*result)
	s.store.Set(group.ID, group)
	return &group, nil
}

func (s *groupService) Group(groupID string) (Group, bool) {
	return s.store.Get(groupID)
}

func (s *groupService) Groups() []Group {
	return s.store.All()
}

func (s *groupService) HasMore() bool {
	return s.pager.HasMore()
}

func (s *groupService) Busy(groupID string) bool {
	return s.store.Busy(groupID)
}

// Join optimistically flips the group's membership before the backend
// confirms. Private groups resolve to "pending" locally; the server result
// is authoritative either way. On success the directory is refreshed, and a
// resolution to "joined" fires the feed activation hook.
func (s *groupService) Join(ctx context.Context, groupID string) error {
	group, ok := s.store.Get(groupID)
	if !ok {
		return ErrGroupNotFound
	}
	if group.Membership == MembershipJoined || group.Membership == MembershipPending {
		return &errs.ConflictError{Message: ErrAlreadyMember.Error()}
	}
	if s.store.Busy(groupID) {
		return errs.NewValidationError("group", ErrMembershipBusy.Error())
	}

	prior := group
	var result *backend.MembershipResult

	return s.engine.Run(ctx, mutations.Mutation{
		Action:         "join group",
		Scope:          groupID,
		KeepOnConflict: true,
		SetBusy: func(busy bool) {
			s.store.SetBusy(groupID, busy)
		},
		Apply: func() {
			optimistic := group
			if group.Private {
				optimistic.Membership = MembershipPending
			} else {
				optimistic.Membership = MembershipJoined
				optimistic.MemberCount++
			}
			s.store.Set(groupID, optimistic)
		},
		Call: func(ctx context.Context) error {
			var err error
			result, err = s.api.JoinGroup(ctx, groupID)
			return err
		},
		Reconcile: func(ctx context.Context) error {
			// The server's resolution is authoritative: a group
			// flagged public locally may still have resolved to a
			// pending request.
			confirmed, ok := s.store.Get(groupID)
			if !ok {
				confirmed = prior
			}
			confirmed.Membership = MembershipStatus(result.Status)

			refreshErr := s.LoadDirectory(ctx, true)

			// The refreshed directory carries a stale membership for
			// this group, and evicts groups that are off its first
			// page. Re-apply the confirmed membership on top of the
			// fresh copy, or restore the entry if the refresh dropped
			// it.
			if fresh, ok := s.store.Get(groupID); ok {
				fresh.Membership = confirmed.Membership
				s.store.Set(groupID, fresh)
			} else {
				s.store.Set(groupID, confirmed)
			}

			if confirmed.Membership == MembershipJoined && s.onJoined != nil {
				s.onJoined(ctx, groupID)
			}

			if refreshErr != nil {
				return fmt.Errorf("directory refresh after join: %w", refreshErr)
			}
			return nil
		},
		Rollback: func() {
			s.store.Set(groupID, prior)
		},
	})
}

// Leave optimistically clears membership. No reconcile is needed: the
// optimistic value already matches the accepted intent.
func (s *groupService) Leave(ctx context.Context, groupID string) error {
	group, ok := s.store.Get(groupID)
	if !ok {
		return ErrGroupNotFound
	}
	if group.Membership == MembershipNone {
		return &errs.ConflictError{Message: ErrNotMember.Error()}
	}
	if s.store.Busy(groupID) {
		return errs.NewValidationError("group", ErrMembershipBusy.Error())
	}

	prior := group

	return s.engine.Run(ctx, mutations.Mutation{
		Action:         "leave group",
		Scope:          groupID,
		KeepOnConflict: true,
		SetBusy: func(busy bool) {
			s.store.SetBusy(groupID, busy)
		},
		Apply: func() {
			optimistic := group
			if optimistic.Membership == MembershipJoined && optimistic.MemberCount > 0 {
				optimistic.MemberCount--
			}
			optimistic.Membership = MembershipNone
			s.store.Set(groupID, optimistic)
		},
		Call: func(ctx context.Context) error {
			return s.api.LeaveGroup(ctx, groupID)
		},
		Rollback: func() {
			s.store.Set(groupID, prior)
		},
	})
}
