package feeds

import (
	"context"
	"log/slog"
	"sync"

	"Thrive/internal/backend"
	"Thrive/internal/core/cache"
	"Thrive/internal/core/errs"
	"Thrive/internal/core/groups"
	"Thrive/internal/core/paging"
	"Thrive/internal/core/posts"
	"Thrive/internal/core/reactions"
)

type feedService struct {
	api       backend.Client
	groups    groups.Service
	posts     *cache.List[posts.Post]
	reactions *cache.List[reactions.Reaction]
	logger    *slog.Logger

	mu      sync.Mutex
	pagers  map[string]*paging.Controller // groupID -> controller
	queries map[string]Query              // groupID -> current filter set
}

// NewService creates a feed service writing through the shared post store.
// Embedded reaction lists on fetched posts seed the reaction store as a
// side effect, so reaction state is warm without a second fetch.
func NewService(api backend.Client, groupSvc groups.Service, postStore *cache.List[posts.Post], reactionStore *cache.List[reactions.Reaction], logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &feedService{
		api:       api,
		groups:    groupSvc,
		posts:     postStore,
		reactions: reactionStore,
		logger:    logger,
		pagers:    make(map[string]*paging.Controller),
		queries:   make(map[string]Query),
	}
}

func (s *feedService) pagerAndQuery(groupID string) (*paging.Controller, Query) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.queries[groupID]
	if !ok {
		q = Query{}.normalized()
		s.queries[groupID] = q
	}

	ctrl, ok := s.pagers[groupID]
	if !ok {
		ctrl = paging.NewController(q.PageSize, s.logger)
		s.pagers[groupID] = ctrl
	}
	ctrl.SetPageSize(q.PageSize)
	ctrl.SetKey(q.Key())
	return ctrl, q
}

// SetQuery swaps the group's filter set. A changed key resets the pagination
// sequence; the stale accumulated pages are replaced on the next load.
func (s *feedService) SetQuery(groupID string, q Query) bool {
	q = q.normalized()

	s.mu.Lock()
	s.queries[groupID] = q
	ctrl, ok := s.pagers[groupID]
	if !ok {
		ctrl = paging.NewController(q.PageSize, s.logger)
		s.pagers[groupID] = ctrl
	}
	s.mu.Unlock()

	ctrl.SetPageSize(q.PageSize)
	changed := ctrl.SetKey(q.Key())
	if changed {
		s.logger.Debug("feed query changed",
			"group", groupID,
			"key", q.Key())
	}
	return changed
}

func (s *feedService) Query(groupID string) Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queries[groupID].normalized()
}

func (s *feedService) Refresh(ctx context.Context, groupID string) error {
	return s.load(ctx, groupID, true)
}

func (s *feedService) LoadMore(ctx context.Context, groupID string) error {
	return s.load(ctx, groupID, false)
}

// Activate is the membership-gate re-evaluation entry point: a join that
// resolved to "joined" issues the feed's initial page-1 load here.
func (s *feedService) Activate(ctx context.Context, groupID string) error {
	return s.load(ctx, groupID, true)
}

func (s *feedService) load(ctx context.Context, groupID string, refresh bool) error {
	group, ok := s.groups.Group(groupID)
	if !ok {
		return ErrGroupUnknown
	}
	if !groups.CanViewFeed(group) {
		// Gated: no fetch is issued and the cache stays unpopulated.
		return ErrFeedGated
	}

	ctrl, q := s.pagerAndQuery(groupID)

	page := 1
	if !refresh {
		page = ctrl.NextPage()
	}

	ticket := ctrl.Begin(page, refresh)

	result, err := s.api.ListPosts(ctx, groupID, q.Params(page))
	if err != nil {
		ctrl.Fail(ticket, err)
		if backend.IsAuthError(err) {
			return &errs.AuthError{Err: err}
		}
		return &errs.FetchError{Key: ticket.Key, Page: page, Err: err}
	}

	if !ctrl.Commit(ticket, len(result.Items), result.Info) {
		// The filter set changed while this request was in flight;
		// the response belongs to a superseded key and is discarded.
		return nil
	}

	items := make([]posts.Post, len(result.Items))
	for i, p := range result.Items {
		items[i] = posts.FromBackend(p)
	}

	mode := cache.Append
	if page == 1 {
		mode = cache.Replace
	}
	s.posts.SetPage(groupID, items, mode)

	// Some flows denormalize reactions onto the post; seed the reaction
	// store from them so reaction state is warm without a second fetch.
	for _, p := range result.Items {
		if p.Reactions == nil {
			continue
		}
		seeded := make([]reactions.Reaction, len(p.Reactions))
		for i, r := range p.Reactions {
			seeded[i] = reactions.FromBackend(r)
		}
		s.reactions.SetPage(p.ID, seeded, cache.Replace)
	}

	s.logger.Debug("feed page loaded",
		"group", groupID,
		"page", page,
		"count", len(items),
		"has_more", ctrl.HasMore())
	return nil
}

func (s *feedService) Posts(groupID string) []posts.Post {
	cached := s.posts.Get(groupID)
	if cached == nil {
		return nil
	}
	visible := make([]posts.Post, 0, len(cached))
	for _, p := range cached {
		if p.Visible() {
			visible = append(visible, p)
		}
	}
	return visible
}

func (s *feedService) HasMore(groupID string) bool {
	ctrl, _ := s.pagerAndQuery(groupID)
	return ctrl.HasMore()
}

func (s *feedService) State(groupID string) paging.State {
	ctrl, _ := s.pagerAndQuery(groupID)
	return ctrl.State()
}

func (s *feedService) Err(groupID string) error {
	ctrl, _ := s.pagerAndQuery(groupID)
	return ctrl.Err()
}
