package paging

import (
	"log/slog"
	"sync"
)

// State is the lifecycle phase of a controller for its current query key.
type State int

const (
	// Idle means no page has been requested for the current key yet.
	Idle State = iota
	// Loading means at least one page fetch is in flight.
	Loading
	// Refreshing is a Loading(1) variant that clears accumulated pages
	// before the replacement page commits.
	Refreshing
	// Loaded means the most recent fetch for the current key committed.
	Loaded
	// Failed means the most recent fetch failed; committed pagination
	// values are left at their last good state.
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Refreshing:
		return "refreshing"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Ticket is issued when a page load begins. Commit and Fail use it to verify
// the response still belongs to the controller's current key and generation
// before touching state.
type Ticket struct {
	Key        string
	Page       Page
	Refresh    bool
	generation uint64
}

// Controller tracks pagination for one logical list (a group's posts, the
// group directory) across query-key changes. Changing any filter changes the
// key, which resets the sequence to page 1 and invalidates in-flight loads.
type Controller struct {
	mu         sync.Mutex
	logger     *slog.Logger
	key        string
	state      State
	page       int // last committed page, 0 before any commit
	pageSize   int
	totalPages int
	totalCount int
	hasTotals  bool
	hasMore    bool
	lastErr    error
	generation uint64
}

// NewController creates a pagination controller with the given default page size.
func NewController(pageSize int, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		logger:   logger,
		pageSize: pageSize,
		state:    Idle,
	}
}

// SetKey switches the controller to a new query key. If the key differs from
// the current one, all committed state is discarded, the sequence resets to
// page 1, and tickets issued under the old key become stale.
// Returns true if a reset occurred.
func (c *Controller) SetKey(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if key == c.key {
		return false
	}

	c.logger.Debug("query key changed, resetting pagination",
		"old_key", c.key,
		"new_key", key,
		"dropped_page", c.page)

	c.key = key
	c.state = Idle
	c.page = 0
	c.totalPages = 0
	c.totalCount = 0
	c.hasTotals = false
	c.hasMore = false
	c.lastErr = nil
	c.generation++
	return true
}

// Key returns the controller's current query key.
func (c *Controller) Key() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.key
}

// NextPage returns the page number a load-more operation should request.
func (c *Controller) NextPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page + 1
}

// Begin marks a page load in flight and issues the ticket that the eventual
// response must present to commit. Concurrent Begins for the same key are
// allowed; the last response to arrive wins.
func (c *Controller) Begin(page int, refresh bool) Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()

	if refresh {
		c.state = Refreshing
	} else {
		c.state = Loading
	}

	return Ticket{
		Key:        c.key,
		Page:       Page{Number: page, Size: c.pageSize},
		Refresh:    refresh,
		generation: c.generation,
	}
}

// Commit applies a successful page response. Returns false when the ticket
// is stale (the key or generation moved on while the request was in flight),
// in which case the response must be discarded by the caller as well.
func (c *Controller) Commit(t Ticket, returned int, info Info) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t.Key != c.key || t.generation != c.generation {
		c.logger.Debug("discarding stale page response",
			"ticket_key", t.Key,
			"current_key", c.key,
			"page", t.Page.Number)
		return false
	}

	c.page = t.Page.Number
	c.totalPages = info.TotalPages
	c.totalCount = info.TotalCount
	c.hasTotals = info.HasTotals
	c.hasMore = HasMore(t.Page, returned, info)
	c.state = Loaded
	c.lastErr = nil

	c.logger.Debug("page committed",
		"key", c.key,
		"page", c.page,
		"returned", returned,
		"has_more", c.hasMore)
	return true
}

// Fail records a failed page load. Committed pagination values keep their
// last good state so the caller can offer retry; only the error flag changes.
// Stale tickets are ignored.
func (c *Controller) Fail(t Ticket, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t.Key != c.key || t.generation != c.generation {
		return
	}

	c.state = Failed
	c.lastErr = err

	c.logger.Debug("page load failed",
		"key", c.key,
		"page", t.Page.Number,
		"error", err)
}

// HasMore reports whether another page is expected for the current key.
func (c *Controller) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore
}

// State returns the controller's current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the error recorded by the most recent failed load, or nil.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// PageSize returns the configured page size.
func (c *Controller) PageSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pageSize
}

// SetPageSize updates the page size used by tickets issued from here on.
// The size participates in the full-page heuristic, so it must track the
// size actually requested or HasMore misreads a full page as the last one.
// In-flight tickets keep the size they were issued with.
func (c *Controller) SetPageSize(size int) {
	if size <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pageSize = size
}

// Current returns the last committed page number and the reported totals.
func (c *Controller) Current() (page int, info Info) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page, Info{
		TotalPages: c.totalPages,
		TotalCount: c.totalCount,
		HasTotals:  c.hasTotals,
	}
}
