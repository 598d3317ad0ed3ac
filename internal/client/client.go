// Package client wires the entity stores, pagination controllers, mutation
// engine and domain services into the single dependency-injected object the
// UI layer consumes. No rendering framework is referenced anywhere below
// this surface.
package client

import (
	"context"
	"log/slog"

	"Thrive/internal/backend"
	"Thrive/internal/core/cache"
	"Thrive/internal/core/comments"
	"Thrive/internal/core/feeds"
	"Thrive/internal/core/groups"
	"Thrive/internal/core/moderation"
	"Thrive/internal/core/mutations"
	"Thrive/internal/core/paging"
	"Thrive/internal/core/posts"
	"Thrive/internal/core/reactions"
)

// Config carries the viewer identity and tuning for a client instance.
type Config struct {
	// Viewer is the authenticated user; pending entities are authored as
	// them and reactions are keyed on their id.
	Viewer posts.Author

	// GroupPageSize is the directory page size. Defaults to 20.
	GroupPageSize int

	// CommentPageSize is the per-post comment page size. Defaults to 10.
	CommentPageSize int

	// Logger receives structured logs from every layer. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// Client is the assembled sync core. The UI reads through the services and
// triggers every write path through them; the stores behind them are shared
// so reconciliation in one service is visible to all.
type Client struct {
	Groups     groups.Service
	Feeds      feeds.Service
	Posts      posts.Service
	Comments   comments.Service
	Reactions  reactions.Service
	Moderation moderation.Service
}

// New assembles a client over the given backend.
func New(api backend.Client, cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.GroupPageSize <= 0 {
		cfg.GroupPageSize = 20
	}
	if cfg.CommentPageSize <= 0 {
		cfg.CommentPageSize = 10
	}

	engine := mutations.NewEngine(logger)

	groupStore := cache.NewKeyed[groups.Group](logger)
	postStore := cache.NewList(posts.ID, logger)
	commentStore := cache.NewList(comments.ID, logger)
	reactionStore := cache.NewList(reactions.UserID, logger)
	typeStore := cache.NewKeyed[reactions.Type](logger)

	groupPager := paging.NewController(cfg.GroupPageSize, logger)

	groupSvc := groups.NewService(api, groupStore, groupPager, engine, logger)
	feedSvc := feeds.NewService(api, groupSvc, postStore, reactionStore, logger)

	// Joining a group re-evaluates the membership gate: a resolution to
	// full membership issues the feed's first page load.
	groups.SetFeedActivationHook(groupSvc, func(ctx context.Context, groupID string) {
		if err := feedSvc.Activate(ctx, groupID); err != nil {
			logger.Warn("feed activation after join failed",
				"group", groupID,
				"error", err)
		}
	})

	return &Client{
		Groups:     groupSvc,
		Feeds:      feedSvc,
		Posts:      posts.NewService(api, postStore, engine, cfg.Viewer, logger),
		Comments:   comments.NewService(api, commentStore, engine, cfg.Viewer, cfg.CommentPageSize, logger),
		Reactions:  reactions.NewService(api, reactionStore, typeStore, engine, cfg.Viewer.ID, logger),
		Moderation: moderation.NewService(api, logger),
	}
}
