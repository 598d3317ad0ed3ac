package posts

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"Thrive/internal/backend"
	"Thrive/internal/core/cache"
	"Thrive/internal/core/errs"
	"Thrive/internal/core/mutations"
)

type postService struct {
	api    backend.Client
	store  *cache.List[Post]
	engine *mutations.Engine
	viewer Author
	logger *slog.Logger
}

// NewService creates a post service writing through the shared post store.
// viewer is the authenticated user, used to author pending posts.
func NewService(api backend.Client, store *cache.List[Post], engine *mutations.Engine, viewer Author, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &postService{
		api:    api,
		store:  store,
		engine: engine,
		viewer: viewer,
		logger: logger,
	}
}

func (s *postService) Get(groupID, postID string) (Post, bool) {
	return s.store.Find(groupID, postID)
}

func (s *postService) Feed(groupID string) []Post {
	cached := s.store.Get(groupID)
	if cached == nil {
		return nil
	}
	visible := make([]Post, 0, len(cached))
	for _, p := range cached {
		if p.Visible() {
			visible = append(visible, p)
		}
	}
	return visible
}

func (s *postService) Busy(postID string) bool {
	return s.store.Busy(postID)
}

// Create prepends a pending post so the feed updates instantly, then swaps
// it for the server-confirmed post by matching the temporary id.
func (s *postService) Create(ctx context.Context, groupID, content, thumbnailURL string, tags []string) error {
	if strings.TrimSpace(content) == "" {
		return errs.NewValidationError("content", ErrEmptyContent.Error())
	}

	pending := Post{
		ID:           uuid.NewString(),
		GroupID:      groupID,
		Author:       s.viewer,
		Content:      content,
		ThumbnailURL: thumbnailURL,
		Tags:         tags,
		CreatedAt:    time.Now().UTC(),
		Status:       StatusActive,
		Pending:      true,
	}

	var confirmed *backend.Post

	return s.engine.Run(ctx, mutations.Mutation{
		Action: "create post",
		Scope:  groupID,
		Apply: func() {
			s.store.Prepend(groupID, pending)
		},
		Call: func(ctx context.Context) error {
			var err error
			confirmed, err = s.api.CreatePost(ctx, backend.CreatePostRequest{
				GroupID:      groupID,
				Content:      content,
				ThumbnailURL: thumbnailURL,
				Tags:         tags,
			})
			return err
		},
		Reconcile: func(ctx context.Context) error {
			// Swap the pending copy for the confirmed post in place,
			// so the temporary id never coexists with the server copy.
			s.store.Remove(groupID, pending.ID)
			s.store.Prepend(groupID, FromBackend(*confirmed))
			return nil
		},
		Rollback: func() {
			s.store.Remove(groupID, pending.ID)
		},
	})
}

// Edit is a fetch-corrected update: no optimistic rewrite is applied, the
// server's returned post replaces the cached one on success.
func (s *postService) Edit(ctx context.Context, groupID, postID, content string) error {
	if strings.TrimSpace(content) == "" {
		return errs.NewValidationError("content", ErrEmptyContent.Error())
	}

	post, ok := s.store.Find(groupID, postID)
	if !ok {
		return ErrPostNotFound
	}
	if post.Pending {
		return errs.NewValidationError("post", ErrPostPending.Error())
	}

	confirmed, err := s.api.EditPost(ctx, postID, backend.EditPostRequest{
		Content:      content,
		ThumbnailURL: post.ThumbnailURL,
		Tags:         post.Tags,
	})
	if err != nil {
		if backend.IsAuthError(err) {
			return &errs.AuthError{Err: err}
		}
		return &errs.MutationError{Action: "edit post", Scope: postID, Err: err}
	}

	s.store.Upsert(groupID, FromBackend(*confirmed))
	s.logger.Debug("post edited", "post", postID, "group", groupID)
	return nil
}

// Delete optimistically removes the post, remembering its position so a
// rejected delete re-inserts it exactly where it was.
func (s *postService) Delete(ctx context.Context, groupID, postID string) error {
	post, ok := s.store.Find(groupID, postID)
	if !ok {
		return ErrPostNotFound
	}
	if post.Pending {
		return errs.NewValidationError("post", ErrPostPending.Error())
	}

	var removed Post
	var index int

	return s.engine.Run(ctx, mutations.Mutation{
		Action:         "delete post",
		Scope:          postID,
		KeepOnConflict: true,
		SetBusy: func(busy bool) {
			s.store.SetBusy(postID, busy)
		},
		Apply: func() {
			removed, index, _ = s.store.Remove(groupID, postID)
		},
		Call: func(ctx context.Context) error {
			return s.api.DeletePost(ctx, postID)
		},
		Rollback: func() {
			s.store.InsertAt(groupID, index, removed)
		},
	})
}
