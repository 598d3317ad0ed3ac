package comments

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"Thrive/internal/backend"
	"Thrive/internal/core/cache"
	"Thrive/internal/core/errs"
	"Thrive/internal/core/mutations"
	"Thrive/internal/core/paging"
	"Thrive/internal/core/posts"
)

type commentService struct {
	api      backend.Client
	store    *cache.List[Comment]
	engine   *mutations.Engine
	viewer   Author
	pageSize int
	logger   *slog.Logger

	mu        sync.Mutex
	pagers    map[string]*paging.Controller // postID -> controller
	inputErrs map[string]string             // postID -> comment-input error slot
}

// Author aliases the shared author shape for constructor signatures.
type Author = posts.Author

// NewService creates a comment service for the given viewer.
func NewService(api backend.Client, store *cache.List[Comment], engine *mutations.Engine, viewer Author, pageSize int, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &commentService{
		api:       api,
		store:     store,
		engine:    engine,
		viewer:    viewer,
		pageSize:  pageSize,
		logger:    logger,
		pagers:    make(map[string]*paging.Controller),
		inputErrs: make(map[string]string),
	}
}

func (s *commentService) pager(postID string) *paging.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctrl, ok := s.pagers[postID]
	if !ok {
		ctrl = paging.NewController(s.pageSize, s.logger)
		ctrl.SetKey("comments:" + postID)
		s.pagers[postID] = ctrl
	}
	return ctrl
}

func (s *commentService) setInputErr(postID, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if message == "" {
		delete(s.inputErrs, postID)
		return
	}
	s.inputErrs[postID] = message
}

func (s *commentService) InputErr(postID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inputErrs[postID]
}

func (s *commentService) Load(ctx context.Context, postID string, refresh bool) error {
	ctrl := s.pager(postID)

	page := 1
	if !refresh {
		page = ctrl.NextPage()
	}

	ticket := ctrl.Begin(page, refresh)

	result, err := s.api.ListComments(ctx, postID, ticket.Page)
	if err != nil {
		ctrl.Fail(ticket, err)
		if backend.IsAuthError(err) {
			return &errs.AuthError{Err: err}
		}
		return &errs.FetchError{Key: ctrl.Key(), Page: page, Err: err}
	}

	if !ctrl.Commit(ticket, len(result.Items), result.Info) {
		return nil
	}

	items := make([]Comment, len(result.Items))
	for i, c := range result.Items {
		items[i] = FromBackend(c)
	}

	mode := cache.Append
	if page == 1 {
		mode = cache.Replace
	}
	s.store.SetPage(postID, items, mode)

	s.logger.Debug("comment page loaded",
		"post", postID,
		"page", page,
		"count", len(items),
		"has_more", ctrl.HasMore())
	return nil
}

func (s *commentService) Comments(postID string) []Comment {
	return s.store.Get(postID)
}

func (s *commentService) HasMore(postID string) bool {
	return s.pager(postID).HasMore()
}

// Create prepends a pending comment with a temporary id, then swaps it for
// the server-confirmed comment and re-fetches the authoritative list.
// Errors attach to the post's comment-input slot, never globally.
func (s *commentService) Create(ctx context.Context, postID, text string) error {
	if strings.TrimSpace(text) == "" {
		err := errs.NewValidationError("text", ErrEmptyText.Error())
		s.setInputErr(postID, ErrEmptyText.Error())
		return err
	}
	s.setInputErr(postID, "")

	pending := Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		Author:    s.viewer,
		Text:      text,
		CreatedAt: time.Now().UTC(),
		Pending:   true,
	}

	var confirmed *backend.Comment

	err := s.engine.Run(ctx, mutations.Mutation{
		Action: "create comment",
		Scope:  postID,
		Apply: func() {
			s.store.Prepend(postID, pending)
		},
		Call: func(ctx context.Context) error {
			var err error
			confirmed, err = s.api.CreateComment(ctx, postID, text)
			return err
		},
		Reconcile: func(ctx context.Context) error {
			// Swap first so the temporary id is gone even if the
			// list re-fetch below fails.
			s.store.Remove(postID, pending.ID)
			s.store.Prepend(postID, FromBackend(*confirmed))
			return s.Load(ctx, postID, true)
		},
		Rollback: func() {
			s.store.Remove(postID, pending.ID)
		},
	})
	if err != nil && !errs.IsConflict(err) {
		s.setInputErr(postID, err.Error())
	}
	return err
}

// Edit applies the new text optimistically. A failed call is corrected by
// re-fetching the list rather than restoring a snapshot.
func (s *commentService) Edit(ctx context.Context, postID, commentID, text string) error {
	if strings.TrimSpace(text) == "" {
		return errs.NewValidationError("text", ErrEmptyText.Error())
	}

	comment, ok := s.store.Find(postID, commentID)
	if !ok {
		return ErrCommentNotFound
	}
	if comment.Pending {
		return errs.NewValidationError("comment", ErrCommentPending.Error())
	}

	updated := comment
	updated.Text = text
	s.store.Upsert(postID, updated)

	_, err := s.api.EditComment(ctx, commentID, text)
	if err != nil {
		s.correct(ctx, postID)
		if backend.IsAuthError(err) {
			return &errs.AuthError{Err: err}
		}
		return &errs.MutationError{Action: "edit comment", Scope: postID, Err: err}
	}

	s.correct(ctx, postID)
	return nil
}

// Delete removes the comment optimistically with fetch-based correction.
func (s *commentService) Delete(ctx context.Context, postID, commentID string) error {
	comment, ok := s.store.Find(postID, commentID)
	if !ok {
		return ErrCommentNotFound
	}
	if comment.Pending {
		return errs.NewValidationError("comment", ErrCommentPending.Error())
	}

	s.store.Remove(postID, commentID)

	err := s.api.DeleteComment(ctx, commentID)
	if err != nil {
		s.correct(ctx, postID)
		if backend.IsAuthError(err) {
			return &errs.AuthError{Err: err}
		}
		return &errs.MutationError{Action: "delete comment", Scope: postID, Err: err}
	}

	s.correct(ctx, postID)
	return nil
}

// correct re-fetches the post's authoritative comment list. Failures only
// log: the next successful load converges the cache.
func (s *commentService) correct(ctx context.Context, postID string) {
	if err := s.Load(ctx, postID, true); err != nil {
		s.logger.Warn("comment list correction failed",
			"post", postID,
			"error", err)
	}
}
