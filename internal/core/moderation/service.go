package moderation

import (
	"context"
	"log/slog"
	"sync"

	"Thrive/internal/backend"
	"Thrive/internal/core/errs"
)

// Service opens and submits report workflows.
type Service interface {
	// Open starts the report flow for a post. A post whose report status
	// is already sent or resolved skips straight to the terminal display
	// state; otherwise reasons are fetched and the workflow becomes
	// ReasonsReady.
	Open(ctx context.Context, postID, reportStatus string) (*Workflow, error)

	// Submit files the report. A failed submission returns the workflow
	// to ReasonsReady with the error attached.
	Submit(ctx context.Context, w *Workflow) error

	// ReportStatus resolves a post's effective report status: a
	// submission outcome from this session overrides the status that was
	// embedded on the fetched post.
	ReportStatus(postID, embedded string) string
}

type reportService struct {
	api    backend.Client
	logger *slog.Logger

	mu           sync.Mutex
	reasons      []Reason
	reasonsReady bool
	overrides    map[string]string // postID -> status from a submission this session
}

// NewService creates a moderation service.
func NewService(api backend.Client, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &reportService{
		api:       api,
		logger:    logger,
		overrides: make(map[string]string),
	}
}

// ReportStatus applies the precedence rule: this session's submission
// outcome wins over the post's embedded status, which may be stale.
func (s *reportService) ReportStatus(postID, embedded string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if status, ok := s.overrides[postID]; ok {
		return status
	}
	if embedded == "" {
		return StatusNone
	}
	return embedded
}

func (s *reportService) Open(ctx context.Context, postID, reportStatus string) (*Workflow, error) {
	switch s.ReportStatus(postID, reportStatus) {
	case StatusSent:
		// Prior report exists; show its state instead of re-offering
		// reason selection.
		return &Workflow{postID: postID, state: Sent}, nil
	case StatusResolved:
		return &Workflow{postID: postID, state: Resolved}, nil
	}

	w := &Workflow{postID: postID, state: ReasonsLoading}

	reasons, err := s.loadReasons(ctx)
	if err != nil {
		w.setState(Closed, err)
		return nil, err
	}

	w.mu.Lock()
	w.reasons = reasons
	w.state = ReasonsReady
	w.mu.Unlock()
	return w, nil
}

// loadReasons fetches the reason reference list once per session.
func (s *reportService) loadReasons(ctx context.Context) ([]Reason, error) {
	s.mu.Lock()
	if s.reasonsReady {
		cached := make([]Reason, len(s.reasons))
		copy(cached, s.reasons)
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	fetched, err := s.api.ListReportReasons(ctx)
	if err != nil {
		if backend.IsAuthError(err) {
			return nil, &errs.AuthError{Err: err}
		}
		return nil, &errs.FetchError{Key: "report-reasons", Page: 1, Err: err}
	}

	reasons := make([]Reason, len(fetched))
	for i, r := range fetched {
		reasons[i] = ReasonFromBackend(r)
	}

	s.mu.Lock()
	s.reasons = reasons
	s.reasonsReady = true
	s.mu.Unlock()

	s.logger.Debug("report reasons cached", "count", len(reasons))
	return reasons, nil
}

func (s *reportService) Submit(ctx context.Context, w *Workflow) error {
	if w.State() != ReasonsReady {
		return ErrNotReady
	}

	reasonID, detail := w.submission()
	if reasonID == "" {
		err := errs.NewValidationError("reason", ErrNoReasonSelected.Error())
		w.setState(ReasonsReady, err)
		return err
	}

	w.setState(Submitting, nil)

	report, err := s.api.CreateReport(ctx, backend.CreateReportRequest{
		PostID:   w.PostID(),
		ReasonID: reasonID,
		Detail:   detail,
	})
	if err != nil {
		if backend.IsConflict(err) {
			// A report already exists server-side; reflect the
			// prior-report state instead of allowing a duplicate.
			s.setOverride(w.PostID(), StatusSent)
			w.setState(Sent, nil)
			s.logger.Info("report already filed for post",
				"post", w.PostID())
			return &errs.ConflictError{Message: ErrAlreadyReported.Error()}
		}

		if backend.IsAuthError(err) {
			wrapped := &errs.AuthError{Err: err}
			w.setState(ReasonsReady, wrapped)
			return wrapped
		}

		wrapped := &errs.MutationError{Action: "submit report", Scope: w.PostID(), Err: err}
		w.setState(ReasonsReady, wrapped)
		s.logger.Error("report submission failed",
			"post", w.PostID(),
			"error", err)
		return wrapped
	}

	status := report.Status
	if status != StatusResolved {
		status = StatusSent
	}
	s.setOverride(w.PostID(), status)

	if status == StatusResolved {
		w.setState(Resolved, nil)
	} else {
		w.setState(Sent, nil)
	}

	s.logger.Info("report submitted",
		"post", w.PostID(),
		"reason", reasonID,
		"status", status)
	return nil
}

func (s *reportService) setOverride(postID, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[postID] = status
}
