package moderation

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Thrive/internal/backend"
	"Thrive/internal/backend/backendtest"
	"Thrive/internal/core/errs"
)

func reasonsStub() *backendtest.Stub {
	return &backendtest.Stub{
		ListReportReasonsFunc: func(ctx context.Context) ([]backend.ReportReason, error) {
			return []backend.ReportReason{
				{ID: "spam", Label: "Spam or advertising"},
				{ID: "harassment", Label: "Harassment or bullying"},
			}, nil
		},
	}
}

func TestOpenLoadsReasons(t *testing.T) {
	svc := NewService(reasonsStub(), nil)

	w, err := svc.Open(context.Background(), "p1", StatusNone)
	require.NoError(t, err)
	assert.Equal(t, ReasonsReady, w.State())
	assert.Len(t, w.Reasons(), 2)
}

func TestOpenFetchesReasonsOncePerSession(t *testing.T) {
	calls := 0
	stub := &backendtest.Stub{
		ListReportReasonsFunc: func(ctx context.Context) ([]backend.ReportReason, error) {
			calls++
			return []backend.ReportReason{{ID: "spam"}}, nil
		},
	}
	svc := NewService(stub, nil)

	_, err := svc.Open(context.Background(), "p1", StatusNone)
	require.NoError(t, err)
	_, err = svc.Open(context.Background(), "p2", StatusNone)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
}

func TestOpenSkipsToTerminalStates(t *testing.T) {
	svc := NewService(&backendtest.Stub{}, nil)

	w, err := svc.Open(context.Background(), "p1", StatusSent)
	require.NoError(t, err)
	assert.Equal(t, Sent, w.State())

	w, err = svc.Open(context.Background(), "p2", StatusResolved)
	require.NoError(t, err)
	assert.Equal(t, Resolved, w.State())
}

func TestOpenReasonsFetchFailure(t *testing.T) {
	stub := &backendtest.Stub{
		ListReportReasonsFunc: func(ctx context.Context) ([]backend.ReportReason, error) {
			return nil, errors.New("network down")
		},
	}
	svc := NewService(stub, nil)

	_, err := svc.Open(context.Background(), "p1", StatusNone)
	require.Error(t, err)
	assert.True(t, errs.IsFetch(err))
}

func TestSelectValidatesAgainstReference(t *testing.T) {
	svc := NewService(reasonsStub(), nil)
	w, err := svc.Open(context.Background(), "p1", StatusNone)
	require.NoError(t, err)

	require.NoError(t, w.Select("spam"))
	assert.Equal(t, "spam", w.Selected())

	assert.True(t, errs.IsValidation(w.Select("made-up")))
}

func TestSubmitWithoutReasonStaysReady(t *testing.T) {
	called := false
	stub := reasonsStub()
	stub.CreateReportFunc = func(ctx context.Context, req backend.CreateReportRequest) (*backend.Report, error) {
		called = true
		return nil, nil
	}
	svc := NewService(stub, nil)
	w, err := svc.Open(context.Background(), "p1", StatusNone)
	require.NoError(t, err)

	err = svc.Submit(context.Background(), w)
	assert.True(t, errs.IsValidation(err))
	assert.False(t, called, "no request without a selected reason")
	assert.Equal(t, ReasonsReady, w.State())
	assert.Error(t, w.Err())
}

func TestSubmitSuccess(t *testing.T) {
	stub := reasonsStub()
	stub.CreateReportFunc = func(ctx context.Context, req backend.CreateReportRequest) (*backend.Report, error) {
		assert.Equal(t, "p1", req.PostID)
		assert.Equal(t, "spam", req.ReasonID)
		assert.Equal(t, "linked to a scam site", req.Detail)
		return &backend.Report{ID: "r1", PostID: req.PostID, ReasonID: req.ReasonID, Status: "sent"}, nil
	}
	svc := NewService(stub, nil)
	w, err := svc.Open(context.Background(), "p1", StatusNone)
	require.NoError(t, err)
	require.NoError(t, w.Select("spam"))
	w.SetDetail("linked to a scam site")

	require.NoError(t, svc.Submit(context.Background(), w))
	assert.Equal(t, Sent, w.State())
	assert.Equal(t, StatusSent, svc.ReportStatus("p1", StatusNone))
}

func TestSubmitResolvedOutcome(t *testing.T) {
	stub := reasonsStub()
	stub.CreateReportFunc = func(ctx context.Context, req backend.CreateReportRequest) (*backend.Report, error) {
		return &backend.Report{ID: "r1", PostID: req.PostID, Status: "resolved"}, nil
	}
	svc := NewService(stub, nil)
	w, _ := svc.Open(context.Background(), "p1", StatusNone)
	require.NoError(t, w.Select("spam"))

	require.NoError(t, svc.Submit(context.Background(), w))
	assert.Equal(t, Resolved, w.State())
	assert.Equal(t, StatusResolved, svc.ReportStatus("p1", StatusNone))
}

func TestSubmitFailureReturnsToReady(t *testing.T) {
	stub := reasonsStub()
	stub.CreateReportFunc = func(ctx context.Context, req backend.CreateReportRequest) (*backend.Report, error) {
		return nil, errors.New("server error")
	}
	svc := NewService(stub, nil)
	w, _ := svc.Open(context.Background(), "p1", StatusNone)
	require.NoError(t, w.Select("spam"))

	err := svc.Submit(context.Background(), w)
	require.Error(t, err)
	assert.True(t, errs.IsMutation(err))
	assert.Equal(t, ReasonsReady, w.State(), "failed submission re-offers the form, never closes")
	assert.Error(t, w.Err())

	// Selection survives the failure; retry works.
	assert.Equal(t, "spam", w.Selected())
	stub.CreateReportFunc = func(ctx context.Context, req backend.CreateReportRequest) (*backend.Report, error) {
		return &backend.Report{Status: "sent"}, nil
	}
	assert.NoError(t, svc.Submit(context.Background(), w))
	assert.Equal(t, Sent, w.State())
}

func TestSubmitConflictMeansAlreadyReported(t *testing.T) {
	stub := reasonsStub()
	stub.CreateReportFunc = func(ctx context.Context, req backend.CreateReportRequest) (*backend.Report, error) {
		return nil, fmt.Errorf("createReport: %w: duplicate", backend.ErrConflict)
	}
	svc := NewService(stub, nil)
	w, _ := svc.Open(context.Background(), "p1", StatusNone)
	require.NoError(t, w.Select("spam"))

	err := svc.Submit(context.Background(), w)
	assert.True(t, errs.IsConflict(err))
	assert.Equal(t, Sent, w.State(), "an existing report shows the prior-report state")

	// A later open for the same post goes straight to the terminal state.
	w2, err := svc.Open(context.Background(), "p1", StatusNone)
	require.NoError(t, err)
	assert.Equal(t, Sent, w2.State())
}

func TestSubmitAuthFailure(t *testing.T) {
	stub := reasonsStub()
	stub.CreateReportFunc = func(ctx context.Context, req backend.CreateReportRequest) (*backend.Report, error) {
		return nil, fmt.Errorf("createReport: %w", backend.ErrUnauthorized)
	}
	svc := NewService(stub, nil)
	w, _ := svc.Open(context.Background(), "p1", StatusNone)
	require.NoError(t, w.Select("spam"))

	err := svc.Submit(context.Background(), w)
	assert.True(t, errs.IsAuth(err))
	assert.Equal(t, ReasonsReady, w.State())
}

func TestSubmitTwiceRejected(t *testing.T) {
	stub := reasonsStub()
	stub.CreateReportFunc = func(ctx context.Context, req backend.CreateReportRequest) (*backend.Report, error) {
		return &backend.Report{Status: "sent"}, nil
	}
	svc := NewService(stub, nil)
	w, _ := svc.Open(context.Background(), "p1", StatusNone)
	require.NoError(t, w.Select("spam"))
	require.NoError(t, svc.Submit(context.Background(), w))

	assert.ErrorIs(t, svc.Submit(context.Background(), w), ErrNotReady)
}

func TestReportStatusPrecedence(t *testing.T) {
	svc := NewService(&backendtest.Stub{}, nil)

	// No override: the embedded status stands, empty degrades to none.
	assert.Equal(t, StatusNone, svc.ReportStatus("p1", ""))
	assert.Equal(t, StatusSent, svc.ReportStatus("p1", StatusSent))

	// After a submission this session, the outcome wins over a stale
	// embedded value.
	rs := svc.(*reportService)
	rs.setOverride("p1", StatusSent)
	assert.Equal(t, StatusSent, svc.ReportStatus("p1", StatusNone))
	assert.Equal(t, StatusSent, svc.ReportStatus("p1", StatusResolved))
}
