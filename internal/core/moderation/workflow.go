package moderation

import (
	"sync"

	"Thrive/internal/core/errs"
)

// State is the report workflow's phase.
type State int

const (
	// Closed means the workflow has not been opened for a post.
	Closed State = iota
	// ReasonsLoading means the reason reference list is being fetched.
	ReasonsLoading
	// ReasonsReady means a reason can be selected and submitted. A failed
	// submission returns here with the error attached, never to Closed.
	ReasonsReady
	// Submitting means a report submission is in flight.
	Submitting
	// Sent is terminal: a report for this post has been filed.
	Sent
	// Resolved is terminal: a prior report for this post was handled.
	Resolved
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case ReasonsLoading:
		return "reasonsLoading"
	case ReasonsReady:
		return "reasonsReady"
	case Submitting:
		return "submitting"
	case Sent:
		return "sent"
	case Resolved:
		return "resolved"
	}
	return "unknown"
}

// Workflow is the report flow for one post. It is handed out by the
// service's Open and advanced by Submit.
type Workflow struct {
	mu       sync.Mutex
	postID   string
	state    State
	reasons  []Reason
	selected string
	detail   string
	err      error
}

// PostID returns the post the workflow was opened for.
func (w *Workflow) PostID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.postID
}

// State returns the workflow's current phase.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Reasons returns the selectable report reasons.
func (w *Workflow) Reasons() []Reason {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Reason, len(w.reasons))
	copy(out, w.reasons)
	return out
}

// Select chooses a reason from the reference list.
func (w *Workflow) Select(reasonID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != ReasonsReady {
		return ErrNotReady
	}
	for _, r := range w.reasons {
		if r.ID == reasonID {
			w.selected = reasonID
			return nil
		}
	}
	return errs.NewValidationError("reason", ErrUnknownReason.Error())
}

// Selected returns the chosen reason id, empty when none is selected.
func (w *Workflow) Selected() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selected
}

// SetDetail attaches optional free-text detail to the report.
func (w *Workflow) SetDetail(detail string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.detail = detail
}

// Err returns the error attached by the most recent failed submission.
func (w *Workflow) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// setState transitions the workflow, attaching or clearing the error.
func (w *Workflow) setState(s State, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = s
	w.err = err
}

func (w *Workflow) submission() (reasonID, detail string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selected, w.detail
}
