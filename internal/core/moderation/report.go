// Package moderation drives the report-a-post flow: reason retrieval,
// selection, submission, and terminal display for posts already reported.
package moderation

import "Thrive/internal/backend"

// Report status values as reported by the backend or a submission outcome.
const (
	StatusNone     = "none"
	StatusSent     = "sent"
	StatusResolved = "resolved"
)

// Reason is a report reason: reference data fetched once per session.
type Reason struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// ReasonFromBackend converts a backend report reason to the cached model.
func ReasonFromBackend(r backend.ReportReason) Reason {
	return Reason{ID: r.ID, Label: r.Label}
}
