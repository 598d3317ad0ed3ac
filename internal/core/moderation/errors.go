package moderation

import "errors"

var (
	// ErrNoReasonSelected indicates submission was attempted without a reason
	ErrNoReasonSelected = errors.New("a report reason must be selected")

	// ErrUnknownReason indicates the selected reason is not in the reference list
	ErrUnknownReason = errors.New("unknown report reason")

	// ErrNotReady indicates the workflow is not in a submittable state
	ErrNotReady = errors.New("report workflow is not ready for submission")

	// ErrAlreadyReported indicates a report for this post already exists
	ErrAlreadyReported = errors.New("post already reported")
)
