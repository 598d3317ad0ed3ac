// Package errs defines the error taxonomy shared by the cache and sync layer.
// Errors are resolved as close to their scope as possible: a failed page load
// carries its query key, a failed mutation carries the entity scope it touched.
// Only auth errors are expected to bubble to a top-level handler.
package errs

import (
	"errors"
	"fmt"
)

// ValidationError is a local, pre-network rejection. The mutation or fetch
// that produced it was never attempted against the backend.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// FetchError is a failed list/page retrieval. Pagination state is left at its
// last good value; the caller offers retry for the affected query key only.
type FetchError struct {
	Key  string // query key the fetch was issued for
	Page int
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed for key %q page %d: %v", e.Key, e.Page, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// MutationError is a failed write-path call. The optimistic change has been
// rolled back by the time the caller sees this error.
type MutationError struct {
	Action string // e.g. "create comment", "join group"
	Scope  string // entity scope the mutation touched (post id, group id)
	Err    error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s failed for %s: %v", e.Action, e.Scope, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }

// ConflictError is a domain-level rejection for an already-true state
// ("already a member", "already reported"). No rollback accompanies it: the
// optimistic value already matches what the server holds.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s", e.Message)
}

// AuthError indicates the session is no longer valid. The in-flight operation
// is abandoned; redirecting to re-authentication is the caller's concern.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication required: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsFetch checks if an error is a fetch error
func IsFetch(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// IsMutation checks if an error is a mutation error
func IsMutation(err error) bool {
	var me *MutationError
	return errors.As(err, &me)
}

// IsConflict checks if an error is a conflict error
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsAuth checks if an error is an auth error
func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}
