// Package mutations runs optimistic write-path actions against the entity
// caches. Every mutation has the same three-phase shape: apply the change
// locally so the UI updates instantly, invoke the backend, then reconcile
// the cache with the authoritative result or roll the local change back.
package mutations

import (
	"context"
	"log/slog"

	"Thrive/internal/backend"
	"Thrive/internal/core/errs"
)

// Mutation describes one optimistic write. Apply and Rollback must be
// symmetric over the same scope snapshot; the closure that builds the
// mutation captures the snapshot, so overlapping mutations on other scopes
// cannot be rolled back by this one.
type Mutation struct {
	// Action names the user action for logs and error messages,
	// e.g. "create comment", "join group".
	Action string

	// Scope is the entity scope the mutation touches: a post id for
	// comments and reactions, a group id for membership and posts.
	Scope string

	// Apply synchronously writes the optimistic change into the cache.
	Apply func()

	// Call invokes the backend operation.
	Call func(ctx context.Context) error

	// Reconcile replaces the optimistic state with the server-confirmed
	// result after a successful call. Nil when the optimistic value
	// already matches the accepted intent (reactions, leave group).
	Reconcile func(ctx context.Context) error

	// Rollback restores the pre-mutation snapshot for the scope.
	Rollback func()

	// KeepOnConflict keeps the optimistic state when the backend rejects
	// the call as a conflict. Set it on mutations whose requested state
	// already holds server-side (join, leave, react, delete), where the
	// optimistic value matches reality. Mutations that introduce a
	// temporary entity (creates) leave it unset so the pending entity is
	// rolled back.
	KeepOnConflict bool

	// SetBusy toggles the scope's in-flight flag in its store, so the UI
	// can disable the triggering control while the call is unresolved.
	// Optional.
	SetBusy func(bool)
}

// Engine executes mutations. It is stateless apart from its logger; each
// Run owns the snapshot its mutation closures captured.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates a mutation engine.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// Run applies the mutation locally, invokes the backend, and reconciles or
// rolls back. Error outcomes follow the taxonomy:
//
//   - conflict: a ConflictError is returned; the optimistic value is kept
//     when KeepOnConflict is set (the requested state already holds
//     server-side) and rolled back otherwise.
//   - auth: the session is invalid; the unconfirmed local change is rolled
//     back and an AuthError is returned for the caller to redirect.
//   - anything else: rolled back and returned as a MutationError scoped to
//     the affected entity.
//
// A failed reconcile after a successful call keeps the optimistic state:
// the backend accepted the intent, so the local value is already correct
// and a later fetch will converge the details.
func (e *Engine) Run(ctx context.Context, m Mutation) error {
	if m.SetBusy != nil {
		m.SetBusy(true)
		defer m.SetBusy(false)
	}

	m.Apply()

	e.logger.Debug("optimistic change applied",
		"action", m.Action,
		"scope", m.Scope)

	if err := m.Call(ctx); err != nil {
		if backend.IsConflict(err) {
			if !m.KeepOnConflict {
				m.Rollback()
			}
			e.logger.Info("mutation rejected as conflict",
				"action", m.Action,
				"scope", m.Scope,
				"kept_optimistic", m.KeepOnConflict,
				"error", err)
			return &errs.ConflictError{Message: err.Error()}
		}

		m.Rollback()

		if backend.IsAuthError(err) {
			e.logger.Warn("mutation abandoned, session invalid",
				"action", m.Action,
				"scope", m.Scope,
				"error", err)
			return &errs.AuthError{Err: err}
		}

		e.logger.Error("mutation failed, rolled back",
			"action", m.Action,
			"scope", m.Scope,
			"error", err)
		return &errs.MutationError{Action: m.Action, Scope: m.Scope, Err: err}
	}

	if m.Reconcile != nil {
		if err := m.Reconcile(ctx); err != nil {
			// The call itself succeeded; keep the optimistic state
			// and let the next fetch for this scope converge it.
			e.logger.Warn("reconcile failed after successful mutation",
				"action", m.Action,
				"scope", m.Scope,
				"error", err)
			return nil
		}
	}

	e.logger.Info("mutation confirmed",
		"action", m.Action,
		"scope", m.Scope)
	return nil
}
