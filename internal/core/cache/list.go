// Package cache holds the in-memory entity stores the sync layer reads and
// writes. It is the sole owner of the entity copies the UI sees: page loads,
// optimistic mutations, and reconciliation all go through these stores.
// Scope-level granularity (per post id, per group id) is the unit of
// isolation; writes to different scopes never conflict.
package cache

import (
	"log/slog"
	"sync"
)

// Mode selects how a page of items is merged into a scope's list.
type Mode int

const (
	// Replace discards the scope's previous list before inserting.
	// Used for page 1 and refresh.
	Replace Mode = iota
	// Append concatenates preserving arrival order, de-duplicating by id.
	// Used for pages after the first.
	Append
)

// List is a keyed collection of ordered entity lists: scope id -> []T.
// Posts are scoped per group, comments and reactions per post. The server's
// order is authoritative; Append never reorders.
type List[T any] struct {
	mu     sync.RWMutex
	scopes map[string][]T
	busy   map[string]bool // per-scope in-flight flag for mutations
	idOf   func(T) string
	logger *slog.Logger
}

// NewList creates a list store. idOf extracts an entity's id; it is used for
// append de-duplication, upserts, and removals.
func NewList[T any](idOf func(T) string, logger *slog.Logger) *List[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &List[T]{
		scopes: make(map[string][]T),
		busy:   make(map[string]bool),
		idOf:   idOf,
		logger: logger,
	}
}

// Get returns a copy of the scope's list. Returns nil when the scope has
// never been populated.
func (l *List[T]) Get(scope string) []T {
	l.mu.RLock()
	defer l.mu.RUnlock()

	items, ok := l.scopes[scope]
	if !ok {
		return nil
	}
	out := make([]T, len(items))
	copy(out, items)
	return out
}

// Find returns the entity with the given id in the scope's list.
func (l *List[T]) Find(scope, id string) (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, item := range l.scopes[scope] {
		if l.idOf(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Len returns the number of entities cached for the scope.
func (l *List[T]) Len(scope string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.scopes[scope])
}

// SetPage merges a page of items into the scope's list. Replace discards the
// previous list; Append concatenates, skipping ids already present so
// overlapping pages never introduce duplicates.
func (l *List[T]) SetPage(scope string, items []T, mode Mode) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if mode == Replace {
		list := make([]T, len(items))
		copy(list, items)
		l.scopes[scope] = list
		l.logger.Debug("cache page replaced",
			"scope", scope,
			"count", len(items))
		return
	}

	existing := l.scopes[scope]
	seen := make(map[string]bool, len(existing))
	for _, item := range existing {
		seen[l.idOf(item)] = true
	}

	appended := 0
	for _, item := range items {
		id := l.idOf(item)
		if seen[id] {
			continue
		}
		seen[id] = true
		existing = append(existing, item)
		appended++
	}
	l.scopes[scope] = existing

	l.logger.Debug("cache page appended",
		"scope", scope,
		"received", len(items),
		"appended", appended)
}

// Upsert replaces the entity with a matching id in place, or appends it at
// the tail when absent.
func (l *List[T]) Upsert(scope string, item T) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.idOf(item)
	list := l.scopes[scope]
	for i, existing := range list {
		if l.idOf(existing) == id {
			list[i] = item
			return
		}
	}
	l.scopes[scope] = append(list, item)
}

// Prepend inserts the entity at the head of the scope's list. Used for
// pending entities so they render first.
func (l *List[T]) Prepend(scope string, item T) {
	l.mu.Lock()
	defer l.mu.Unlock()

	list := l.scopes[scope]
	l.scopes[scope] = append([]T{item}, list...)
}

// Remove deletes the entity with the given id from the scope's list.
// It returns the removed entity and its former index so a rollback can
// re-insert it at the original position.
func (l *List[T]) Remove(scope, id string) (T, int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	list := l.scopes[scope]
	for i, item := range list {
		if l.idOf(item) == id {
			l.scopes[scope] = append(list[:i:i], list[i+1:]...)
			return item, i, true
		}
	}
	var zero T
	return zero, -1, false
}

// InsertAt re-inserts an entity at the given index, clamping to the list
// bounds. The inverse of Remove for rollback.
func (l *List[T]) InsertAt(scope string, index int, item T) {
	l.mu.Lock()
	defer l.mu.Unlock()

	list := l.scopes[scope]
	if index < 0 {
		index = 0
	}
	if index > len(list) {
		index = len(list)
	}
	list = append(list, item)
	copy(list[index+1:], list[index:])
	list[index] = item
	l.scopes[scope] = list
}

// RemoveWhere deletes every entity the predicate matches and returns how
// many were removed.
func (l *List[T]) RemoveWhere(scope string, match func(T) bool) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	list := l.scopes[scope]
	kept := list[:0:0]
	removed := 0
	for _, item := range list {
		if match(item) {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	if removed > 0 {
		l.scopes[scope] = kept
	}
	return removed
}

// Clear drops the scope's list entirely.
func (l *List[T]) Clear(scope string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.scopes, scope)
}

// Snapshot captures the scope's current list for a later Restore. Each
// mutation owns its own snapshot, so an overlapping failed mutation cannot
// roll back another's committed result in a different scope.
func (l *List[T]) Snapshot(scope string) []T {
	return l.Get(scope)
}

// Restore replaces the scope's list with a previously captured snapshot.
// A nil snapshot restores the never-populated state.
func (l *List[T]) Restore(scope string, snapshot []T) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if snapshot == nil {
		delete(l.scopes, scope)
		return
	}
	list := make([]T, len(snapshot))
	copy(list, snapshot)
	l.scopes[scope] = list

	l.logger.Debug("cache scope restored from snapshot",
		"scope", scope,
		"count", len(snapshot))
}

// SetBusy marks or clears the scope's in-flight flag. The flag disables
// duplicate user actions while a mutation for the scope is unresolved.
func (l *List[T]) SetBusy(scope string, busy bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if busy {
		l.busy[scope] = true
	} else {
		delete(l.busy, scope)
	}
}

// Busy reports whether a mutation for the scope is in flight.
func (l *List[T]) Busy(scope string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.busy[scope]
}
