package cache

import (
	"log/slog"
	"sync"
)

// Keyed is a flat id -> entity mapping with per-id in-flight flags and
// per-id snapshots. Groups and session reference data live in Keyed stores.
type Keyed[T any] struct {
	mu      sync.RWMutex
	entries map[string]T
	order   []string // insertion order, preserved for list reads
	busy    map[string]bool
	logger  *slog.Logger
}

// NewKeyed creates an empty keyed store.
func NewKeyed[T any](logger *slog.Logger) *Keyed[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Keyed[T]{
		entries: make(map[string]T),
		busy:    make(map[string]bool),
		logger:  logger,
	}
}

// Get returns the entity stored under id.
func (k *Keyed[T]) Get(id string) (T, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	v, ok := k.entries[id]
	return v, ok
}

// Set stores or replaces the entity under id.
func (k *Keyed[T]) Set(id string, value T) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if _, exists := k.entries[id]; !exists {
		k.order = append(k.order, id)
	}
	k.entries[id] = value
}

// SetAll replaces the whole store with the given entries in the given order.
// Used for page-1/refresh loads of the group directory.
func (k *Keyed[T]) SetAll(ids []string, values []T) {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.entries = make(map[string]T, len(ids))
	k.order = k.order[:0]
	for i, id := range ids {
		if _, dup := k.entries[id]; dup {
			continue
		}
		k.entries[id] = values[i]
		k.order = append(k.order, id)
	}

	k.logger.Debug("keyed store replaced", "count", len(k.entries))
}

// Merge inserts the given entries, keeping existing insertion order and
// skipping ids already present. Used for appended directory pages.
func (k *Keyed[T]) Merge(ids []string, values []T) {
	k.mu.Lock()
	defer k.mu.Unlock()

	for i, id := range ids {
		if _, exists := k.entries[id]; exists {
			continue
		}
		k.entries[id] = values[i]
		k.order = append(k.order, id)
	}
}

// Remove deletes the entity under id.
func (k *Keyed[T]) Remove(id string) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if _, exists := k.entries[id]; !exists {
		return
	}
	delete(k.entries, id)
	for i, existing := range k.order {
		if existing == id {
			k.order = append(k.order[:i:i], k.order[i+1:]...)
			break
		}
	}
}

// All returns the stored entities in insertion order.
func (k *Keyed[T]) All() []T {
	k.mu.RLock()
	defer k.mu.RUnlock()

	out := make([]T, 0, len(k.order))
	for _, id := range k.order {
		out = append(out, k.entries[id])
	}
	return out
}

// Len returns the number of stored entities.
func (k *Keyed[T]) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.entries)
}

// SetBusy marks or clears the id's in-flight flag.
func (k *Keyed[T]) SetBusy(id string, busy bool) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if busy {
		k.busy[id] = true
	} else {
		delete(k.busy, id)
	}
}

// Busy reports whether a mutation for the id is in flight.
func (k *Keyed[T]) Busy(id string) bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.busy[id]
}
