// Package store keeps the most recently fetched backend data for the wall.
//
// Each resource tracks a loading flag and the last error next to its items.
// A failed call leaves the previous items untouched, so the wall keeps
// showing stale data (or its static fallback) rather than failing. Successful
// mutations are merged into the local copy optimistically and are only
// reconciled with the backend by the next fetch.
package store

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// State is a point-in-time copy of a resource.
type State[T any] struct {
	Items   []T
	Loading bool
	Err     string
	// Loaded reports whether a fetch ever succeeded.
	Loaded bool
}

type resource[T any] struct {
	name   string
	id     func(T) string
	logger *zap.Logger

	mu      sync.RWMutex
	items   []T
	pending int
	err     string
	loaded  bool
}

func newResource[T any](name string, id func(T) string, logger *zap.Logger) *resource[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &resource[T]{name: name, id: id, logger: logger.With(zap.String("resource", name))}
}

func (r *resource[T]) State() State[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]T, len(r.items))
	copy(items, r.items)
	return State[T]{Items: items, Loading: r.pending > 0, Err: r.err, Loaded: r.loaded}
}

func (r *resource[T]) Items() []T { return r.State().Items }

// call runs fn with the loading flag raised. On error the message is kept
// and the items stay as they were.
func call[T, R any](ctx context.Context, r *resource[T], op string, fn func(context.Context) (R, error)) (R, error) {
	r.mu.Lock()
	r.pending++
	r.err = ""
	r.mu.Unlock()

	res, err := fn(ctx)

	r.mu.Lock()
	r.pending--
	if err != nil {
		r.err = err.Error()
	}
	r.mu.Unlock()

	if err != nil {
		r.logger.Warn("API call failed", zap.String("op", op), zap.Error(err))
	}
	return res, err
}

func (r *resource[T]) replaceAll(items []T) {
	r.mu.Lock()
	r.items = append([]T(nil), items...)
	r.loaded = true
	r.mu.Unlock()
}

func (r *resource[T]) appendItem(item T) {
	r.mu.Lock()
	r.items = append(r.items, item)
	r.mu.Unlock()
}

// replaceByID swaps the item with the given id. Unknown ids are ignored, as
// there is nothing local to merge into.
func (r *resource[T]) replaceByID(id string, item T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.id(r.items[i]) == id {
			r.items[i] = item
		}
	}
}

func (r *resource[T]) removeByID(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.items[:0]
	for _, it := range r.items {
		if r.id(it) != id {
			kept = append(kept, it)
		}
	}
	clear(r.items[len(kept):])
	r.items = kept
}
