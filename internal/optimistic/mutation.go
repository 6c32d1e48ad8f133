// Package optimistic wraps an authoritative remote mutation with a
// speculative cache update, snapshot rollback on failure, and unconditional
// invalidation on settlement, for any entity whose cached state is a list of
// items under a query-cache key.
package optimistic

import (
	"context"
	"sync/atomic"

	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/querycache"

	"go.uber.org/zap"
)

// Mutation describes one optimistic mutation site. Fn is the authoritative
// write; exactly one of the three transforms (AddItem, UpdateItem+FindItem,
// RemoveItem) should be configured per site.
type Mutation[T any, V any] struct {
	// Fn performs the remote write and returns the authoritative item.
	Fn func(ctx context.Context, vars V) (T, error)

	// Key addresses the cached collection this mutation speculates on.
	Key querycache.Key

	// Cache is the query cache holding the collection.
	Cache *querycache.Store

	// AddItem synthesizes a speculative item to prepend for a creation.
	AddItem func(vars V) T

	// FindItem locates the items UpdateItem should transform.
	FindItem func(item T, vars V) bool

	// UpdateItem produces the speculative replacement for a located item.
	UpdateItem func(item T, vars V) T

	// RemoveItem reports whether an item should be filtered out for a
	// deletion. Matching is per item against the mutation variables.
	RemoveItem func(item T, vars V) bool

	// OnSuccess, OnError and OnSettled are caller side effects (toasts,
	// activity logging). The cache itself is reconciled regardless.
	OnSuccess func(data T, vars V)
	OnError   func(err error, vars V)
	OnSettled func()

	// Log, when set, records rollbacks and lost-rollback races.
	Log *zap.Logger

	pending atomic.Int64
}

// IsPending reports whether any invocation of this mutation is in flight.
func (m *Mutation[T, V]) IsPending() bool {
	return m.pending.Load() > 0
}

// Mutate runs one mutation instance through its three phases:
//
//  1. begin: cancel any in-flight refetch for the key, snapshot the cached
//     collection and write the speculative transform in one atomic step;
//  2. settle success: invoke OnSuccess only, leaving reconciliation to 3;
//  3. settle end: on error roll the collection back to the snapshot
//     (version-checked, so a concurrent later write is not clobbered), then
//     in all cases invalidate the key and invoke OnSettled.
//
// Each call is attempted exactly once; retries belong to the caller.
func (m *Mutation[T, V]) Mutate(ctx context.Context, vars V) (T, error) {
	m.pending.Add(1)
	defer m.pending.Add(-1)

	m.Cache.CancelRefetch(m.Key)
	snapshot, version, speculated := querycache.Update(m.Cache, m.Key, func(items []T) []T {
		return m.apply(items, vars)
	})

	data, err := m.Fn(ctx, vars)
	if err != nil {
		if speculated {
			if restored := querycache.RestoreIf(m.Cache, m.Key, snapshot, version); !restored && m.Log != nil {
				m.Log.Debug("optimistic rollback skipped, collection changed since speculative write",
					zap.String("key", m.Key.Digest()))
			}
		}
		if m.OnError != nil {
			m.OnError(err, vars)
		}
		m.settle()
		var zero T
		return zero, err
	}

	if m.OnSuccess != nil {
		m.OnSuccess(data, vars)
	}
	m.settle()
	return data, nil
}

// settle marks the key stale so a background refetch becomes the new source
// of truth, bounding any speculative divergence by one round trip.
func (m *Mutation[T, V]) settle() {
	m.Cache.Invalidate(m.Key)
	if m.OnSettled != nil {
		m.OnSettled()
	}
}

// apply runs the single configured speculative transform.
func (m *Mutation[T, V]) apply(items []T, vars V) []T {
	switch {
	case m.AddItem != nil:
		next := make([]T, 0, len(items)+1)
		next = append(next, m.AddItem(vars))
		return append(next, items...)
	case m.UpdateItem != nil && m.FindItem != nil:
		next := make([]T, len(items))
		for i, item := range items {
			if m.FindItem(item, vars) {
				next[i] = m.UpdateItem(item, vars)
			} else {
				next[i] = item
			}
		}
		return next
	case m.RemoveItem != nil:
		next := make([]T, 0, len(items))
		for _, item := range items {
			if !m.RemoveItem(item, vars) {
				next = append(next, item)
			}
		}
		return next
	default:
		return items
	}
}
