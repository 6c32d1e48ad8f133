package querycache

import (
	"context"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// entry is one cached collection plus the bookkeeping the optimistic
// controller relies on: a monotonically increasing version (bumped on every
// write, compared on rollback), a staleness flag, and the cancel func of an
// in-flight refetch.
type entry struct {
	items     any // []T, accessed through the generic package functions
	version   uint64
	stale     bool
	fetchedAt time.Time
	expiresAt time.Time
	cancel    context.CancelFunc
}

// Options controls construction of a Store.
type Options struct {
	// StaleAfter is how long a fetched collection is served without hitting
	// the source again. Zero means collections are only refetched when
	// explicitly invalidated.
	StaleAfter time.Duration

	// GCAfter is how long an untouched collection survives before the
	// janitor evicts it. Zero disables eviction.
	GCAfter time.Duration

	// JanitorInterval is how often expired collections are swept.
	// Zero disables the background janitor; PurgeExpired can still be
	// called manually.
	JanitorInterval time.Duration
}

// Store is a key-addressed cache of fetched collections. It is injectable
// rather than a package singleton so tests can run isolated instances.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
	opts    Options
	stop    chan struct{}
	once    sync.Once
}

// now is a small indirection to allow test stubbing.
var now = time.Now

// NewStore constructs a Store and starts its janitor when configured.
func NewStore(opts Options) *Store {
	s := &Store{
		entries: make(map[string]*entry),
		opts:    opts,
		stop:    make(chan struct{}),
	}
	if opts.JanitorInterval > 0 {
		go s.janitor()
	}
	return s
}

// Close stops the janitor.
func (s *Store) Close() {
	s.once.Do(func() { close(s.stop) })
}

func (s *Store) janitor() {
	ticker := time.NewTicker(s.opts.JanitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.PurgeExpired()
		}
	}
}

// PurgeExpired evicts collections whose GC window has lapsed.
func (s *Store) PurgeExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts := now()
	for k, e := range s.entries {
		if !e.expiresAt.IsZero() && ts.After(e.expiresAt) {
			if e.cancel != nil {
				e.cancel()
			}
			delete(s.entries, k)
		}
	}
}

// Invalidate marks the key stale so the next read refetches. The cached
// items stay visible until the refetch replaces them.
func (s *Store) Invalidate(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key.Digest()]; ok {
		e.stale = true
	}
}

// IsStale reports whether the key is present and marked for refetch.
func (s *Store) IsStale(key Key) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key.Digest()]
	return ok && e.stale
}

// CancelRefetch aborts an in-flight background fetch for the key, if any.
// Called at mutation begin so a resolving stale read cannot clobber a
// just-applied speculative write.
func (s *Store) CancelRefetch(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key.Digest()]; ok && e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

// Len returns the number of cached collections.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// touch resets the GC deadline; callers hold the write lock.
func (s *Store) touch(e *entry) {
	if s.opts.GCAfter > 0 {
		e.expiresAt = now().Add(s.opts.GCAfter)
	}
}

// getOrCreate returns the entry for key, creating it if absent; callers
// hold the write lock.
func (s *Store) getOrCreate(key Key) *entry {
	digest := key.Digest()
	e, ok := s.entries[digest]
	if !ok {
		e = &entry{}
		s.entries[digest] = e
	}
	return e
}

// Items returns the cached collection for key, whether present or not.
// Staleness is not checked here; stale items remain visible until replaced.
func Items[T any](s *Store, key Key) ([]T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key.Digest()]
	if !ok || e.items == nil {
		return nil, false
	}
	items, ok := e.items.([]T)
	return items, ok
}

// Version returns the current version counter for key.
func Version(s *Store, key Key) (uint64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key.Digest()]
	if !ok {
		return 0, false
	}
	return e.version, true
}

// SetItems replaces the collection for key with freshly fetched items,
// clearing staleness and bumping the version.
func SetItems[T any](s *Store, key Key, items []T) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.getOrCreate(key)
	e.items = items
	e.version++
	e.stale = false
	e.fetchedAt = now()
	s.touch(e)
	return e.version
}

// Update atomically snapshots the current collection, applies transform and
// writes the result back, bumping the version. The returned snapshot is a
// deep clone held for rollback; version is the version of the speculative
// write. ok is false when no collection is cached under key, in which case
// nothing was written.
func Update[T any](s *Store, key Key, transform func([]T) []T) (snapshot []T, version uint64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, found := s.entries[key.Digest()]
	if !found || e.items == nil {
		return nil, 0, false
	}
	items, cast := e.items.([]T)
	if !cast {
		return nil, 0, false
	}
	snapshot = clone(items)
	e.items = transform(items)
	e.version++
	s.touch(e)
	return snapshot, e.version, true
}

// RestoreIf rolls the collection back to snapshot, but only when the
// version is unchanged since the caller's speculative write. A later write
// bumps the version and wins; the caller's unconditional invalidation still
// reconciles within one refetch.
func RestoreIf[T any](s *Store, key Key, snapshot []T, version uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key.Digest()]
	if !ok || e.version != version {
		return false
	}
	e.items = snapshot
	e.version++
	s.touch(e)
	return true
}

// GetOrFetch serves the cached collection when fresh; otherwise it fetches
// under a cancelable context registered on the entry, so CancelRefetch can
// abort it. A canceled fetch falls back to whatever is currently cached.
func GetOrFetch[T any](ctx context.Context, s *Store, key Key, fetch func(context.Context) ([]T, error)) ([]T, error) {
	s.mu.Lock()
	digest := key.Digest()
	e := s.getOrCreate(key)
	fresh := e.items != nil && !e.stale &&
		(s.opts.StaleAfter <= 0 || now().Before(e.fetchedAt.Add(s.opts.StaleAfter)))
	if fresh {
		items, _ := e.items.([]T)
		s.mu.Unlock()
		return items, nil
	}

	fetchCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	s.mu.Unlock()

	items, err := fetch(fetchCtx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[digest]; ok && e.cancel != nil {
		e.cancel = nil
	}
	cancel()

	if fetchCtx.Err() != nil {
		// Refetch was canceled by a mutation begin; the speculative state
		// in the cache is the fresher one.
		if e, ok := s.entries[digest]; ok && e.items != nil {
			if cached, cast := e.items.([]T); cast {
				return cached, nil
			}
		}
		return nil, fetchCtx.Err()
	}
	if err != nil {
		return nil, err
	}

	e = s.getOrCreate(key)
	e.items = items
	e.version++
	e.stale = false
	e.fetchedAt = now()
	s.touch(e)
	return items, nil
}

// clone deep-copies a collection through a msgpack round trip, falling back
// to a shallow copy when the items cannot be encoded.
func clone[T any](items []T) []T {
	encoded, err := msgpack.Marshal(items)
	if err == nil {
		var out []T
		if err := msgpack.Unmarshal(encoded, &out); err == nil {
			return out
		}
	}
	out := make([]T, len(items))
	copy(out, items)
	return out
}
