package querycache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type row struct {
	ID     string
	Status string
}

func TestStore_SetItems_Items(t *testing.T) {
	s := NewStore(Options{})
	defer s.Close()
	key := NewKey("rows", "u-1")

	if _, ok := Items[row](s, key); ok {
		t.Fatalf("expected miss before first set")
	}
	SetItems(s, key, []row{{ID: "a"}, {ID: "b"}})
	items, ok := Items[row](s, key)
	if !ok || len(items) != 2 {
		t.Fatalf("expected 2 cached items, got ok=%v len=%d", ok, len(items))
	}
	if s.IsStale(key) {
		t.Fatalf("freshly set collection must not be stale")
	}
}

func TestStore_Invalidate_MarksStale(t *testing.T) {
	s := NewStore(Options{})
	defer s.Close()
	key := NewKey("rows", "u-1")
	SetItems(s, key, []row{{ID: "a"}})

	s.Invalidate(key)
	if !s.IsStale(key) {
		t.Fatalf("expected stale after invalidate")
	}
	// Items stay visible until a refetch replaces them.
	if items, ok := Items[row](s, key); !ok || len(items) != 1 {
		t.Fatalf("stale items must remain readable")
	}
}

func TestStore_GetOrFetch_ServesFreshSkipsFetch(t *testing.T) {
	s := NewStore(Options{StaleAfter: time.Minute})
	defer s.Close()
	key := NewKey("rows", "u-1")

	calls := 0
	fetch := func(ctx context.Context) ([]row, error) {
		calls++
		return []row{{ID: "a"}}, nil
	}

	if _, err := GetOrFetch(context.Background(), s, key, fetch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := GetOrFetch(context.Background(), s, key, fetch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single source fetch, got %d", calls)
	}
}

func TestStore_GetOrFetch_RefetchesWhenStale(t *testing.T) {
	s := NewStore(Options{StaleAfter: time.Minute})
	defer s.Close()
	key := NewKey("rows", "u-1")

	calls := 0
	fetch := func(ctx context.Context) ([]row, error) {
		calls++
		return []row{{ID: "a", Status: "v2"}}, nil
	}

	if _, err := GetOrFetch(context.Background(), s, key, fetch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Invalidate(key)
	items, err := GetOrFetch(context.Background(), s, key, fetch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected refetch after invalidation, got %d calls", calls)
	}
	if s.IsStale(key) {
		t.Fatalf("refetch must clear staleness")
	}
	if items[0].Status != "v2" {
		t.Fatalf("expected refetched items")
	}
}

func TestStore_GetOrFetch_FetchError(t *testing.T) {
	s := NewStore(Options{})
	defer s.Close()
	key := NewKey("rows", "u-1")

	boom := errors.New("source unavailable")
	if _, err := GetOrFetch(context.Background(), s, key, func(ctx context.Context) ([]row, error) {
		return nil, boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected source error, got %v", err)
	}
}

func TestStore_CancelRefetch_PreservesSpeculativeWrite(t *testing.T) {
	s := NewStore(Options{StaleAfter: time.Minute})
	defer s.Close()
	key := NewKey("rows", "u-1")
	SetItems(s, key, []row{{ID: "a"}})
	s.Invalidate(key)

	fetchStarted := make(chan struct{})
	release := make(chan struct{})
	done := make(chan []row, 1)
	go func() {
		items, _ := GetOrFetch(context.Background(), s, key, func(ctx context.Context) ([]row, error) {
			close(fetchStarted)
			<-release
			<-ctx.Done()
			return []row{{ID: "stale-read"}}, nil
		})
		done <- items
	}()

	<-fetchStarted
	// A mutation begins: cancel the in-flight refetch, then write speculatively.
	s.CancelRefetch(key)
	SetItems(s, key, []row{{ID: "a"}, {ID: "speculative"}})
	close(release)

	items := <-done
	if len(items) != 2 || items[1].ID != "speculative" {
		t.Fatalf("canceled refetch must yield the speculative collection, got %+v", items)
	}
	cached, _ := Items[row](s, key)
	if len(cached) != 2 || cached[1].ID != "speculative" {
		t.Fatalf("stale read clobbered the speculative write: %+v", cached)
	}
}

func TestStore_Update_SnapshotIsDeepClone(t *testing.T) {
	s := NewStore(Options{})
	defer s.Close()
	key := NewKey("rows", "u-1")
	SetItems(s, key, []row{{ID: "a", Status: "pending"}})

	snapshot, _, ok := Update(s, key, func(items []row) []row {
		next := make([]row, len(items))
		copy(next, items)
		next[0].Status = "approved"
		return next
	})
	if !ok {
		t.Fatalf("expected update to apply")
	}
	if snapshot[0].Status != "pending" {
		t.Fatalf("snapshot must capture pre-mutation state, got %q", snapshot[0].Status)
	}
	items, _ := Items[row](s, key)
	if items[0].Status != "approved" {
		t.Fatalf("speculative write not visible")
	}
}

func TestStore_Update_NoCollection(t *testing.T) {
	s := NewStore(Options{})
	defer s.Close()
	if _, _, ok := Update(s, NewKey("rows", "nobody"), func(items []row) []row { return items }); ok {
		t.Fatalf("update against an unfetched key must be a no-op")
	}
}

func TestStore_RestoreIf_VersionCheck(t *testing.T) {
	s := NewStore(Options{})
	defer s.Close()
	key := NewKey("rows", "u-1")
	SetItems(s, key, []row{{ID: "a"}})

	snapshot, version, _ := Update(s, key, func(items []row) []row {
		return append(items, row{ID: "b"})
	})

	// No intervening write: rollback applies.
	if !RestoreIf(s, key, snapshot, version) {
		t.Fatalf("expected rollback to apply")
	}
	items, _ := Items[row](s, key)
	if len(items) != 1 || items[0].ID != "a" {
		t.Fatalf("rollback did not restore the snapshot: %+v", items)
	}

	// Intervening write bumps the version: rollback must be refused.
	snapshot, version, _ = Update(s, key, func(items []row) []row {
		return append(items, row{ID: "c"})
	})
	SetItems(s, key, []row{{ID: "winner"}})
	if RestoreIf(s, key, snapshot, version) {
		t.Fatalf("rollback must lose to a later write")
	}
	items, _ = Items[row](s, key)
	if len(items) != 1 || items[0].ID != "winner" {
		t.Fatalf("later write was clobbered: %+v", items)
	}
}

func TestStore_PurgeExpired(t *testing.T) {
	s := NewStore(Options{GCAfter: time.Minute})
	defer s.Close()

	base := time.Now()
	now = func() time.Time { return base }
	t.Cleanup(func() { now = time.Now })

	SetItems(s, NewKey("rows", "u-1"), []row{{ID: "a"}})
	SetItems(s, NewKey("rows", "u-2"), []row{{ID: "b"}})
	if s.Len() != 2 {
		t.Fatalf("expected 2 collections, got %d", s.Len())
	}

	base = base.Add(2 * time.Minute)
	s.PurgeExpired()
	if s.Len() != 0 {
		t.Fatalf("expected eviction after GC window, got %d", s.Len())
	}
}
