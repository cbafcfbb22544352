package cache

import (
	"context"
	"sync"
	"testing"
	"time"
)

// probe is a representative cached value for store tests.
type probe struct {
	ID string
	OK bool
}

func TestMemoryStore_GetMissOnEmpty(t *testing.T) {
	store := NewMemoryStore[probe](StoreConfig{})
	ctx := context.Background()

	got, ok := store.Get(ctx, "nonexistent")
	if ok {
		t.Error("Get on empty store should return ok=false")
	}
	if got != (probe{}) {
		t.Errorf("Get on empty store = %+v, want zero value", got)
	}
}

func TestMemoryStore_PutGet(t *testing.T) {
	store := NewMemoryStore[probe](StoreConfig{})
	ctx := context.Background()

	want := probe{ID: "u1", OK: true}
	if err := store.Put(ctx, "u1", want); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, ok := store.Get(ctx, "u1")
	if !ok {
		t.Fatal("Get after Put should return ok=true")
	}
	if got != want {
		t.Errorf("Get = %+v, want %+v", got, want)
	}
}

func TestMemoryStore_ExpiryBoundary(t *testing.T) {
	now := time.Unix(1700000000, 0)
	store := NewMemoryStore[probe](StoreConfig{
		TTL: 5 * time.Minute,
		Now: func() time.Time { return now },
	})
	ctx := context.Background()

	if err := store.Put(ctx, "u1", probe{ID: "u1"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// One tick short of the TTL the entry is still live.
	now = now.Add(5*time.Minute - time.Nanosecond)
	if _, ok := store.Get(ctx, "u1"); !ok {
		t.Error("Get just before TTL should return ok=true")
	}

	// At exactly the TTL the entry is a miss, never a stale hit.
	now = now.Add(time.Nanosecond)
	if _, ok := store.Get(ctx, "u1"); ok {
		t.Error("Get at TTL age should return ok=false")
	}
}

func TestMemoryStore_ExpiredEntryReclaimedLazily(t *testing.T) {
	now := time.Unix(1700000000, 0)
	store := NewMemoryStore[probe](StoreConfig{
		TTL: time.Minute,
		Now: func() time.Time { return now },
	})
	ctx := context.Background()

	store.Put(ctx, "u1", probe{ID: "u1"})
	now = now.Add(2 * time.Minute)

	if _, ok := store.Get(ctx, "u1"); ok {
		t.Fatal("Get after expiry should return ok=false")
	}
	if store.Len() != 0 {
		t.Errorf("Len after expired Get = %d, want 0", store.Len())
	}
}

func TestMemoryStore_PutOverwrites(t *testing.T) {
	store := NewMemoryStore[probe](StoreConfig{})
	ctx := context.Background()

	store.Put(ctx, "u1", probe{ID: "first"})
	store.Put(ctx, "u1", probe{ID: "second"})

	got, ok := store.Get(ctx, "u1")
	if !ok {
		t.Fatal("Get after overwrite should return ok=true")
	}
	if got.ID != "second" {
		t.Errorf("Get.ID = %q, want %q (last writer wins)", got.ID, "second")
	}
}

func TestMemoryStore_PutRefreshesAge(t *testing.T) {
	now := time.Unix(1700000000, 0)
	store := NewMemoryStore[probe](StoreConfig{
		TTL: 5 * time.Minute,
		Now: func() time.Time { return now },
	})
	ctx := context.Background()

	store.Put(ctx, "u1", probe{ID: "old"})
	now = now.Add(4 * time.Minute)
	store.Put(ctx, "u1", probe{ID: "new"})
	now = now.Add(4 * time.Minute)

	// Eight minutes after the first write, the rewrite keeps it live.
	got, ok := store.Get(ctx, "u1")
	if !ok {
		t.Fatal("Get should return ok=true after rewrite")
	}
	if got.ID != "new" {
		t.Errorf("Get.ID = %q, want %q", got.ID, "new")
	}
}

func TestMemoryStore_Sweep(t *testing.T) {
	now := time.Unix(1700000000, 0)
	store := NewMemoryStore[probe](StoreConfig{
		TTL: time.Minute,
		Now: func() time.Time { return now },
	})
	ctx := context.Background()

	store.Put(ctx, "stale", probe{ID: "stale"})
	now = now.Add(2 * time.Minute)
	store.Put(ctx, "fresh", probe{ID: "fresh"})

	if removed := store.Sweep(); removed != 1 {
		t.Errorf("Sweep removed %d entries, want 1", removed)
	}
	if store.Len() != 1 {
		t.Errorf("Len after Sweep = %d, want 1", store.Len())
	}
	if _, ok := store.Get(ctx, "fresh"); !ok {
		t.Error("fresh entry removed by Sweep")
	}
}

func TestMemoryStore_ZeroValueRoundTrip(t *testing.T) {
	store := NewMemoryStore[probe](StoreConfig{})
	ctx := context.Background()

	store.Put(ctx, "u1", probe{})

	got, ok := store.Get(ctx, "u1")
	if !ok {
		t.Error("Get of stored zero value should return ok=true")
	}
	if got != (probe{}) {
		t.Errorf("Get = %+v, want zero value", got)
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := NewMemoryStore[int](StoreConfig{})
	ctx := context.Background()

	const numGoroutines = 50
	const opsPerGoroutine = 500

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < opsPerGoroutine; j++ {
				switch j % 3 {
				case 0:
					_ = store.Put(ctx, "shared", id)
				case 1:
					_, _ = store.Get(ctx, "shared")
				case 2:
					store.Sweep()
				}
			}
		}(i)
	}

	wg.Wait()
}
