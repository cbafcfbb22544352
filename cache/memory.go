package cache

import (
	"context"
	"sync"
	"time"
)

// StoreConfig configures an in-memory store.
type StoreConfig struct {
	// TTL bounds how long an entry can be read back.
	// Default: 5 minutes
	TTL time.Duration

	// Now overrides the clock. Intended for tests.
	Now func() time.Time
}

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// MemoryStore is an in-memory Store implementation. Entries expire
// logically once their age reaches the TTL; physical reclamation happens
// lazily on Get or in bulk via Sweep.
type MemoryStore[V any] struct {
	config StoreConfig

	mu      sync.RWMutex
	entries map[string]entry[V]
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore[V any](config StoreConfig) *MemoryStore[V] {
	// Apply defaults
	if config.TTL <= 0 {
		config.TTL = DefaultTTL
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	return &MemoryStore[V]{
		config:  config,
		entries: make(map[string]entry[V]),
	}
}

// Get retrieves a value. Returns (zero, false) when the key is absent or
// the entry's age has reached the TTL; an expired entry is never returned.
func (s *MemoryStore[V]) Get(_ context.Context, key string) (V, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}

	if s.config.Now().Sub(e.storedAt) >= s.config.TTL {
		// Expired - clean up lazily. Re-check under the write lock so a
		// concurrent Put is not dropped.
		s.mu.Lock()
		if cur, ok := s.entries[key]; ok && cur.storedAt.Equal(e.storedAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return zero, false
	}

	return e.value, true
}

// Put stores a value stamped with the current time, overwriting any
// previous entry for the key.
func (s *MemoryStore[V]) Put(_ context.Context, key string, value V) error {
	s.mu.Lock()
	s.entries[key] = entry[V]{value: value, storedAt: s.config.Now()}
	s.mu.Unlock()
	return nil
}

// Sweep removes every expired entry and returns how many were removed.
func (s *MemoryStore[V]) Sweep() int {
	now := s.config.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.entries {
		if now.Sub(e.storedAt) >= s.config.TTL {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of physically present entries, expired or not.
func (s *MemoryStore[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Ensure MemoryStore implements Store
var _ Store[int] = (*MemoryStore[int])(nil)
