package resilience

import (
	"sync"
	"time"
)

// LimiterConfig configures a keyed fixed-window rate limiter.
type LimiterConfig struct {
	// MaxRequests is the number of admissions allowed per window.
	// Default: 5
	MaxRequests int

	// Window is the length of the counting window.
	// Default: 60 seconds
	Window time.Duration

	// Now overrides the clock. Intended for tests.
	Now func() time.Time
}

// StrictLimits returns the configuration for authentication-adjacent
// endpoints: 5 admissions per 60 seconds.
func StrictLimits() LimiterConfig {
	return LimiterConfig{MaxRequests: 5, Window: 60 * time.Second}
}

// OAuthLimits returns the configuration for OAuth-adjacent endpoints:
// 10 admissions per 300 seconds.
func OAuthLimits() LimiterConfig {
	return LimiterConfig{MaxRequests: 10, Window: 300 * time.Second}
}

type rateBucket struct {
	count       int64
	windowStart time.Time
	lastSeen    time.Time
}

// KeyedLimiter admits up to MaxRequests calls per key within a fixed
// window. Denied calls still count toward the window, so a caller that
// keeps hammering stays denied until its window resets.
type KeyedLimiter struct {
	config LimiterConfig

	mu      sync.Mutex
	buckets map[string]*rateBucket
}

// NewKeyedLimiter creates a new keyed limiter.
func NewKeyedLimiter(config LimiterConfig) *KeyedLimiter {
	// Apply defaults
	if config.MaxRequests <= 0 {
		config.MaxRequests = 5
	}
	if config.Window <= 0 {
		config.Window = 60 * time.Second
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	return &KeyedLimiter{
		config:  config,
		buckets: make(map[string]*rateBucket),
	}
}

// Allow records an attempt for key and reports whether it is admitted.
// The first call of a window always succeeds; the count increments on
// every call so each bucket has a single mutation point.
func (l *KeyedLimiter) Allow(key string) bool {
	now := l.config.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok || now.Sub(b.windowStart) > l.config.Window {
		l.buckets[key] = &rateBucket{count: 1, windowStart: now, lastSeen: now}
		return true
	}

	b.count++
	b.lastSeen = now
	return b.count <= int64(l.config.MaxRequests)
}

// RetryAfter reports how long key must wait for a fresh window. It returns
// zero when the next call would be admitted immediately.
func (l *KeyedLimiter) RetryAfter(key string) time.Duration {
	now := l.config.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok || b.count < int64(l.config.MaxRequests) {
		return 0
	}
	remaining := l.config.Window - now.Sub(b.windowStart)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Sweep removes buckets untouched for more than twice the window and
// returns how many were removed. Expired buckets are otherwise reset
// lazily on the next Allow, so Sweep only bounds memory.
func (l *KeyedLimiter) Sweep() int {
	now := l.config.Now()
	cutoff := 2 * l.config.Window

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) > cutoff {
			delete(l.buckets, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked buckets.
func (l *KeyedLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
