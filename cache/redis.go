package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures a Redis-backed store.
type RedisConfig struct {
	// Client is the connected go-redis client. Required.
	Client redis.UniversalClient

	// Prefix namespaces keys so several applications can share one
	// database. Default: "connhealth:"
	Prefix string

	// TTL bounds how long an entry can be read back, enforced server-side.
	// Default: 5 minutes
	TTL time.Duration
}

// RedisStore is a Redis-backed Store implementation for deployments where
// several replicas should share cached snapshots. Values are stored as
// JSON; expiry is delegated to the server's key TTL.
type RedisStore[V any] struct {
	config RedisConfig
}

// NewRedisStore creates a new Redis-backed store.
func NewRedisStore[V any](config RedisConfig) (*RedisStore[V], error) {
	if config.Client == nil {
		return nil, ErrNilClient
	}
	// Apply defaults
	if config.Prefix == "" {
		config.Prefix = "connhealth:"
	}
	if config.TTL <= 0 {
		config.TTL = DefaultTTL
	}

	return &RedisStore[V]{config: config}, nil
}

// Get retrieves a value. A missing key, an unreachable backend, and an
// undecodable payload all read as a miss; the caller recomputes.
func (s *RedisStore[V]) Get(ctx context.Context, key string) (V, bool) {
	var zero V

	raw, err := s.config.Client.Get(ctx, s.config.Prefix+key).Bytes()
	if err != nil {
		return zero, false
	}

	var value V
	if err := json.Unmarshal(raw, &value); err != nil {
		return zero, false
	}
	return value, true
}

// Put stores a value with the configured TTL, overwriting any previous
// entry for the key.
func (s *RedisStore[V]) Put(ctx context.Context, key string, value V) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	if err := s.config.Client.Set(ctx, s.config.Prefix+key, raw, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrBackend, err)
	}
	return nil
}

// DialRedis connects a standalone client for the given redis:// or
// rediss:// URL and verifies the connection with a ping.
func DialRedis(ctx context.Context, url string) (redis.UniversalClient, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("cache: parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("cache: ping redis: %w", err)
	}
	return client, nil
}

// Ensure RedisStore implements Store
var _ Store[int] = (*RedisStore[int])(nil)
