package health

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/localloop/connhealth/cache"
	"github.com/localloop/connhealth/secret"
	"github.com/localloop/connhealth/validate"
)

// ErrMissingBearerSecret indicates CONNHEALTH_BEARER_SECRET resolved to
// nothing.
var ErrMissingBearerSecret = errors.New("health: bearer secret is not configured")

// Settings is the environment-derived wiring for the health endpoints.
// Values come from CONNHEALTH_* variables, run through a secret.Resolver
// so deployments can use ${VAR} expansion and secretref indirection.
type Settings struct {
	// BearerSecret verifies caller tokens.
	BearerSecret []byte

	// Issuer is the expected token issuer. Optional.
	Issuer string

	// Audience is the expected token audience. Optional.
	Audience string

	// RedisURL, when set, backs the snapshot cache with Redis so several
	// replicas share verdicts. Empty keeps the in-memory default.
	RedisURL string

	// SnapshotTTL overrides the snapshot cache TTL. Zero keeps the default.
	SnapshotTTL time.Duration

	// RedirectPolicy holds the origins OAuth redirects may point at, from
	// CONNHEALTH_ALLOWED_REDIRECT_ORIGINS (comma-separated).
	RedirectPolicy validate.RedirectPolicy
}

// SettingsFromEnv assembles Settings from the environment:
//
//	CONNHEALTH_BEARER_SECRET            required; supports secretref
//	CONNHEALTH_ISSUER                   optional
//	CONNHEALTH_AUDIENCE                 optional
//	CONNHEALTH_REDIS_URL                optional; supports secretref
//	CONNHEALTH_SNAPSHOT_TTL             optional Go duration, e.g. "5m"
//	CONNHEALTH_ALLOWED_REDIRECT_ORIGINS optional comma-separated origins
//
// A nil resolver still performs strict ${VAR} expansion.
func SettingsFromEnv(ctx context.Context, resolver *secret.Resolver) (*Settings, error) {
	if resolver == nil {
		resolver = secret.NewResolver(true)
	}

	bearer, err := resolver.ResolveValue(ctx, os.Getenv("CONNHEALTH_BEARER_SECRET"))
	if err != nil {
		return nil, fmt.Errorf("health: CONNHEALTH_BEARER_SECRET: %w", err)
	}
	if bearer == "" {
		return nil, ErrMissingBearerSecret
	}

	redisURL, err := resolver.ResolveValue(ctx, os.Getenv("CONNHEALTH_REDIS_URL"))
	if err != nil {
		return nil, fmt.Errorf("health: CONNHEALTH_REDIS_URL: %w", err)
	}

	settings := &Settings{
		BearerSecret: []byte(bearer),
		Issuer:       os.Getenv("CONNHEALTH_ISSUER"),
		Audience:     os.Getenv("CONNHEALTH_AUDIENCE"),
		RedisURL:     redisURL,
	}

	if raw := os.Getenv("CONNHEALTH_SNAPSHOT_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("health: CONNHEALTH_SNAPSHOT_TTL: %w", err)
		}
		settings.SnapshotTTL = ttl
	}

	if raw := os.Getenv("CONNHEALTH_ALLOWED_REDIRECT_ORIGINS"); raw != "" {
		var origins []string
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		origins, err := resolver.ResolveSlice(ctx, origins)
		if err != nil {
			return nil, fmt.Errorf("health: CONNHEALTH_ALLOWED_REDIRECT_ORIGINS: %w", err)
		}
		settings.RedirectPolicy = validate.NewRedirectPolicy(origins...)
	}

	return settings, nil
}

// SnapshotStore builds the snapshot store the settings call for: Redis
// when a URL is configured, the in-memory store otherwise.
func (s *Settings) SnapshotStore(ctx context.Context) (cache.Store[Snapshot], error) {
	if s.RedisURL == "" {
		return cache.NewMemoryStore[Snapshot](cache.StoreConfig{TTL: s.SnapshotTTL}), nil
	}

	client, err := cache.DialRedis(ctx, s.RedisURL)
	if err != nil {
		return nil, err
	}
	return cache.NewRedisStore[Snapshot](cache.RedisConfig{
		Client: client,
		TTL:    s.SnapshotTTL,
	})
}
