package health

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/localloop/connhealth/secret"
	"github.com/localloop/connhealth/validate"
)

// clearSettingsEnv pins every CONNHEALTH_ variable to empty so ambient
// environment never leaks into a test.
func clearSettingsEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONNHEALTH_BEARER_SECRET",
		"CONNHEALTH_ISSUER",
		"CONNHEALTH_AUDIENCE",
		"CONNHEALTH_REDIS_URL",
		"CONNHEALTH_SNAPSHOT_TTL",
		"CONNHEALTH_ALLOWED_REDIRECT_ORIGINS",
	} {
		t.Setenv(key, "")
	}
}

func TestSettingsFromEnv_Minimal(t *testing.T) {
	clearSettingsEnv(t)
	t.Setenv("CONNHEALTH_BEARER_SECRET", "local-signing-key")

	settings, err := SettingsFromEnv(context.Background(), nil)
	if err != nil {
		t.Fatalf("SettingsFromEnv() error = %v", err)
	}

	if string(settings.BearerSecret) != "local-signing-key" {
		t.Errorf("BearerSecret = %q, want %q", settings.BearerSecret, "local-signing-key")
	}
	if settings.Issuer != "" || settings.Audience != "" {
		t.Errorf("Issuer = %q, Audience = %q, want both empty", settings.Issuer, settings.Audience)
	}
	if settings.RedisURL != "" {
		t.Errorf("RedisURL = %q, want empty", settings.RedisURL)
	}
	if settings.SnapshotTTL != 0 {
		t.Errorf("SnapshotTTL = %v, want 0", settings.SnapshotTTL)
	}
	if settings.RedirectPolicy.Allows("https://app.localloop.dev") {
		t.Errorf("RedirectPolicy allows an origin with none configured")
	}
}

func TestSettingsFromEnv_MissingBearer(t *testing.T) {
	clearSettingsEnv(t)

	_, err := SettingsFromEnv(context.Background(), nil)
	if !errors.Is(err, ErrMissingBearerSecret) {
		t.Errorf("SettingsFromEnv() error = %v, want %v", err, ErrMissingBearerSecret)
	}
}

func TestSettingsFromEnv_SecretRef(t *testing.T) {
	clearSettingsEnv(t)
	t.Setenv("CONNHEALTH_BEARER_SECRET", "secretref:static:signing-key")

	resolver := secret.NewResolver(true, secret.NewStaticProvider("static", map[string]string{
		"signing-key": "vaulted-secret",
	}))

	settings, err := SettingsFromEnv(context.Background(), resolver)
	if err != nil {
		t.Fatalf("SettingsFromEnv() error = %v", err)
	}
	if string(settings.BearerSecret) != "vaulted-secret" {
		t.Errorf("BearerSecret = %q, want %q", settings.BearerSecret, "vaulted-secret")
	}
}

func TestSettingsFromEnv_Expansion(t *testing.T) {
	clearSettingsEnv(t)
	t.Setenv("CONNHEALTH_TEST_KEY", "expanded-secret")
	t.Setenv("CONNHEALTH_BEARER_SECRET", "${CONNHEALTH_TEST_KEY}")

	settings, err := SettingsFromEnv(context.Background(), nil)
	if err != nil {
		t.Fatalf("SettingsFromEnv() error = %v", err)
	}
	if string(settings.BearerSecret) != "expanded-secret" {
		t.Errorf("BearerSecret = %q, want %q", settings.BearerSecret, "expanded-secret")
	}
}

func TestSettingsFromEnv_ExpansionMissingVar(t *testing.T) {
	clearSettingsEnv(t)
	t.Setenv("CONNHEALTH_BEARER_SECRET", "${CONNHEALTH_TEST_KEY_NOT_SET}")

	if _, err := SettingsFromEnv(context.Background(), nil); err == nil {
		t.Errorf("SettingsFromEnv() error = nil, want strict expansion to fail")
	}
}

func TestSettingsFromEnv_FullConfig(t *testing.T) {
	clearSettingsEnv(t)
	t.Setenv("CONNHEALTH_BEARER_SECRET", "local-signing-key")
	t.Setenv("CONNHEALTH_ISSUER", "https://id.localloop.dev")
	t.Setenv("CONNHEALTH_AUDIENCE", "connhealth")
	t.Setenv("CONNHEALTH_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("CONNHEALTH_SNAPSHOT_TTL", "10m")
	t.Setenv("CONNHEALTH_ALLOWED_REDIRECT_ORIGINS", "https://app.localloop.dev, https://local-loop-qa.vercel.app")

	settings, err := SettingsFromEnv(context.Background(), nil)
	if err != nil {
		t.Fatalf("SettingsFromEnv() error = %v", err)
	}

	if settings.Issuer != "https://id.localloop.dev" {
		t.Errorf("Issuer = %q, want %q", settings.Issuer, "https://id.localloop.dev")
	}
	if settings.Audience != "connhealth" {
		t.Errorf("Audience = %q, want %q", settings.Audience, "connhealth")
	}
	if settings.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("RedisURL = %q, want %q", settings.RedisURL, "redis://localhost:6379/0")
	}
	if settings.SnapshotTTL != 10*time.Minute {
		t.Errorf("SnapshotTTL = %v, want %v", settings.SnapshotTTL, 10*time.Minute)
	}

	for _, origin := range []string{"https://app.localloop.dev", "https://local-loop-qa.vercel.app"} {
		if !settings.RedirectPolicy.Allows(origin) {
			t.Errorf("RedirectPolicy.Allows(%q) = false, want true", origin)
		}
	}
	if settings.RedirectPolicy.Allows("https://evil.example.com") {
		t.Errorf("RedirectPolicy allows an unlisted origin")
	}
	if _, err := validate.RedirectURL("https://app.localloop.dev/settings", settings.RedirectPolicy); err != nil {
		t.Errorf("RedirectURL() error = %v, want an allowed redirect to pass", err)
	}
}

func TestSettingsFromEnv_BadTTL(t *testing.T) {
	clearSettingsEnv(t)
	t.Setenv("CONNHEALTH_BEARER_SECRET", "local-signing-key")
	t.Setenv("CONNHEALTH_SNAPSHOT_TTL", "soon")

	_, err := SettingsFromEnv(context.Background(), nil)
	if err == nil {
		t.Fatalf("SettingsFromEnv() error = nil, want a parse failure")
	}
	if !strings.Contains(err.Error(), "CONNHEALTH_SNAPSHOT_TTL") {
		t.Errorf("error = %v, want it to name the offending variable", err)
	}
}

func TestSettings_SnapshotStore_Memory(t *testing.T) {
	settings := &Settings{SnapshotTTL: time.Minute}

	store, err := settings.SnapshotStore(context.Background())
	if err != nil {
		t.Fatalf("SnapshotStore() error = %v", err)
	}

	ctx := context.Background()
	if err := store.Put(ctx, testID, Snapshot{Connected: true, State: StateHealthy}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	snap, ok := store.Get(ctx, testID)
	if !ok {
		t.Fatalf("Get() ok = false, want true")
	}
	if !snap.Healthy() {
		t.Errorf("Healthy() = false, want true")
	}
}

func TestSettings_SnapshotStore_BadRedisURL(t *testing.T) {
	settings := &Settings{RedisURL: "not-a-redis-url"}

	if _, err := settings.SnapshotStore(context.Background()); err == nil {
		t.Errorf("SnapshotStore() error = nil, want a dial failure")
	}
}
