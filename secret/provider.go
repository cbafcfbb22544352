package secret

import (
	"context"
	"fmt"
)

// Provider fetches secrets by reference.
//
// Implementations must tolerate concurrent callers and must never log the
// values they return.
type Provider interface {
	Name() string
	Resolve(ctx context.Context, ref string) (string, error)
	Close() error
}

// StaticProvider serves secrets from a fixed in-memory map.
//
// It backs tests and single-binary deployments where every secret is known
// at process start.
type StaticProvider struct {
	name   string
	values map[string]string
}

// NewStaticProvider creates a provider called name over a copy of values.
func NewStaticProvider(name string, values map[string]string) *StaticProvider {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return &StaticProvider{name: name, values: copied}
}

func (p *StaticProvider) Name() string { return p.name }

func (p *StaticProvider) Resolve(_ context.Context, ref string) (string, error) {
	value, ok := p.values[ref]
	if !ok {
		return "", fmt.Errorf("secret: provider %q has no entry for ref %q", p.name, ref)
	}
	return value, nil
}

func (p *StaticProvider) Close() error { return nil }

var _ Provider = (*StaticProvider)(nil)
