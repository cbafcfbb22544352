package secret

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// refScheme marks a value as a secret reference.
const refScheme = "secretref:"

// Resolver turns configuration values into their final form. Values carrying
// the "secretref:" scheme are fetched from a registered provider; everything
// else passes through after strict environment expansion.
type Resolver struct {
	providers map[string]Provider
	strict    bool
}

// NewResolver builds a resolver over the given providers. Nil entries are
// skipped. With strict set, providers may not return empty secrets.
func NewResolver(strict bool, providers ...Provider) *Resolver {
	r := &Resolver{
		providers: make(map[string]Provider, len(providers)),
		strict:    strict,
	}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// Register adds or replaces a provider under its name.
func (r *Resolver) Register(provider Provider) {
	if r == nil || provider == nil {
		return
	}
	if r.providers == nil {
		r.providers = make(map[string]Provider)
	}
	r.providers[provider.Name()] = provider
}

// ResolveValue expands environment variables in value and fetches any secret
// references it contains. A nil resolver still expands the environment.
func (r *Resolver) ResolveValue(ctx context.Context, value string) (string, error) {
	expanded, err := ExpandEnvStrict(value)
	if err != nil {
		return "", err
	}
	if r == nil {
		return expanded, nil
	}

	if name, ref, ok := ParseSecretRef(expanded); ok {
		return r.lookup(ctx, name, ref)
	}
	return r.expandInline(ctx, expanded)
}

// ResolveSlice applies ResolveValue to every element of values.
func (r *Resolver) ResolveSlice(ctx context.Context, values []string) ([]string, error) {
	out := make([]string, len(values))
	for i, v := range values {
		resolved, err := r.ResolveValue(ctx, v)
		if err != nil {
			return nil, err
		}
		out[i] = resolved
	}
	return out, nil
}

// ParseSecretRef splits a value of the form secretref:<provider>:<ref> into
// its provider and ref parts. ok is false when value is not a reference or
// either part is empty.
func ParseSecretRef(value string) (provider string, ref string, ok bool) {
	rest, found := strings.CutPrefix(value, refScheme)
	if !found {
		return "", "", false
	}
	provider, ref, found = strings.Cut(rest, ":")
	if !found || provider == "" || ref == "" {
		return "", "", false
	}
	return provider, ref, true
}

func (r *Resolver) lookup(ctx context.Context, providerName, ref string) (string, error) {
	switch {
	case strings.TrimSpace(providerName) == "":
		return "", errors.New("secret: provider name is required")
	case strings.TrimSpace(ref) == "":
		return "", errors.New("secret: ref is required")
	}

	p := r.providers[providerName]
	if p == nil {
		return "", fmt.Errorf("secret: provider %q is not registered", providerName)
	}

	value, err := p.Resolve(ctx, ref)
	if err != nil {
		return "", err
	}
	if r.strict && value == "" {
		return "", fmt.Errorf("secret: provider %q returned empty value", providerName)
	}
	return value, nil
}

var inlineRefPattern = regexp.MustCompile(`secretref:([^:\s]+):([^\s]+)`)

// expandInline replaces every secret reference embedded in a larger string,
// such as a bearer token inside a header value.
func (r *Resolver) expandInline(ctx context.Context, value string) (string, error) {
	locs := inlineRefPattern.FindAllStringSubmatchIndex(value, -1)
	if len(locs) == 0 {
		return value, nil
	}

	var b strings.Builder
	last := 0
	for _, loc := range locs {
		resolved, err := r.lookup(ctx, value[loc[2]:loc[3]], value[loc[4]:loc[5]])
		if err != nil {
			return "", err
		}
		b.WriteString(value[last:loc[0]])
		b.WriteString(resolved)
		last = loc[1]
	}
	b.WriteString(value[last:])
	return b.String(), nil
}
