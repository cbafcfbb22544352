package health

import "errors"

var (
	// ErrUpstream indicates the integration provider failed or timed out.
	ErrUpstream = errors.New("health: upstream provider failed")

	// ErrNotConnected indicates a refresh was requested for an identifier
	// with no usable connection.
	ErrNotConnected = errors.New("health: connection not established")

	// ErrNilProvider indicates a monitor was constructed without a provider.
	ErrNilProvider = errors.New("health: provider is nil")
)
