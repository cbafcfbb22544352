package health

import "fmt"

// State is the verdict for one connection.
type State int

const (
	// StateUnknown means a connection exists but this cycle could not
	// verify it: the live test failed or timed out.
	StateUnknown State = iota
	// StateHealthy means the connection is established and the live test
	// confirmed it.
	StateHealthy
	// StateUnhealthy means no connection is established, or the live test
	// reported it unreachable.
	StateUnhealthy
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateHealthy:
		return "healthy"
	case StateUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the wire form of the verdict: true for healthy,
// false for unhealthy, null when unverified.
func (s State) MarshalJSON() ([]byte, error) {
	switch s {
	case StateHealthy:
		return []byte("true"), nil
	case StateUnhealthy:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON parses the wire form back into a State.
func (s *State) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "true":
		*s = StateHealthy
	case "false":
		*s = StateUnhealthy
	case "null":
		*s = StateUnknown
	default:
		return fmt.Errorf("health: invalid state %q", string(data))
	}
	return nil
}
