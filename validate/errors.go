package validate

import "fmt"

// ValidationError reports a rejected input along with the failing field.
// Callers branch on the category with errors.As; the field and reason are
// safe to surface to clients.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validate: %s %s", e.Field, e.Reason)
}

func newError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
