package jobshop

import "fmt"

// ValidationError is returned when a precondition is violated: an
// ineligible machine, a double-scheduled operation, an infeasible start
// time, an unsupported feature type, or a duplicate singleton observer.
// Validation errors are synchronous and local; nothing is retried and no
// partial state change survives them.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Message
}

// NewValidationError creates a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// UninitializedAttributeError is returned when an accessor is used before
// its prerequisite configuration or subscription happened. It signals a
// usage-order bug in the caller, not a data problem.
type UninitializedAttributeError struct {
	Attribute string
	Hint      string
}

func (e *UninitializedAttributeError) Error() string {
	if e.Hint == "" {
		return fmt.Sprintf("attribute %q has not been initialized", e.Attribute)
	}
	return fmt.Sprintf("attribute %q has not been initialized: %s", e.Attribute, e.Hint)
}
