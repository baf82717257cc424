package analysis

import (
	"errors"
	"fmt"
)

// ErrJobNotFound is returned for unknown or evicted job ids.
var ErrJobNotFound = errors.New("analysis job not found")

// ValidationError is returned when a job cannot be started.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
