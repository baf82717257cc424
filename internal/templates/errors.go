package templates

import (
	"errors"
	"fmt"
)

// ErrTenantNotFound is returned when the tenant record does not exist.
var ErrTenantNotFound = errors.New("tenant not found")

// ValidationError represents a rejected template request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
