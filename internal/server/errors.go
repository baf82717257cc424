package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/brand-content-engine/internal/analysis"
	"github.com/jonathan/brand-content-engine/internal/generation"
	"github.com/jonathan/brand-content-engine/internal/templates"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		reqErr      *ErrValidation
		templateErr *templates.ValidationError
		genErr      *generation.ValidationError
		jobErr      *analysis.ValidationError
	)
	switch {
	case errors.Is(err, templates.ErrTenantNotFound), errors.Is(err, analysis.ErrJobNotFound):
		return http.StatusNotFound
	case errors.As(err, &reqErr), errors.As(err, &templateErr), errors.As(err, &genErr), errors.As(err, &jobErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
