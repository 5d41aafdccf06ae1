// Package physics holds the error taxonomy shared by the evaluators, the
// grid sampler, the integrator and the material table.
package physics

import (
	"errors"
	"net/http"
)

var (
	ErrInvalidRange    = errors.New("physics: invalid energy range")
	ErrDomain          = errors.New("physics: input outside formula domain")
	ErrUnknownMaterial = errors.New("physics: unknown material")
	ErrValidation      = errors.New("physics: validation error")
	ErrNumerical       = errors.New("physics: numerical error")
)

// HTTPStatus maps an error from this module tree to the status code the
// presentation layer answers with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnknownMaterial):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidRange),
		errors.Is(err, ErrDomain),
		errors.Is(err, ErrValidation),
		errors.Is(err, ErrNumerical):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
