package physics

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"range", fmt.Errorf("%w: emax <= emin", ErrInvalidRange), http.StatusBadRequest},
		{"domain", fmt.Errorf("%w: E <= 0", ErrDomain), http.StatusBadRequest},
		{"validation", ErrValidation, http.StatusBadRequest},
		{"numerical", fmt.Errorf("sum: %w", ErrNumerical), http.StatusBadRequest},
		{"unknown material", fmt.Errorf("%w: %q", ErrUnknownMaterial, "unobtainium"), http.StatusNotFound},
		{"other", errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
