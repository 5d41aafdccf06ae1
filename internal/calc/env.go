// Package calc holds what every calculation tool shares: the read-only
// environment built at start-up, request validation and timing metrics.
package calc

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"Radviz/internal/physics"
	"Radviz/internal/physics/material"
	"Radviz/internal/physics/stopping"
	"Radviz/internal/physics/xsec"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Env is built once in main and shared read-only by all requests.
type Env struct {
	Materials    *material.Table
	Coefficients xsec.Coefficients
	Proton       stopping.Options
}

// DefaultEnv uses the built-in table and default coefficients.
func DefaultEnv() *Env {
	return &Env{
		Materials:    material.Default,
		Coefficients: xsec.DefaultCoefficients(),
		Proton:       stopping.DefaultOptions(),
	}
}

// Material resolves a request's material key, using c when key is "custom".
func (e *Env) Material(key string, c material.Custom) (material.Material, error) {
	return e.Materials.Resolve(material.Choose(key, c))
}

// Compare resolves the optional comparison material; ok is false when key
// is empty.
func (e *Env) Compare(key string, c material.Custom) (m material.Material, ok bool, err error) {
	if strings.TrimSpace(key) == "" {
		return material.Material{}, false, nil
	}
	m, err = e.Material(key, c)
	return m, err == nil, err
}

var validate = validator.New()

// Validate checks struct tags and reports failures as physics.ErrValidation.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("%w: %s", physics.ErrValidation, strings.Join(msgs, "; "))
	}
	return fmt.Errorf("%w: %v", physics.ErrValidation, err)
}

var calcDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "radviz_calc_duration_seconds",
	Help:    "Time spent computing a result series",
	Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1},
}, []string{"tool", "mode"})

// Observe records how long a calculation took.
func Observe(tool, mode string, start time.Time) {
	calcDuration.WithLabelValues(tool, mode).Observe(time.Since(start).Seconds())
}

// Or returns *p, or def when p is nil.
func Or[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
