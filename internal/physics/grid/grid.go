package grid

import (
	"fmt"
	"math"
	"strings"

	"Radviz/internal/physics"
)

type Scale string

const (
	Linear Scale = "linear"
	Log    Scale = "log"
)

// ParseScale accepts the spellings used by the web forms. Empty input
// yields def.
func ParseScale(s string, def Scale) (Scale, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return def, nil
	case "linear", "lin":
		return Linear, nil
	case "log", "logarithmic":
		return Log, nil
	}
	return "", fmt.Errorf("%w: unknown scale %q", physics.ErrValidation, s)
}

// New samples n energies covering [emin, emax], evenly spaced in linear or
// logarithmic space. The first and last values are exactly emin and emax.
func New(emin, emax float64, n int, scale Scale) ([]float64, error) {
	if !(emin > 0) || !(emax > 0) || math.IsInf(emin, 0) || math.IsInf(emax, 0) {
		return nil, fmt.Errorf("%w: bounds must be positive and finite (emin=%v, emax=%v)", physics.ErrInvalidRange, emin, emax)
	}
	if emax <= emin {
		return nil, fmt.Errorf("%w: emax (%v) must exceed emin (%v)", physics.ErrInvalidRange, emax, emin)
	}
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 points (got %d)", physics.ErrInvalidRange, n)
	}

	switch scale {
	case Log:
		lo, hi := math.Log(emin), math.Log(emax)
		step := (hi - lo) / float64(n-1)
		out := make([]float64, n)
		for i := range out {
			out[i] = math.Exp(lo + float64(i)*step)
		}
		out[0], out[n-1] = emin, emax
		return out, nil
	case Linear, "":
		return Linspace(emin, emax, n), nil
	}
	return nil, fmt.Errorf("%w: unknown scale %q", physics.ErrValidation, scale)
}

// Linspace returns n evenly spaced values from a to b inclusive. Unlike New
// it accepts a zero start, which depth grids need.
func Linspace(a, b float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{a}
	}
	out := make([]float64, n)
	step := (b - a) / float64(n-1)
	for i := range out {
		out[i] = a + float64(i)*step
	}
	out[n-1] = b
	return out
}
