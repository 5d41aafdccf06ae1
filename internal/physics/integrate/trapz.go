package integrate

import (
	"fmt"
	"math"

	"Radviz/internal/physics"
)

// Trapezoid integrates samples y taken at ascending abscissae x.
func Trapezoid(x, y []float64) (float64, error) {
	if err := check(x, y); err != nil {
		return 0, err
	}
	sum := 0.0
	for i := 1; i < len(x); i++ {
		sum += (y[i-1] + y[i]) * (x[i] - x[i-1]) / 2
	}
	if math.IsNaN(sum) || math.IsInf(sum, 0) {
		return 0, fmt.Errorf("%w: integral overflowed", physics.ErrNumerical)
	}
	return sum, nil
}

// Cumulative returns the running trapezoid integral, starting at 0.
func Cumulative(x, y []float64) ([]float64, error) {
	if err := check(x, y); err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	for i := 1; i < len(x); i++ {
		out[i] = out[i-1] + (y[i-1]+y[i])*(x[i]-x[i-1])/2
		if math.IsInf(out[i], 0) {
			return nil, fmt.Errorf("%w: integral overflowed at sample %d", physics.ErrNumerical, i)
		}
	}
	return out, nil
}

func check(x, y []float64) error {
	if len(x) != len(y) {
		return fmt.Errorf("%w: %d abscissae for %d samples", physics.ErrValidation, len(x), len(y))
	}
	if len(x) < 2 {
		return fmt.Errorf("%w: need at least 2 samples (got %d)", physics.ErrValidation, len(x))
	}
	for i := range x {
		if !finite(x[i]) || !finite(y[i]) {
			return fmt.Errorf("%w: non-finite sample at index %d (x=%v, y=%v)", physics.ErrNumerical, i, x[i], y[i])
		}
		if i > 0 && x[i] <= x[i-1] {
			return fmt.Errorf("%w: abscissae not ascending at index %d", physics.ErrInvalidRange, i)
		}
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
