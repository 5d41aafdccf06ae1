package stopping

import (
	"fmt"
	"math"

	"Radviz/internal/physics"
	"Radviz/internal/physics/grid"
	"Radviz/internal/physics/material"
)

// Bragg is a depth-dose curve for a monoenergetic proton pencil beam.
type Bragg struct {
	Depth       []float64 `json:"depth_cm"`
	Dose        []float64 `json:"dose_rel"`    // 1 at the peak
	EnergyLoss  []float64 `json:"energy_loss"` // MeV/cm per proton
	RangeCM     float64   `json:"range_cm"`    // CSDA
	PeakDepthCM float64   `json:"peak_depth_cm"`
}

// BraggCurve steps a proton through m with midpoint energy loss, resamples
// the local stopping power onto a uniform depth grid that runs past the
// range, and folds in Gaussian range straggling.
func BraggCurve(t0 float64, m material.Material, o Options) (Bragg, error) {
	o = o.WithDefaults()
	if err := o.Validate(); err != nil {
		return Bragg{}, err
	}
	rng, err := CSDARange(t0, m, o)
	if err != nil {
		return Bragg{}, err
	}
	x, s, err := track(t0, m, o, rng/float64(o.BraggSteps))
	if err != nil {
		return Bragg{}, err
	}

	sigma := math.Max(o.StragglingFraction, 0) * rng
	n := o.BraggSteps + 1
	end := rng
	if sigma > 0 {
		end += 4 * sigma
		n += int(math.Ceil(4 * sigma / rng * float64(o.BraggSteps)))
	}
	depth := grid.Linspace(0, end, n)
	loss := make([]float64, n)
	for i, z := range depth {
		loss[i] = interp(x, s, z)
	}
	if sigma > 0 {
		loss = gaussianFilter(loss, sigma/(depth[1]-depth[0]))
	}

	peak := argmax(loss)
	if loss[peak] <= 0 {
		return Bragg{}, fmt.Errorf("%w: empty depth-dose curve", physics.ErrNumerical)
	}
	dose := make([]float64, n)
	for i, v := range loss {
		dose[i] = v / loss[peak]
	}
	return Bragg{
		Depth:       depth,
		Dose:        dose,
		EnergyLoss:  loss,
		RangeCM:     rng,
		PeakDepthCM: depth[peak],
	}, nil
}

// track returns (depth, local stopping power) pairs from the surface to the
// end of range. The last point is where the residual range below the
// cutoff runs out and carries zero.
func track(t0 float64, m material.Material, o Options, dx float64) ([]float64, []float64, error) {
	cut := o.cutoff(m)
	s0, err := LinearStoppingPower(t0, m)
	if err != nil {
		return nil, nil, err
	}
	xs := []float64{0}
	ss := []float64{s0}
	if t0 <= cut {
		return append(xs, t0/s0), append(ss, 0), nil
	}

	t, z := t0, 0.0
	for iter := 0; t > cut; iter++ {
		if iter > 10*o.BraggSteps {
			return nil, nil, fmt.Errorf("%w: proton tracking did not converge", physics.ErrNumerical)
		}
		s1, err := LinearStoppingPower(t, m)
		if err != nil {
			return nil, nil, err
		}
		tm := t - 0.5*s1*dx
		if tm <= cut {
			z += (t - cut) / s1
			t = cut
		} else {
			s2, err := LinearStoppingPower(tm, m)
			if err != nil {
				return nil, nil, err
			}
			next := t - s2*dx
			if next < cut {
				z += (t - cut) / s2
				t = cut
			} else {
				z += dx
				t = next
			}
		}
		s, err := LinearStoppingPower(t, m)
		if err != nil {
			return nil, nil, err
		}
		xs = append(xs, z)
		ss = append(ss, s)
	}
	return append(xs, z+cut/ss[len(ss)-1]), append(ss, 0), nil
}

// interp linearly interpolates (x, y) at z; zero outside the samples.
func interp(x, y []float64, z float64) float64 {
	if len(x) == 0 || z < x[0] || z > x[len(x)-1] {
		return 0
	}
	lo, hi := 0, len(x)-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if x[mid] <= z {
			lo = mid
		} else {
			hi = mid
		}
	}
	if x[hi] == x[lo] {
		return y[lo]
	}
	f := (z - x[lo]) / (x[hi] - x[lo])
	return y[lo] + f*(y[hi]-y[lo])
}

// gaussianFilter smooths data with a normalised Gaussian of width sigma
// samples, padding both ends with the nearest value.
func gaussianFilter(data []float64, sigma float64) []float64 {
	if sigma <= 0 || len(data) == 0 {
		return data
	}
	half := int(math.Ceil(3 * sigma))
	kernel := make([]float64, 2*half+1)
	sum := 0.0
	for i := range kernel {
		d := float64(i - half)
		kernel[i] = math.Exp(-(d * d) / (2 * sigma * sigma))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}

	out := make([]float64, len(data))
	for i := range data {
		v := 0.0
		for j, k := range kernel {
			idx := i + j - half
			if idx < 0 {
				idx = 0
			} else if idx >= len(data) {
				idx = len(data) - 1
			}
			v += data[idx] * k
		}
		out[i] = v
	}
	return out
}

func argmax(v []float64) int {
	best := 0
	for i := range v {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}
