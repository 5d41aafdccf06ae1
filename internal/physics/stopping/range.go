package stopping

import (
	"fmt"
	"math"

	"Radviz/internal/physics"
	"Radviz/internal/physics/grid"
	"Radviz/internal/physics/integrate"
	"Radviz/internal/physics/material"
)

// Options tunes the numerical integration. Zero fields take defaults.
type Options struct {
	// Lower kinetic energy limit of the integration, MeV. Raised per
	// material to MinValidEnergy when that is higher.
	CutoffMeV float64 `json:"cutoff_mev" yaml:"cutoff_mev"`
	// Points of the log energy grid used for CSDA range.
	RangePoints int `json:"range_points" yaml:"range_points"`
	// Depth steps across the Bragg curve.
	BraggSteps int `json:"bragg_steps" yaml:"bragg_steps"`
	// Range straggling σ as a fraction of the CSDA range. Negative turns
	// smoothing off.
	StragglingFraction float64 `json:"straggling_fraction" yaml:"straggling_fraction"`
}

// Upper bounds on Options. Straggling widens the depth grid and the
// smoothing kernel together, so its cost grows with the square of the
// fraction.
const (
	MaxStragglingFraction = 0.1
	MaxBraggSteps         = 20000
	MaxRangePoints        = 20000
)

func DefaultOptions() Options {
	return Options{
		CutoffMeV:          0.1,
		RangePoints:        400,
		BraggSteps:         2000,
		StragglingFraction: 0.012,
	}
}

func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.CutoffMeV <= 0 {
		o.CutoffMeV = d.CutoffMeV
	}
	if o.RangePoints < 2 {
		o.RangePoints = d.RangePoints
	}
	if o.BraggSteps < 10 {
		o.BraggSteps = d.BraggSteps
	}
	if o.StragglingFraction == 0 {
		o.StragglingFraction = d.StragglingFraction
	}
	return o
}

// Validate checks o after WithDefaults.
func (o Options) Validate() error {
	if math.IsNaN(o.StragglingFraction) || o.StragglingFraction > MaxStragglingFraction {
		return fmt.Errorf("%w: straggling fraction must be at most %v (got %v)", physics.ErrValidation, MaxStragglingFraction, o.StragglingFraction)
	}
	if o.BraggSteps > MaxBraggSteps || o.RangePoints > MaxRangePoints {
		return fmt.Errorf("%w: at most %d Bragg steps and %d range points", physics.ErrValidation, MaxBraggSteps, MaxRangePoints)
	}
	if math.IsNaN(o.CutoffMeV) || math.IsInf(o.CutoffMeV, 0) {
		return fmt.Errorf("%w: cutoff energy must be finite", physics.ErrValidation)
	}
	return nil
}

func (o Options) cutoff(m material.Material) float64 {
	return math.Max(o.CutoffMeV, MinValidEnergy(m))
}

// CSDARange returns the continuous-slowing-down range in cm of a proton
// starting at t0 MeV: the trapezoid integral of 1/S over a log grid from
// the cutoff to t0, plus the residual range below the cutoff taken at
// constant stopping power.
func CSDARange(t0 float64, m material.Material, o Options) (float64, error) {
	o = o.WithDefaults()
	if err := o.Validate(); err != nil {
		return 0, err
	}
	if !(t0 > 0) || math.IsInf(t0, 0) {
		return 0, fmt.Errorf("%w: initial energy must be positive and finite (got %v)", physics.ErrDomain, t0)
	}
	cut := o.cutoff(m)
	sCut, err := LinearStoppingPower(cut, m)
	if err != nil {
		return 0, err
	}
	if t0 <= cut {
		return t0 / sCut, nil
	}

	e, err := grid.New(cut, t0, o.RangePoints, grid.Log)
	if err != nil {
		return 0, err
	}
	inv := make([]float64, len(e))
	for i, v := range e {
		s, err := LinearStoppingPower(v, m)
		if err != nil {
			return 0, err
		}
		inv[i] = 1 / s
	}
	r, err := integrate.Trapezoid(e, inv)
	if err != nil {
		return 0, fmt.Errorf("csda range for %s at %v MeV: %w", m.Key, t0, err)
	}
	return r + cut/sCut, nil
}

// RangeCurve evaluates CSDARange for every energy.
func RangeCurve(energies []float64, m material.Material, o Options) ([]float64, error) {
	out := make([]float64, len(energies))
	for i, e := range energies {
		r, err := CSDARange(e, m, o)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}
