package stopping

import (
	"fmt"
	"math"

	"Radviz/internal/physics"
	"Radviz/internal/physics/material"
)

// HighlandTheta0 returns the RMS projected multiple-scattering angle (rad)
// after z cm of m for a proton of t0 MeV. Energy loss along the path is
// ignored.
func HighlandTheta0(z, t0 float64, m material.Material) (float64, error) {
	if z < 0 || math.IsNaN(z) || math.IsInf(z, 0) {
		return 0, fmt.Errorf("%w: depth must be non-negative and finite (got %v)", physics.ErrDomain, z)
	}
	if !(m.Density > 0) {
		return 0, fmt.Errorf("%w: density must be positive (got %v)", physics.ErrValidation, m.Density)
	}
	beta, _, err := BetaGamma(t0)
	if err != nil {
		return 0, err
	}
	pc, err := Momentum(t0)
	if err != nil {
		return 0, err
	}
	if z == 0 {
		return 0, nil
	}
	t := z * m.Density / m.RadiationLength()
	corr := math.Max(1+0.038*math.Log(t), 0)
	return 13.6 / (beta * pc) * math.Sqrt(t) * corr, nil
}

// LateralSigma returns the lateral beam spread σ (cm) at depth z.
func LateralSigma(z, t0 float64, m material.Material) (float64, error) {
	theta, err := HighlandTheta0(z, t0, m)
	if err != nil {
		return 0, err
	}
	return theta * z / math.Sqrt(3), nil
}

// StoppingCurve evaluates the mass stopping power on energies.
func StoppingCurve(energies []float64, m material.Material) ([]float64, error) {
	out := make([]float64, len(energies))
	for i, e := range energies {
		s, err := MassStoppingPower(e, m)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// LateralCurve evaluates LateralSigma on depths.
func LateralCurve(depths []float64, t0 float64, m material.Material) ([]float64, error) {
	out := make([]float64, len(depths))
	for i, z := range depths {
		s, err := LateralSigma(z, t0, m)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}
