// Package stopping implements proton energy loss in matter: Bethe–Bloch
// stopping power, CSDA range, depth-dose (Bragg) curves and Highland
// multiple-scattering spread.
package stopping

import (
	"fmt"
	"math"

	"Radviz/internal/physics"
	"Radviz/internal/physics/material"
)

const (
	KBethe          = 0.307075   // 4π N_A r_e² m_e c², MeV cm²/mol
	ElectronMassMeV = 0.51099895 // m_e c^2
	ProtonMassMeV   = 938.272088 // m_p c^2
)

// BetaGamma returns the relativistic β and γ of a proton with kinetic
// energy t MeV.
func BetaGamma(t float64) (beta, gamma float64, err error) {
	if !(t > 0) || math.IsInf(t, 0) {
		return 0, 0, fmt.Errorf("%w: kinetic energy must be positive and finite (got %v)", physics.ErrDomain, t)
	}
	gamma = 1 + t/ProtonMassMeV
	beta2 := 1 - 1/(gamma*gamma)
	if beta2 >= 1 {
		return 0, 0, fmt.Errorf("%w: β >= 1 at T=%v MeV", physics.ErrDomain, t)
	}
	return math.Sqrt(beta2), gamma, nil
}

// Momentum returns pc in MeV.
func Momentum(t float64) (float64, error) {
	beta, gamma, err := BetaGamma(t)
	if err != nil {
		return 0, err
	}
	return ProtonMassMeV * gamma * beta, nil
}

// WMax is the largest energy transfer to a free electron in one collision.
func WMax(t float64) (float64, error) {
	beta, gamma, err := BetaGamma(t)
	if err != nil {
		return 0, err
	}
	r := ElectronMassMeV / ProtonMassMeV
	bg2 := beta * beta * gamma * gamma
	return 2 * ElectronMassMeV * bg2 / (1 + 2*gamma*r + r*r), nil
}

// MassStoppingPower returns the Bethe–Bloch mass electronic stopping power
// in MeV cm²/g, without shell or density-effect corrections. Below the
// energy where the logarithm turns negative the result is clamped to 0.
func MassStoppingPower(t float64, m material.Material) (float64, error) {
	beta, gamma, err := BetaGamma(t)
	if err != nil {
		return 0, err
	}
	if !(m.IeV > 0) || !(m.A > 0) {
		return 0, fmt.Errorf("%w: material %q needs positive A and I", physics.ErrValidation, m.Key)
	}
	wmax, err := WMax(t)
	if err != nil {
		return 0, err
	}
	b2 := beta * beta
	i := m.IMeV()
	arg := 2 * ElectronMassMeV * b2 * gamma * gamma * wmax / (i * i)
	s := KBethe * m.ZOverA() / b2 * (0.5*math.Log(arg) - b2)
	return math.Max(s, 0), nil
}

// LinearStoppingPower returns -dT/dx in MeV/cm.
func LinearStoppingPower(t float64, m material.Material) (float64, error) {
	if !(m.Density > 0) {
		return 0, fmt.Errorf("%w: density must be positive (got %v)", physics.ErrValidation, m.Density)
	}
	s, err := MassStoppingPower(t, m)
	if err != nil {
		return 0, err
	}
	return s * m.Density, nil
}

// MinValidEnergy is a rough floor below which the uncorrected Bethe formula
// should not be trusted for m: three times the energy where it crosses zero.
func MinValidEnergy(m material.Material) float64 {
	return 3 * ProtonMassMeV * m.IMeV() / (4 * ElectronMassMeV)
}
