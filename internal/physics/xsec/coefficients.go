// Package xsec evaluates photon interaction cross-sections and attenuation
// coefficients. The models are teaching approximations; the empirical
// coefficients live in Coefficients so deployments can tune them.
package xsec

import (
	"fmt"
	"math"

	"Radviz/internal/physics"
)

const (
	ElectronMassMeV  = 0.51099895       // m_e c^2
	ClassicalRadius  = 2.8179403262e-13 // r_e in cm
	FineStructure    = 1 / 137.035999084
	Avogadro         = 6.02214076e23
	PairThresholdMeV = 1.022
	barn             = 1e-24 // cm^2
)

// ThomsonCrossSection is the low-energy limit of Klein–Nishina, in cm^2.
var ThomsonCrossSection = 8 * math.Pi / 3 * ClassicalRadius * ClassicalRadius

// Coefficients holds the empirical constants of the simplified models.
type Coefficients struct {
	// Photoelectric mass attenuation k * Z^ZExp / E^EExp, E in MeV, cm^2/g.
	PhotoK    float64 `json:"photo_k" yaml:"photo_k"`
	PhotoZExp float64 `json:"photo_z_exp" yaml:"photo_z_exp"`
	PhotoEExp float64 `json:"photo_e_exp" yaml:"photo_e_exp"`

	// Fractions of the photoelectric strength left below the K and L edges
	// in the relative x-ray model.
	KJump float64 `json:"k_jump" yaml:"k_jump"`
	LJump float64 `json:"l_jump" yaml:"l_jump"`
}

func DefaultCoefficients() Coefficients {
	return Coefficients{
		PhotoK:    7e-9,
		PhotoZExp: 3,
		PhotoEExp: 3,
		KJump:     0.15,
		LJump:     0.05,
	}
}

// WithDefaults fills zero fields from DefaultCoefficients.
func (c Coefficients) WithDefaults() Coefficients {
	d := DefaultCoefficients()
	if c.PhotoK == 0 {
		c.PhotoK = d.PhotoK
	}
	if c.PhotoZExp == 0 {
		c.PhotoZExp = d.PhotoZExp
	}
	if c.PhotoEExp == 0 {
		c.PhotoEExp = d.PhotoEExp
	}
	if c.KJump == 0 {
		c.KJump = d.KJump
	}
	if c.LJump == 0 {
		c.LJump = d.LJump
	}
	return c
}

func (c Coefficients) Validate() error {
	if !(c.PhotoK > 0) || !(c.PhotoZExp > 0) || !(c.PhotoEExp > 0) {
		return fmt.Errorf("%w: photoelectric coefficients must be positive", physics.ErrValidation)
	}
	if !(c.KJump > 0 && c.KJump <= 1) || !(c.LJump > 0 && c.LJump <= 1) {
		return fmt.Errorf("%w: edge jump factors must be in (0, 1]", physics.ErrValidation)
	}
	return nil
}

// finite rejects results that overflowed at extreme energies.
func finite(v, e float64) (float64, error) {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%w: result is not finite at E=%v", physics.ErrDomain, e)
	}
	return v, nil
}

func checkEnergy(e float64) error {
	if !(e > 0) || math.IsInf(e, 0) {
		return fmt.Errorf("%w: photon energy must be positive and finite (got %v)", physics.ErrDomain, e)
	}
	return nil
}
