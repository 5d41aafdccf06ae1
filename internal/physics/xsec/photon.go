package xsec

import (
	"fmt"
	"math"

	"Radviz/internal/physics"
	"Radviz/internal/physics/material"
)

// Photoelectric returns the photoelectric mass attenuation coefficient
// (cm^2/g) at e MeV using the k·Z^n/E^p scaling.
func Photoelectric(e float64, m material.Material, c Coefficients) (float64, error) {
	if err := checkEnergy(e); err != nil {
		return 0, err
	}
	return finite(c.PhotoK*math.Pow(m.Z, c.PhotoZExp)/math.Pow(e, c.PhotoEExp), e)
}

// KleinNishina returns the total Compton cross-section per electron in cm^2.
func KleinNishina(e float64) (float64, error) {
	if err := checkEnergy(e); err != nil {
		return 0, err
	}
	k := e / ElectronMassMeV
	if k < 1e-4 {
		// Series around the Thomson limit; the closed form cancels badly here.
		return ThomsonCrossSection * (1 - 2*k + 5.2*k*k), nil
	}
	l := math.Log1p(2 * k)
	t1 := (1 + k) / (k * k) * (2*(1+k)/(1+2*k) - l/k)
	t2 := l / (2 * k)
	t3 := (1 + 3*k) / ((1 + 2*k) * (1 + 2*k))
	return 2 * math.Pi * ClassicalRadius * ClassicalRadius * (t1 + t2 - t3), nil
}

// KleinNishinaDifferential returns dσ/dΩ per electron (cm^2/sr) for a photon
// of e MeV scattered through theta radians.
func KleinNishinaDifferential(e, theta float64) (float64, error) {
	ratio, err := comptonRatio(e, theta)
	if err != nil {
		return 0, err
	}
	sin := math.Sin(theta)
	return 0.5 * ClassicalRadius * ClassicalRadius * ratio * ratio * (ratio + 1/ratio - sin*sin), nil
}

// ComptonScatteredEnergy returns the photon energy after scattering through
// theta radians.
func ComptonScatteredEnergy(e, theta float64) (float64, error) {
	ratio, err := comptonRatio(e, theta)
	if err != nil {
		return 0, err
	}
	return e * ratio, nil
}

func comptonRatio(e, theta float64) (float64, error) {
	if err := checkEnergy(e); err != nil {
		return 0, err
	}
	if theta < 0 || theta > math.Pi || math.IsNaN(theta) {
		return 0, fmt.Errorf("%w: scattering angle must be in [0, π] (got %v)", physics.ErrDomain, theta)
	}
	return 1 / (1 + e/ElectronMassMeV*(1-math.Cos(theta))), nil
}

// Compton returns the Compton mass attenuation coefficient (cm^2/g).
func Compton(e float64, m material.Material) (float64, error) {
	sigma, err := KleinNishina(e)
	if err != nil {
		return 0, err
	}
	return sigma * Avogadro * m.ZOverA(), nil
}

// PairAtomic returns the Bethe–Heitler pair production cross-section per atom
// in the nuclear field (cm^2). It is exactly zero at and below 1.022 MeV.
func PairAtomic(e, z float64) (float64, error) {
	if err := checkEnergy(e); err != nil {
		return 0, err
	}
	if e <= PairThresholdMeV {
		return 0, nil
	}
	k := e / ElectronMassMeV
	x := (e - PairThresholdMeV) / e
	near := 2 * math.Pi / 3 * x * x * x
	unscreened := 28.0/9*math.Log(2*k) - 218.0/27
	screened := 28.0/9*math.Log(183/math.Cbrt(z)) - 2.0/27
	f := math.Min(math.Max(near, unscreened), screened)
	return FineStructure * ClassicalRadius * ClassicalRadius * z * z * f, nil
}

// PairProduction returns the pair production mass attenuation coefficient
// (cm^2/g).
func PairProduction(e float64, m material.Material) (float64, error) {
	sigma, err := PairAtomic(e, m.Z)
	if err != nil {
		return 0, err
	}
	return sigma * Avogadro / m.A, nil
}

// Components is one value per interaction process plus their sum.
type Components struct {
	Photoelectric float64 `json:"photoelectric"`
	Compton       float64 `json:"compton"`
	Pair          float64 `json:"pair"`
	Total         float64 `json:"total"`
}

func (c Components) scale(f float64) Components {
	return Components{
		Photoelectric: c.Photoelectric * f,
		Compton:       c.Compton * f,
		Pair:          c.Pair * f,
		Total:         c.Total * f,
	}
}

// Attenuation holds mass (cm^2/g) and linear (1/cm) coefficients at one
// energy.
type Attenuation struct {
	EnergyMeV float64    `json:"energy_mev"`
	Mass      Components `json:"mass"`
	Linear    Components `json:"linear"`
}

// Attenuate evaluates all photon processes for m at e MeV.
func Attenuate(e float64, m material.Material, c Coefficients) (Attenuation, error) {
	if !(m.Density > 0) {
		return Attenuation{}, fmt.Errorf("%w: density must be positive (got %v)", physics.ErrValidation, m.Density)
	}
	pe, err := Photoelectric(e, m, c)
	if err != nil {
		return Attenuation{}, err
	}
	co, err := Compton(e, m)
	if err != nil {
		return Attenuation{}, err
	}
	pp, err := PairProduction(e, m)
	if err != nil {
		return Attenuation{}, err
	}
	mass := Components{Photoelectric: pe, Compton: co, Pair: pp, Total: pe + co + pp}
	return Attenuation{EnergyMeV: e, Mass: mass, Linear: mass.scale(m.Density)}, nil
}

// Dominant names the process with the largest contribution.
func (c Components) Dominant() string {
	name, best := "photoelectric", c.Photoelectric
	if c.Compton > best {
		name, best = "compton", c.Compton
	}
	if c.Pair > best {
		name = "pair"
	}
	return name
}

// Transmission is the narrow-beam fraction exp(-μx) surviving a slab of
// thickness x cm.
func Transmission(mu, x float64) float64 {
	return math.Exp(-mu * x)
}

// HalfValueLayer returns ln2/μ in cm.
func HalfValueLayer(mu float64) (float64, error) {
	if !(mu > 0) || math.IsInf(mu, 0) {
		return 0, fmt.Errorf("%w: attenuation coefficient must be positive (got %v)", physics.ErrDomain, mu)
	}
	return math.Ln2 / mu, nil
}
