package xsec

import (
	"math"

	"Radviz/internal/physics/material"
)

// The diagnostic x-ray models work in keV and return relative strengths
// (arbitrary units, density-weighted). They are meant to be compared with
// each other, usually after Normalize.

// PhotoelectricRel ~ Z^3/E^3.5·ρ with absorption edge jumps. Below the
// L-edge only LJump of the strength remains; between L and K only KJump.
func PhotoelectricRel(eKeV float64, m material.Material, c Coefficients) (float64, error) {
	if err := checkEnergy(eKeV); err != nil {
		return 0, err
	}
	v := m.Z * m.Z * m.Z / math.Pow(eKeV, 3.5)
	kEdge, hasK := m.KEdge()
	lEdge, hasL := m.LEdge()
	switch {
	case hasL && eKeV < lEdge:
		v *= c.LJump
	case hasK && eKeV < kEdge:
		v *= c.KJump
	}
	return finite(v*m.Density, eKeV)
}

// ComptonRel ~ Z·ln(E+1)/E^1.2·ρ.
func ComptonRel(eKeV float64, m material.Material) (float64, error) {
	if err := checkEnergy(eKeV); err != nil {
		return 0, err
	}
	return finite(m.Z*math.Log1p(eKeV)/math.Pow(eKeV, 1.2)*m.Density, eKeV)
}

// RayleighRel ~ Z^2/E^2.2·ρ.
func RayleighRel(eKeV float64, m material.Material) (float64, error) {
	if err := checkEnergy(eKeV); err != nil {
		return 0, err
	}
	return finite(m.Z*m.Z/math.Pow(eKeV, 2.2)*m.Density, eKeV)
}

// Normalize rescales equally long series so that at every index they sum
// to 1. Indices where all series are zero are left at zero.
func Normalize(series ...[]float64) [][]float64 {
	if len(series) == 0 {
		return nil
	}
	n := len(series[0])
	out := make([][]float64, len(series))
	for i := range series {
		out[i] = make([]float64, n)
	}
	for j := 0; j < n; j++ {
		total := 0.0
		for _, s := range series {
			total += s[j]
		}
		if total == 0 {
			continue
		}
		for i, s := range series {
			out[i][j] = s[j] / total
		}
	}
	return out
}
