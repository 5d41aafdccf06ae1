package stopping

import (
	"math"
	"testing"

	"Radviz/internal/physics"
	"Radviz/internal/physics/grid"
	"Radviz/internal/physics/integrate"
	"Radviz/internal/physics/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func water(t *testing.T) material.Material {
	t.Helper()
	m, err := material.Default.Lookup("water")
	require.NoError(t, err)
	return m
}

func TestBetaGamma(t *testing.T) {
	beta, gamma, err := BetaGamma(ProtonMassMeV)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, gamma, 1e-12)
	assert.InDelta(t, math.Sqrt(0.75), beta, 1e-12)

	for _, bad := range []float64{0, -5, math.NaN(), math.Inf(1)} {
		_, _, err := BetaGamma(bad)
		assert.ErrorIs(t, err, physics.ErrDomain, "T=%v", bad)
	}
	// γ overflows to the point where β rounds to 1.
	_, _, err = BetaGamma(1e300)
	assert.ErrorIs(t, err, physics.ErrDomain)
}

func TestMassStoppingPower_PSTAR(t *testing.T) {
	w := water(t)
	// NIST PSTAR electronic stopping power of water, MeV cm^2/g.
	for _, tc := range []struct{ t, want, tol float64 }{
		{1, 260.8, 0.05},
		{10, 45.67, 0.02},
		{100, 7.289, 0.02},
	} {
		s, err := MassStoppingPower(tc.t, w)
		require.NoError(t, err)
		assert.InEpsilon(t, tc.want, s, tc.tol, "T=%v", tc.t)
	}
}

func TestStoppingPower_NonNegativeFinite(t *testing.T) {
	e, err := grid.New(1e-3, 1e4, 150, grid.Log)
	require.NoError(t, err)
	for _, m := range material.Default.All() {
		for _, v := range e {
			s, err := LinearStoppingPower(v, m)
			require.NoError(t, err)
			assert.False(t, math.IsNaN(s) || math.IsInf(s, 0), "%s T=%v", m.Key, v)
			assert.GreaterOrEqual(t, s, 0.0, "%s T=%v", m.Key, v)
		}
	}
}

func TestStoppingPower_DecreasesAboveMinValid(t *testing.T) {
	lead, err := material.Default.Lookup("lead")
	require.NoError(t, err)
	e, err := grid.New(MinValidEnergy(lead)*3, 500, 60, grid.Log)
	require.NoError(t, err)
	s, err := StoppingCurve(e, lead)
	require.NoError(t, err)
	for i := 1; i < len(s); i++ {
		assert.Less(t, s[i], s[i-1])
	}
}

func TestLinearStoppingPower_Density(t *testing.T) {
	w := water(t)
	w.Density = 0
	_, err := LinearStoppingPower(10, w)
	assert.ErrorIs(t, err, physics.ErrValidation)
}

func TestCSDARange_Water(t *testing.T) {
	w := water(t)
	// PSTAR CSDA ranges in water (g/cm^2 == cm).
	for _, tc := range []struct{ t, want float64 }{
		{70, 4.08},
		{150, 15.76},
		{250, 37.94},
	} {
		r, err := CSDARange(tc.t, w, Options{})
		require.NoError(t, err)
		assert.InEpsilon(t, tc.want, r, 0.05, "T=%v", tc.t)
	}
}

func TestCSDARange_ScalesWithDensity(t *testing.T) {
	w := water(t)
	r1, err := CSDARange(100, w, Options{})
	require.NoError(t, err)
	w.Density = 2
	r2, err := CSDARange(100, w, Options{})
	require.NoError(t, err)
	assert.InEpsilon(t, r1/2, r2, 1e-9)
}

func TestCSDARange_BelowCutoff(t *testing.T) {
	w := water(t)
	r, err := CSDARange(0.05, w, Options{})
	require.NoError(t, err)
	assert.Greater(t, r, 0.0)
	assert.Less(t, r, 1e-3)

	_, err = CSDARange(0, w, Options{})
	assert.ErrorIs(t, err, physics.ErrDomain)
}

func TestRangeCurve_Monotone(t *testing.T) {
	w := water(t)
	e, err := grid.New(10, 250, 25, grid.Linear)
	require.NoError(t, err)
	r, err := RangeCurve(e, w, Options{})
	require.NoError(t, err)
	for i := 1; i < len(r); i++ {
		assert.Greater(t, r[i], r[i-1])
	}
}

func TestBraggCurve(t *testing.T) {
	w := water(t)
	b, err := BraggCurve(150, w, Options{})
	require.NoError(t, err)

	require.Equal(t, len(b.Depth), len(b.Dose))
	require.Equal(t, len(b.Depth), len(b.EnergyLoss))
	assert.InEpsilon(t, 15.76, b.RangeCM, 0.05)

	maxDose := 0.0
	for _, d := range b.Dose {
		assert.GreaterOrEqual(t, d, 0.0)
		maxDose = math.Max(maxDose, d)
	}
	assert.InDelta(t, 1.0, maxDose, 1e-12)

	// Peak sits in the last tenth of the range; the plateau is well below it.
	assert.Greater(t, b.PeakDepthCM, 0.9*b.RangeCM)
	assert.LessOrEqual(t, b.PeakDepthCM, b.RangeCM)
	assert.Less(t, b.Dose[0], 0.4)
	assert.Less(t, b.Dose[len(b.Dose)-1], 1e-3)

	// Energy is conserved: ∫ dT/dx dz ≈ T0.
	deposited, err := integrate.Trapezoid(b.Depth, b.EnergyLoss)
	require.NoError(t, err)
	assert.InEpsilon(t, 150, deposited, 0.03)
}

func TestBraggCurve_NoStraggling(t *testing.T) {
	w := water(t)
	b, err := BraggCurve(100, w, Options{StragglingFraction: -1})
	require.NoError(t, err)
	assert.InDelta(t, b.RangeCM, b.Depth[len(b.Depth)-1], 1e-9)
	assert.Greater(t, b.PeakDepthCM, 0.97*b.RangeCM)
}

func TestBraggCurve_Lead(t *testing.T) {
	lead, err := material.Default.Lookup("lead")
	require.NoError(t, err)
	b, err := BraggCurve(150, lead, Options{BraggSteps: 500})
	require.NoError(t, err)
	assert.Greater(t, b.PeakDepthCM, 0.85*b.RangeCM)
	assert.Less(t, b.RangeCM, 4.0)
}

func TestHighland(t *testing.T) {
	w := water(t)
	theta, err := HighlandTheta0(10, 150, w)
	require.NoError(t, err)
	assert.InDelta(t, 0.0244, theta, 0.001)

	sigma, err := LateralSigma(10, 150, w)
	require.NoError(t, err)
	assert.InDelta(t, theta*10/math.Sqrt(3), sigma, 1e-12)

	zero, err := LateralSigma(0, 150, w)
	require.NoError(t, err)
	assert.Zero(t, zero)

	_, err = LateralSigma(-1, 150, w)
	assert.ErrorIs(t, err, physics.ErrDomain)
	_, err = LateralSigma(1, 0, w)
	assert.ErrorIs(t, err, physics.ErrDomain)
}

func TestLateralCurve_Grows(t *testing.T) {
	w := water(t)
	z := grid.Linspace(0, 25, 50)
	s, err := LateralCurve(z, 150, w)
	require.NoError(t, err)
	for i := 1; i < len(s); i++ {
		assert.Greater(t, s[i], s[i-1])
	}
}

func TestOptionsWithDefaults(t *testing.T) {
	o := Options{BraggSteps: 3}.WithDefaults()
	assert.Equal(t, DefaultOptions(), o)

	o = Options{CutoffMeV: 0.5, StragglingFraction: -1}.WithDefaults()
	assert.Equal(t, 0.5, o.CutoffMeV)
	assert.Equal(t, -1.0, o.StragglingFraction)
}

func TestOptionsValidate(t *testing.T) {
	w := water(t)
	assert.NoError(t, DefaultOptions().Validate())
	assert.NoError(t, Options{StragglingFraction: MaxStragglingFraction}.WithDefaults().Validate())

	for _, o := range []Options{
		{StragglingFraction: 2},
		{StragglingFraction: math.NaN()},
		{BraggSteps: MaxBraggSteps + 1},
		{RangePoints: 1 << 30},
		{CutoffMeV: math.Inf(1)},
	} {
		_, err := BraggCurve(150, w, o)
		assert.ErrorIs(t, err, physics.ErrValidation, "%+v", o)
		_, err = CSDARange(150, w, o)
		assert.ErrorIs(t, err, physics.ErrValidation, "%+v", o)
	}
}
