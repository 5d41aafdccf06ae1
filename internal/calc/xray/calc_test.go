package xray

import (
	"testing"

	"Radviz/internal/calc"
	"Radviz/internal/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }
func b(v bool) *bool        { return &v }

func TestCalculate_FractionsSumToOne(t *testing.T) {
	tbl, err := Calculate(calc.DefaultEnv(), Input{Material: "bone"})
	require.NoError(t, err)

	assert.Equal(t, "xray", tbl.Tool)
	require.Len(t, tbl.Columns, 3)
	assert.Equal(t, defaultEMin, tbl.X.Values[0])
	assert.Equal(t, defaultEMax, tbl.X.Values[len(tbl.X.Values)-1])
	assert.False(t, tbl.LogX)
	for i := range tbl.X.Values {
		sum := 0.0
		for _, c := range tbl.Columns {
			assert.GreaterOrEqual(t, c.Values[i], 0.0)
			sum += c.Values[i]
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
	// Bone edges (4.0 and 0.45 keV) lie below the range.
	assert.Empty(t, tbl.Markers)
	assert.Contains(t, tbl.Notes, "Low-Z material: Compton scattering dominates.")
	assert.Contains(t, tbl.Notes, "Compton scattering increases at higher energies.")
}

func TestCalculate_KEdgeJump(t *testing.T) {
	tbl, err := Calculate(calc.DefaultEnv(), Input{Material: "iodine", Points: 1001})
	require.NoError(t, err)

	require.Len(t, tbl.Markers, 1)
	assert.InDelta(t, 33.17, tbl.Markers[0].X, 1e-9)

	pe := tbl.Columns[0].Values
	x := tbl.X.Values
	i := 0
	for x[i+1] < 33.17 {
		i++
	}
	// Absorption jumps up across the edge even though E rises.
	assert.Greater(t, pe[i+1], 2*pe[i])
	assert.Contains(t, tbl.Notes, "High-Z material: strong photoelectric effect at low energies.")
}

func TestCalculate_HiddenProcessKeepsFullNormalisation(t *testing.T) {
	env := calc.DefaultEnv()
	all, err := Calculate(env, Input{Material: "water", Points: 20})
	require.NoError(t, err)
	some, err := Calculate(env, Input{Material: "water", Points: 20, ShowRayleigh: b(false)})
	require.NoError(t, err)

	require.Len(t, some.Columns, 2)
	assert.Equal(t, all.Columns[0].Values, some.Columns[0].Values)
	assert.Equal(t, all.Columns[1].Values, some.Columns[1].Values)
}

func TestCalculate_RawAndCompare(t *testing.T) {
	tbl, err := Calculate(calc.DefaultEnv(), Input{
		Material:  "water",
		Material2: "lead",
		Raw:       true,
		Scale:     "log",
		EMinKeV:   f(10),
		EMaxKeV:   f(150),
		Points:    50,
	})
	require.NoError(t, err)
	assert.True(t, tbl.LogX)
	assert.True(t, tbl.LogY)
	assert.Len(t, tbl.Columns, 6)
	assert.Equal(t, "Lead Photoelectric", tbl.Columns[3].Name)
	assert.Equal(t, "a.u.", tbl.Columns[0].Unit)
	// Lead K (88 keV) and L (15.9 keV) edges are in range; water's are not.
	assert.Len(t, tbl.Markers, 2)
	assert.Contains(t, tbl.Notes[len(tbl.Notes)-1], "Comparison between Water and Lead")
}

func TestCalculate_EdgeAtRangeBound(t *testing.T) {
	tbl, err := Calculate(calc.DefaultEnv(), Input{Material: "lead", EMinKeV: f(40), EMaxKeV: f(88)})
	require.NoError(t, err)
	require.Len(t, tbl.Markers, 1)
	assert.Contains(t, tbl.Markers[0].Label, "K-edge")
	assert.Equal(t, 88.0, tbl.Markers[0].X)
}

func TestCalculate_TinyEnergyFails(t *testing.T) {
	_, err := Calculate(calc.DefaultEnv(), Input{Material: "water", EMinKeV: f(1e-100), EMaxKeV: f(1)})
	assert.ErrorIs(t, err, physics.ErrDomain)
}

func TestCalculate_Errors(t *testing.T) {
	env := calc.DefaultEnv()
	for _, tc := range []struct {
		name string
		in   Input
		want error
	}{
		{"nothing shown", Input{Material: "water", ShowPhoto: b(false), ShowCompton: b(false), ShowRayleigh: b(false)}, physics.ErrValidation},
		{"negative bound", Input{Material: "water", EMinKeV: f(-5)}, physics.ErrInvalidRange},
		{"unknown", Input{Material: "adamantium"}, physics.ErrUnknownMaterial},
		{"too many points", Input{Material: "water", Points: 10000}, physics.ErrValidation},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Calculate(env, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
