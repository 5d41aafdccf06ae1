package grid

import (
	"math"
	"testing"

	"Radviz/internal/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Properties(t *testing.T) {
	cases := []struct {
		emin, emax float64
		n          int
	}{
		{0.01, 100, 100},
		{1, 2, 2},
		{20, 120, 300},
		{1e-3, 10, 7},
	}
	for _, c := range cases {
		for _, scale := range []Scale{Linear, Log} {
			e, err := New(c.emin, c.emax, c.n, scale)
			require.NoError(t, err)
			require.Len(t, e, c.n)
			assert.Equal(t, c.emin, e[0])
			assert.Equal(t, c.emax, e[len(e)-1])
			for i := 1; i < len(e); i++ {
				assert.Greater(t, e[i], e[i-1], "scale=%s i=%d", scale, i)
			}
		}
	}
}

func TestNew_LogConstantRatio(t *testing.T) {
	e, err := New(0.01, 100, 100, Log)
	require.NoError(t, err)
	assert.Equal(t, 0.01, e[0])
	assert.Equal(t, 100.0, e[99])

	want := math.Pow(100/0.01, 1.0/99)
	for i := 1; i < len(e); i++ {
		assert.InEpsilon(t, want, e[i]/e[i-1], 1e-9)
	}
}

func TestNew_LinearConstantStep(t *testing.T) {
	e, err := New(10, 250, 121, Linear)
	require.NoError(t, err)
	for i := 1; i < len(e); i++ {
		assert.InDelta(t, 2.0, e[i]-e[i-1], 1e-9)
	}
}

func TestNew_InvalidRange(t *testing.T) {
	tests := []struct {
		name       string
		emin, emax float64
		n          int
	}{
		{"reversed", 10, 1, 10},
		{"equal", 5, 5, 10},
		{"zero min", 0, 5, 10},
		{"negative max", -2, -1, 10},
		{"nan", math.NaN(), 5, 10},
		{"inf", 1, math.Inf(1), 10},
		{"one point", 1, 5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.emin, tt.emax, tt.n, Linear)
			assert.ErrorIs(t, err, physics.ErrInvalidRange)
		})
	}
}

func TestParseScale(t *testing.T) {
	for in, want := range map[string]Scale{
		"":            Log,
		"linear":      Linear,
		"LIN":         Linear,
		"log":         Log,
		"Logarithmic": Log,
	} {
		got, err := ParseScale(in, Log)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseScale("cubic", Log)
	assert.ErrorIs(t, err, physics.ErrValidation)
}

func TestLinspace(t *testing.T) {
	assert.Equal(t, []float64{0, 0.5, 1}, Linspace(0, 1, 3))
	assert.Equal(t, []float64{3}, Linspace(3, 9, 1))
	assert.Nil(t, Linspace(0, 1, 0))
}
