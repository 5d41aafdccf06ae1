package calc

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"Radviz/internal/physics"
	"Radviz/internal/physics/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name   string   `validate:"required"`
	Points int      `validate:"omitempty,min=2"`
	Width  *float64 `validate:"omitempty,gt=0"`
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(sample{Name: "x"}))

	err := Validate(sample{})
	assert.ErrorIs(t, err, physics.ErrValidation)
	assert.Contains(t, err.Error(), "Name failed required")

	neg := -1.0
	assert.ErrorIs(t, Validate(sample{Name: "x", Points: 1, Width: &neg}), physics.ErrValidation)
}

func TestOr(t *testing.T) {
	v := 3.0
	assert.Equal(t, 3.0, Or(&v, 7))
	assert.Equal(t, 7.0, Or(nil, 7.0))
}

func TestEnvMaterial(t *testing.T) {
	env := DefaultEnv()
	m, err := env.Material("Water", material.Custom{})
	require.NoError(t, err)
	assert.Equal(t, "water", m.Key)

	m, err = env.Material("custom", material.Custom{Z: 20, Density: 1.5})
	require.NoError(t, err)
	assert.True(t, m.Custom)
	assert.Equal(t, 40.0, m.A)

	_, err = env.Material("unobtainium", material.Custom{})
	assert.ErrorIs(t, err, physics.ErrUnknownMaterial)
}

func TestEnvCompare(t *testing.T) {
	env := DefaultEnv()
	_, ok, err := env.Compare("  ", material.Custom{})
	require.NoError(t, err)
	assert.False(t, ok)

	m, ok, err := env.Compare("lead", material.Custom{})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 82.0, m.Z)

	_, ok, err = env.Compare("custom", material.Custom{Z: 5})
	assert.ErrorIs(t, err, physics.ErrValidation)
	assert.False(t, ok)
}

func TestListMaterials(t *testing.T) {
	env := DefaultEnv()
	rec := httptest.NewRecorder()
	env.ListMaterials(rec, httptest.NewRequest(http.MethodGet, "/api/materials", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var out MaterialList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, env.Materials.Keys(), out.Keys)
	assert.Len(t, out.Materials, len(out.Keys))
	assert.Contains(t, out.Keys, "water")
}
