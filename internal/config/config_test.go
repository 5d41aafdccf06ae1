package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"Radviz/internal/physics"
	"Radviz/internal/physics/stopping"
	"Radviz/internal/physics/xsec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(kv map[string]string) func(string) string {
	return func(k string) string { return kv[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	c, err := FromEnv(env(nil))
	require.NoError(t, err)
	assert.Equal(t, ":8080", c.Addr)
	assert.Equal(t, 5.0, c.RateLimitRPS)
	assert.Equal(t, 10, c.RateLimitBurst)
	assert.Equal(t, slog.LevelInfo, c.LogLevel)
	assert.Equal(t, "text", c.LogFormat)
	assert.False(t, c.TLS())
}

func TestFromEnv_Overrides(t *testing.T) {
	c, err := FromEnv(env(map[string]string{
		"ADDR":             ":9000",
		"RATE_LIMIT_RPS":   " 2.5 ",
		"RATE_LIMIT_BURST": "4",
		"LOG_LEVEL":        "debug",
		"LOG_FORMAT":       "JSON",
		"TLS_CERT":         "cert.pem",
		"TLS_KEY":          "key.pem",
	}))
	require.NoError(t, err)
	assert.Equal(t, ":9000", c.Addr)
	assert.Equal(t, 2.5, c.RateLimitRPS)
	assert.Equal(t, 4, c.RateLimitBurst)
	assert.Equal(t, slog.LevelDebug, c.LogLevel)
	assert.Equal(t, "json", c.LogFormat)
	assert.True(t, c.TLS())

	var buf bytes.Buffer
	c.Logger(&buf).Debug("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}

func TestFromEnv_Errors(t *testing.T) {
	for name, kv := range map[string]map[string]string{
		"bad rps":          {"RATE_LIMIT_RPS": "fast"},
		"zero rps":         {"RATE_LIMIT_RPS": "0"},
		"bad burst":        {"RATE_LIMIT_BURST": "1.5"},
		"bad level":        {"LOG_LEVEL": "loud"},
		"bad format":       {"LOG_FORMAT": "xml"},
		"cert without key": {"TLS_CERT": "cert.pem"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := FromEnv(env(kv))
			assert.ErrorIs(t, err, physics.ErrValidation)
		})
	}
}

const physicsYAML = `
coefficients:
  photo_k: 8.0e-9
proton:
  straggling_fraction: -1
materials:
  - key: water
    i_ev: 78
  - key: Lung Tissue
    name: Lung
    z: 7.5
    a: 13.6
    density: 0.26
    i_ev: 75.3
`

func TestReadPhysics(t *testing.T) {
	p, err := ReadPhysics(strings.NewReader(physicsYAML))
	require.NoError(t, err)

	e, err := p.Env()
	require.NoError(t, err)
	assert.Equal(t, 8.0e-9, e.Coefficients.PhotoK)
	assert.Equal(t, xsec.DefaultCoefficients().KJump, e.Coefficients.KJump)
	assert.Equal(t, -1.0, e.Proton.StragglingFraction)
	assert.Equal(t, stopping.DefaultOptions().BraggSteps, e.Proton.BraggSteps)

	water, err := e.Materials.Lookup("water")
	require.NoError(t, err)
	assert.Equal(t, 78.0, water.IeV)
	assert.Equal(t, 1.0, water.Density)

	lung, err := e.Materials.Lookup("lung_tissue")
	require.NoError(t, err)
	assert.Equal(t, "Lung", lung.Name)
}

func TestReadPhysics_Errors(t *testing.T) {
	_, err := ReadPhysics(strings.NewReader("coefficients:\n  photo_kk: 1\n"))
	assert.ErrorIs(t, err, physics.ErrValidation)

	p, err := ReadPhysics(strings.NewReader("coefficients:\n  k_jump: 2\n"))
	require.NoError(t, err)
	_, err = p.Env()
	assert.ErrorIs(t, err, physics.ErrValidation)

	p, err = ReadPhysics(strings.NewReader("proton:\n  straggling_fraction: 3\n"))
	require.NoError(t, err)
	_, err = p.Env()
	assert.ErrorIs(t, err, physics.ErrValidation)

	p, err = ReadPhysics(strings.NewReader(""))
	require.NoError(t, err)
	_, err = p.Env()
	assert.NoError(t, err)
}

func TestConfigEnv(t *testing.T) {
	e, err := Config{}.Env()
	require.NoError(t, err)
	assert.Equal(t, xsec.DefaultCoefficients(), e.Coefficients)

	path := filepath.Join(t.TempDir(), "physics.yaml")
	require.NoError(t, os.WriteFile(path, []byte(physicsYAML), 0o600))
	e, err = Config{CoefficientsFile: path}.Env()
	require.NoError(t, err)
	assert.Equal(t, 8.0e-9, e.Coefficients.PhotoK)

	_, err = Config{CoefficientsFile: filepath.Join(t.TempDir(), "missing.yaml")}.Env()
	assert.Error(t, err)
}
