// Package config reads server settings from the environment (optionally
// seeded from a .env file) and physics tuning from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"Radviz/internal/calc"
	"Radviz/internal/physics"
	"Radviz/internal/physics/material"
	"Radviz/internal/physics/stopping"
	"Radviz/internal/physics/xsec"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr      string
	TLSCert   string
	TLSKey    string
	StaticDir string

	RateLimitRPS   float64
	RateLimitBurst int

	LogLevel  slog.Level
	LogFormat string

	CoefficientsFile string
}

// TLS reports whether both certificate and key are configured.
func (c Config) TLS() bool { return c.TLSCert != "" && c.TLSKey != "" }

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, applying defaults for unset keys.
func FromEnv(getenv func(string) string) (Config, error) {
	c := Config{
		Addr:             or(getenv("ADDR"), ":8080"),
		TLSCert:          getenv("TLS_CERT"),
		TLSKey:           getenv("TLS_KEY"),
		StaticDir:        getenv("STATIC_DIR"),
		LogFormat:        strings.ToLower(or(getenv("LOG_FORMAT"), "text")),
		CoefficientsFile: getenv("COEFFICIENTS_FILE"),
	}
	var err error
	if c.RateLimitRPS, err = parseFloat(getenv, "RATE_LIMIT_RPS", 5); err != nil {
		return Config{}, err
	}
	if c.RateLimitBurst, err = parseInt(getenv, "RATE_LIMIT_BURST", 10); err != nil {
		return Config{}, err
	}
	if !(c.RateLimitRPS > 0) || c.RateLimitBurst < 1 {
		return Config{}, fmt.Errorf("%w: rate limit must be positive", physics.ErrValidation)
	}
	if err := c.LogLevel.UnmarshalText([]byte(or(getenv("LOG_LEVEL"), "info"))); err != nil {
		return Config{}, fmt.Errorf("%w: LOG_LEVEL: %v", physics.ErrValidation, err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return Config{}, fmt.Errorf("%w: LOG_FORMAT must be text or json (got %q)", physics.ErrValidation, c.LogFormat)
	}
	if (c.TLSCert == "") != (c.TLSKey == "") {
		return Config{}, fmt.Errorf("%w: TLS_CERT and TLS_KEY must be set together", physics.ErrValidation)
	}
	return c, nil
}

// Logger builds the process logger described by c.
func (c Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Physics is the layout of the coefficients file.
type Physics struct {
	Coefficients xsec.Coefficients   `yaml:"coefficients"`
	Proton       stopping.Options    `yaml:"proton"`
	Materials    []material.Material `yaml:"materials"`
}

// ReadPhysics parses a coefficients file.
func ReadPhysics(r io.Reader) (Physics, error) {
	var p Physics
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return Physics{}, fmt.Errorf("%w: coefficients file: %v", physics.ErrValidation, err)
	}
	return p, nil
}

// Env builds the shared calculation environment from p.
func (p Physics) Env() (*calc.Env, error) {
	env := calc.DefaultEnv()
	env.Coefficients = p.Coefficients.WithDefaults()
	if err := env.Coefficients.Validate(); err != nil {
		return nil, err
	}
	env.Proton = p.Proton.WithDefaults()
	if err := env.Proton.Validate(); err != nil {
		return nil, err
	}
	if len(p.Materials) > 0 {
		t, err := material.Default.Override(p.Materials)
		if err != nil {
			return nil, err
		}
		env.Materials = t
	}
	return env, nil
}

// Env builds the calculation environment, reading CoefficientsFile when set.
func (c Config) Env() (*calc.Env, error) {
	if c.CoefficientsFile == "" {
		return calc.DefaultEnv(), nil
	}
	f, err := os.Open(c.CoefficientsFile)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	p, err := ReadPhysics(f)
	if err != nil {
		return nil, err
	}
	return p.Env()
}

func or(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}

func parseFloat(getenv func(string) string, key string, def float64) (float64, error) {
	s := strings.TrimSpace(getenv(key))
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", physics.ErrValidation, key, err)
	}
	return v, nil
}

func parseInt(getenv func(string) string, key string, def int) (int, error) {
	s := strings.TrimSpace(getenv(key))
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", physics.ErrValidation, key, err)
	}
	return v, nil
}
