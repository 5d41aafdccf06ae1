package material

import (
	"fmt"
	"math"
	"strings"

	"Radviz/internal/physics"
)

// CustomKey is the selector value that switches a request to
// user-supplied parameters.
const CustomKey = "custom"

// Selection is either Named or Custom.
type Selection interface {
	resolve(t *Table) (Material, error)
}

// Named selects an entry of the constants table.
type Named struct {
	Key string
}

// Custom carries user-supplied material parameters. A and IeV may be left
// zero and are then estimated from Z.
type Custom struct {
	Name    string  `json:"name"`
	Z       float64 `json:"z"`
	A       float64 `json:"a"`
	Density float64 `json:"density"`
	IeV     float64 `json:"i_ev"`
}

func (n Named) resolve(t *Table) (Material, error) {
	return t.Lookup(n.Key)
}

func (c Custom) resolve(*Table) (Material, error) {
	if !(c.Density > 0) {
		return Material{}, fmt.Errorf("%w: custom density must be positive (got %v)", physics.ErrValidation, c.Density)
	}
	if !(c.Z > 0) {
		return Material{}, fmt.Errorf("%w: custom atomic number must be positive (got %v)", physics.ErrValidation, c.Z)
	}
	m := Material{
		Key:      CustomKey,
		Name:     strings.TrimSpace(c.Name),
		Z:        c.Z,
		A:        c.A,
		Density:  c.Density,
		IeV:      c.IeV,
		KEdgeKeV: 0.0126 * c.Z * c.Z,
		LEdgeKeV: 0.0016 * c.Z * c.Z,
		Custom:   true,
	}
	if m.Name == "" {
		m.Name = "Custom Material"
	}
	if m.A <= 0 {
		m.A = 2 * c.Z
	}
	if m.IeV <= 0 {
		// Bloch's rule of thumb.
		m.IeV = 16 * math.Pow(c.Z, 0.9)
	}
	if err := m.Validate(); err != nil {
		return Material{}, err
	}
	return m, nil
}

// Resolve turns a selection into a concrete material.
func (t *Table) Resolve(s Selection) (Material, error) {
	if s == nil {
		return Material{}, fmt.Errorf("%w: no material selected", physics.ErrValidation)
	}
	return s.resolve(t)
}

// Choose builds the selection described by a request: the "custom" key
// picks c, anything else is looked up by name.
func Choose(key string, c Custom) Selection {
	if NormalizeKey(key) == CustomKey {
		return c
	}
	return Named{Key: key}
}
