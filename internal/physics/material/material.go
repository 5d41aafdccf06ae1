package material

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"Radviz/internal/physics"
)

// Material is read-only reference data for one element, compound or
// mixture. Compounds carry an effective Z and an effective A chosen so that
// Z/A matches the real electron density.
type Material struct {
	Key     string  `json:"key" yaml:"key"`
	Name    string  `json:"name" yaml:"name"`
	Z       float64 `json:"z" yaml:"z"`
	A       float64 `json:"a" yaml:"a"`             // g/mol
	Density float64 `json:"density" yaml:"density"` // g/cm^3
	IeV     float64 `json:"i_ev" yaml:"i_ev"`       // mean excitation energy
	// Absorption edges in keV, 0 when not tabulated.
	KEdgeKeV float64 `json:"k_edge_kev,omitempty" yaml:"k_edge_kev"`
	LEdgeKeV float64 `json:"l_edge_kev,omitempty" yaml:"l_edge_kev"`
	// Radiation length in g/cm^2, 0 means use the Dahl approximation.
	X0 float64 `json:"x0_g_cm2,omitempty" yaml:"x0_g_cm2"`
	Custom bool `json:"custom,omitempty" yaml:"-"`
}

func (m Material) KEdge() (float64, bool) { return m.KEdgeKeV, m.KEdgeKeV > 0 }
func (m Material) LEdge() (float64, bool) { return m.LEdgeKeV, m.LEdgeKeV > 0 }

// ZOverA is the electron density per gram in mol/g.
func (m Material) ZOverA() float64 { return m.Z / m.A }

// IMeV returns the mean excitation energy in MeV.
func (m Material) IMeV() float64 { return m.IeV * 1e-6 }

// RadiationLength returns X0 in g/cm^2.
func (m Material) RadiationLength() float64 {
	if m.X0 > 0 {
		return m.X0
	}
	// Dahl's fit, good to a few percent for Z > 2.
	return 716.4 * m.A / (m.Z * (m.Z + 1) * math.Log(287/math.Sqrt(m.Z)))
}

// Validate checks the invariants every evaluator relies on.
func (m Material) Validate() error {
	switch {
	case !(m.Z > 0) || math.IsInf(m.Z, 0):
		return fmt.Errorf("%w: atomic number must be positive (got %v)", physics.ErrValidation, m.Z)
	case !(m.A > 0) || math.IsInf(m.A, 0):
		return fmt.Errorf("%w: atomic mass must be positive (got %v)", physics.ErrValidation, m.A)
	case !(m.Density > 0) || math.IsInf(m.Density, 0):
		return fmt.Errorf("%w: density must be positive (got %v)", physics.ErrValidation, m.Density)
	case !(m.IeV > 0) || math.IsInf(m.IeV, 0):
		return fmt.Errorf("%w: mean excitation energy must be positive (got %v)", physics.ErrValidation, m.IeV)
	}
	return nil
}

// Table is an immutable set of materials keyed by normalised name.
type Table struct {
	byKey map[string]Material
	keys  []string
}

func NewTable(ms []Material) (*Table, error) {
	t := &Table{byKey: make(map[string]Material, len(ms))}
	for _, m := range ms {
		m.Key = NormalizeKey(m.Key)
		if m.Key == "" {
			return nil, fmt.Errorf("%w: material without key", physics.ErrValidation)
		}
		if m.Name == "" {
			m.Name = displayName(m.Key)
		}
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("material %q: %w", m.Key, err)
		}
		if _, dup := t.byKey[m.Key]; !dup {
			t.keys = append(t.keys, m.Key)
		}
		t.byKey[m.Key] = m
	}
	sort.Strings(t.keys)
	return t, nil
}

// Lookup finds a material by name. Matching ignores case and treats
// spaces and dashes as underscores.
func (t *Table) Lookup(name string) (Material, error) {
	m, ok := t.byKey[NormalizeKey(name)]
	if !ok {
		return Material{}, fmt.Errorf("%w: %q", physics.ErrUnknownMaterial, name)
	}
	return m, nil
}

// Keys returns the sorted material keys.
func (t *Table) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// All returns every material in key order.
func (t *Table) All() []Material {
	out := make([]Material, 0, len(t.keys))
	for _, k := range t.keys {
		out = append(out, t.byKey[k])
	}
	return out
}

// Override returns a new table with ms replacing or extending t. Fields left
// zero in an override keep the value of the existing entry.
func (t *Table) Override(ms []Material) (*Table, error) {
	merged := t.All()
	idx := make(map[string]int, len(merged))
	for i, m := range merged {
		idx[m.Key] = i
	}
	for _, o := range ms {
		key := NormalizeKey(o.Key)
		i, ok := idx[key]
		if !ok {
			o.Key = key
			idx[key] = len(merged)
			merged = append(merged, o)
			continue
		}
		merged[i] = merge(merged[i], o)
	}
	return NewTable(merged)
}

func merge(base, o Material) Material {
	if o.Name != "" {
		base.Name = o.Name
	}
	if o.Z > 0 {
		base.Z = o.Z
	}
	if o.A > 0 {
		base.A = o.A
	}
	if o.Density > 0 {
		base.Density = o.Density
	}
	if o.IeV > 0 {
		base.IeV = o.IeV
	}
	if o.KEdgeKeV > 0 {
		base.KEdgeKeV = o.KEdgeKeV
	}
	if o.LEdgeKeV > 0 {
		base.LEdgeKeV = o.LEdgeKeV
	}
	if o.X0 > 0 {
		base.X0 = o.X0
	}
	return base
}

func NormalizeKey(name string) string {
	k := strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(k)
}

func displayName(key string) string {
	parts := strings.Split(key, "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
