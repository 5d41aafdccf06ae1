package series

import (
	"fmt"
	"strconv"

	"Radviz/internal/physics"
)

type Column struct {
	Name   string    `json:"name"`
	Unit   string    `json:"unit,omitempty"`
	Values []float64 `json:"values"`
}

// Label is the column name with its unit in parentheses.
func (c Column) Label() string {
	if c.Unit == "" {
		return c.Name
	}
	return fmt.Sprintf("%s (%s)", c.Name, c.Unit)
}

// Marker is a vertical annotation such as an absorption edge.
type Marker struct {
	Label string  `json:"label"`
	X     float64 `json:"x"`
}

type Param struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Table is a computed result: one X column and any number of Y columns of
// the same length, plus the parameters that produced it.
type Table struct {
	Tool    string   `json:"tool"`
	Title   string   `json:"title"`
	X       Column   `json:"x"`
	Columns []Column `json:"columns"`
	Params  []Param  `json:"params,omitempty"`
	Markers []Marker `json:"markers,omitempty"`
	Notes   []string `json:"notes,omitempty"`
	// Axis hints for renderers.
	LogX bool `json:"log_x,omitempty"`
	LogY bool `json:"log_y,omitempty"`
}

func (t *Table) Add(name, unit string, values []float64) {
	t.Columns = append(t.Columns, Column{Name: name, Unit: unit, Values: values})
}

func (t *Table) Param(name string, value any) {
	var s string
	switch v := value.(type) {
	case float64:
		s = strconv.FormatFloat(v, 'g', 6, 64)
	case string:
		s = v
	default:
		s = fmt.Sprint(v)
	}
	t.Params = append(t.Params, Param{Name: name, Value: s})
}

// Mark adds a marker when x lies within the X range, bounds included.
func (t *Table) Mark(label string, x float64) bool {
	n := len(t.X.Values)
	if n == 0 || x < t.X.Values[0] || x > t.X.Values[n-1] {
		return false
	}
	t.Markers = append(t.Markers, Marker{Label: label, X: x})
	return true
}

func (t *Table) Note(s string) { t.Notes = append(t.Notes, s) }

// Validate checks that all columns line up with X.
func (t *Table) Validate() error {
	n := len(t.X.Values)
	if n == 0 {
		return fmt.Errorf("%w: table %q has no rows", physics.ErrValidation, t.Title)
	}
	for _, c := range t.Columns {
		if len(c.Values) != n {
			return fmt.Errorf("%w: column %q has %d values, want %d", physics.ErrValidation, c.Name, len(c.Values), n)
		}
	}
	return nil
}

// Header returns the column labels, X first.
func (t *Table) Header() []string {
	h := make([]string, 0, len(t.Columns)+1)
	h = append(h, t.X.Label())
	for _, c := range t.Columns {
		h = append(h, c.Label())
	}
	return h
}

// Rows returns up to limit rows (all when limit <= 0), X first.
func (t *Table) Rows(limit int) [][]float64 {
	n := len(t.X.Values)
	if limit > 0 && limit < n {
		n = limit
	}
	rows := make([][]float64, n)
	for i := range rows {
		row := make([]float64, 0, len(t.Columns)+1)
		row = append(row, t.X.Values[i])
		for _, c := range t.Columns {
			row = append(row, c.Values[i])
		}
		rows[i] = row
	}
	return rows
}
