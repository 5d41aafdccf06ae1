package batch

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"Radviz/internal/calc"
	"Radviz/internal/physics"
	"github.com/xuri/excelize/v2"
)

// Skipped records a spreadsheet row that could not be evaluated.
type Skipped struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type ImportOutput struct {
	Output
	Skipped []Skipped `json:"skipped,omitempty"`
}

// Import reads the first sheet of an XLSX workbook. After a header row each
// row holds: material, energy_mev, thickness_cm (optional). Rows that fail
// to parse or evaluate are skipped and reported.
func Import(env *calc.Env, r io.Reader) (ImportOutput, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportOutput{}, fmt.Errorf("%w: invalid workbook: %v", physics.ErrValidation, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return ImportOutput{}, fmt.Errorf("%w: %v", physics.ErrValidation, err)
	}
	if len(rows) < 2 {
		return ImportOutput{}, fmt.Errorf("%w: empty sheet", physics.ErrValidation)
	}
	if len(rows)-1 > MaxItems {
		return ImportOutput{}, fmt.Errorf("%w: %d rows exceed the limit of %d", physics.ErrValidation, len(rows)-1, MaxItems)
	}

	var out ImportOutput
	for i := 1; i < len(rows); i++ {
		item, err := parseRow(rows[i])
		if err == nil {
			var res Result
			res, err = Evaluate(env, item)
			if err == nil {
				out.Results = append(out.Results, res)
				continue
			}
		}
		out.Skipped = append(out.Skipped, Skipped{Row: i + 1, Reason: err.Error()})
	}
	out.Count = len(out.Results)
	return out, nil
}

func parseRow(row []string) (Item, error) {
	if len(row) < 2 || strings.TrimSpace(row[0]) == "" {
		return Item{}, fmt.Errorf("%w: need material and energy_mev", physics.ErrValidation)
	}
	e, err := toFloat(row[1])
	if err != nil {
		return Item{}, err
	}
	item := Item{Material: strings.TrimSpace(row[0]), EnergyMeV: e}
	if len(row) > 2 && strings.TrimSpace(row[2]) != "" {
		if item.ThicknessCM, err = toFloat(row[2]); err != nil {
			return Item{}, err
		}
	}
	return item, nil
}

func toFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", physics.ErrValidation, s)
	}
	return v, nil
}
