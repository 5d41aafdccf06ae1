// Package export writes a series.Table as an XLSX workbook with a "data"
// sheet and a "parameters" sheet.
package export

import (
	"fmt"
	"io"

	"Radviz/internal/calc/series"
	"github.com/xuri/excelize/v2"
)

const (
	DataSheet   = "data"
	ParamsSheet = "parameters"
)

// XLSX writes t to w.
func XLSX(w io.Writer, t *series.Table) error {
	f, err := Workbook(t)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// Workbook builds the in-memory workbook for t. The caller closes it.
func Workbook(t *series.Table) (*excelize.File, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), DataSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("export: %w", err)
	}
	if err := writeData(f, t); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(ParamsSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("export: %w", err)
	}
	if err := writeParams(f, t); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeData(f *excelize.File, t *series.Table) error {
	header := t.Header()
	if err := f.SetSheetRow(DataSheet, "A1", &header); err != nil {
		return fmt.Errorf("export header: %w", err)
	}
	for i, row := range t.Rows(0) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("export row %d: %w", i, err)
		}
		if err := f.SetSheetRow(DataSheet, cell, &row); err != nil {
			return fmt.Errorf("export row %d: %w", i, err)
		}
	}
	return f.SetPanes(DataSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func writeParams(f *excelize.File, t *series.Table) error {
	rows := [][]any{{"Parameter", "Value"}, {"Tool", t.Tool}, {"Title", t.Title}}
	for _, p := range t.Params {
		rows = append(rows, []any{p.Name, p.Value})
	}
	for _, m := range t.Markers {
		rows = append(rows, []any{m.Label, m.X})
	}
	for i, n := range t.Notes {
		rows = append(rows, []any{fmt.Sprintf("Note %d", i+1), n})
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("export parameters: %w", err)
		}
		if err := f.SetSheetRow(ParamsSheet, cell, &row); err != nil {
			return fmt.Errorf("export parameters: %w", err)
		}
	}
	return f.SetColWidth(ParamsSheet, "A", "B", 28)
}
