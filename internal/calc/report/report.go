// Package report renders a series.Table as a one-document PDF: parameters,
// the plot, the first rows of data, an interpretation and a disclaimer.
package report

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"time"

	"Radviz/internal/calc/plot"
	"Radviz/internal/calc/series"
	"github.com/google/uuid"
	"github.com/phpdave11/gofpdf"
)

// SampleRows is how many data rows the report prints.
const SampleRows = 5

const disclaimer = "This report is generated for educational and research purposes only. " +
	"The models are simplified and must not be used for clinical, diagnostic or shielding decisions."

// PDF writes the report for t to w.
func PDF(w io.Writer, t *series.Table) error {
	pdf, err := Build(t, time.Now())
	if err != nil {
		return err
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}

// Build lays out the document. Rendering errors are collected by gofpdf and
// surface from Output.
func Build(t *series.Table, now time.Time) (*gofpdf.Fpdf, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	img, err := plot.Bytes(t)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(t.Title, true)
	pdf.SetCreator("radviz", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(t.Title))
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 5, fmt.Sprintf("Generated: %s   Report: %s", now.Format("2006-01-02 15:04:05"), uuid.NewString()))
	pdf.Ln(8)

	section(pdf, "Parameters")
	pdf.SetFont("Helvetica", "", 10)
	for _, p := range t.Params {
		pdf.CellFormat(60, 6, tr(p.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, tr(p.Value), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	opt := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("plot", opt, bytes.NewReader(img))
	pdf.ImageOptions("plot", 15, pdf.GetY(), 180, 0, true, opt, 0, "")
	pdf.Ln(4)

	section(pdf, fmt.Sprintf("Sample data (first %d rows)", SampleRows))
	header := t.Header()
	colW := 190 / float64(len(header))
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(220, 220, 220)
	for _, h := range header {
		pdf.CellFormat(colW, 6, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 8)
	for _, row := range t.Rows(SampleRows) {
		for _, v := range row {
			pdf.CellFormat(colW, 6, strconv.FormatFloat(v, 'g', 4, 64), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	if len(t.Notes) > 0 {
		section(pdf, "Interpretation")
		pdf.SetFont("Helvetica", "", 10)
		for _, n := range t.Notes {
			pdf.MultiCell(0, 5, tr(n), "", "L", false)
		}
		pdf.Ln(4)
	}

	section(pdf, "Disclaimer")
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(180, 0, 0)
	pdf.MultiCell(0, 5, disclaimer, "", "L", false)
	pdf.SetTextColor(0, 0, 0)
	return pdf, pdf.Error()
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
}
