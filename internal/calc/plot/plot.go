// Package plot draws a series.Table as a PNG line chart.
package plot

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"math"

	"Radviz/internal/calc/series"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Values below floor are lifted to it on log axes.
const floor = 1e-10

var (
	Width  = 8 * vg.Inch
	Height = 5 * vg.Inch
)

var markerColor = color.RGBA{R: 200, G: 30, B: 30, A: 255}

// New builds the chart for t without rendering it.
func New(t *series.Table) (*plot.Plot, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	p := plot.New()
	p.Title.Text = t.Title
	p.X.Label.Text = t.X.Label()
	p.Y.Label.Text = yLabel(t)
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	if t.LogX {
		p.X.Scale = plot.LogScale{}
		p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	}
	if t.LogY {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}

	ymin, ymax := math.Inf(1), math.Inf(-1)
	for i, c := range t.Columns {
		pts := make(plotter.XYs, len(c.Values))
		for j, v := range c.Values {
			if t.LogY && !(v > floor) {
				v = floor
			}
			pts[j].X, pts[j].Y = t.X.Values[j], v
			ymin, ymax = math.Min(ymin, v), math.Max(ymax, v)
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("plot %q: %w", c.Name, err)
		}
		l.LineStyle.Width = vg.Points(1.8)
		l.LineStyle.Color = plotutil.Color(i)
		p.Add(l)
		p.Legend.Add(c.Name, l)
	}

	for _, m := range t.Markers {
		if len(t.Columns) == 0 {
			break
		}
		l, err := plotter.NewLine(plotter.XYs{{X: m.X, Y: ymin}, {X: m.X, Y: ymax}})
		if err != nil {
			return nil, fmt.Errorf("plot marker %q: %w", m.Label, err)
		}
		l.LineStyle.Color = markerColor
		l.LineStyle.Width = vg.Points(1)
		l.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(l)
		p.Legend.Add(m.Label, l)
	}
	return p, nil
}

// yLabel uses the unit of the first column when all columns share it.
func yLabel(t *series.Table) string {
	if len(t.Columns) == 0 {
		return ""
	}
	unit := t.Columns[0].Unit
	for _, c := range t.Columns[1:] {
		if c.Unit != unit {
			return ""
		}
	}
	if len(t.Columns) == 1 {
		return t.Columns[0].Label()
	}
	return unit
}

// PNG renders t into w.
func PNG(w io.Writer, t *series.Table) error {
	p, err := New(t)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(Width, Height, "png")
	if err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}

// Bytes renders t and returns the encoded PNG.
func Bytes(t *series.Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := PNG(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
