// Package proton tabulates proton beam quantities: the Bragg depth-dose
// curve, stopping power, CSDA range and lateral spread.
package proton

import (
	"fmt"
	"time"

	"Radviz/internal/calc"
	"Radviz/internal/calc/series"
	"Radviz/internal/physics/grid"
	"Radviz/internal/physics/material"
	"Radviz/internal/physics/stopping"
)

const (
	ModeBragg    = "bragg"
	ModeStopping = "stopping"
	ModeRange    = "range"
	ModeLateral  = "lateral"
)

type Input struct {
	Mode     string          `json:"mode" validate:"omitempty,oneof=bragg stopping range lateral"`
	Material string          `json:"material" validate:"required"`
	Custom   material.Custom `json:"custom"`

	// Beam energy for bragg and lateral.
	E0MeV *float64 `json:"e0_mev"`
	// Energy grid for stopping and range.
	EMinMeV *float64 `json:"emin_mev"`
	EMaxMeV *float64 `json:"emax_mev"`
	Scale   string   `json:"scale"`
	Points  int      `json:"points" validate:"omitempty,min=2,max=5000"`
	// Depth extent for lateral; defaults to the CSDA range.
	ZMaxCM *float64 `json:"zmax_cm" validate:"omitempty,gt=0"`

	// Optional overrides of the configured transport options.
	Steps      int      `json:"steps" validate:"omitempty,min=10,max=20000"`
	Straggling *float64 `json:"straggling" validate:"omitempty,gte=0,lte=0.1"`
}

const (
	defaultE0     = 150.0
	defaultEMin   = 10.0
	defaultEMax   = 250.0
	defaultPoints = 120
)

func Calculate(env *calc.Env, in Input) (*series.Table, error) {
	if err := calc.Validate(in); err != nil {
		return nil, err
	}
	mode := in.Mode
	if mode == "" {
		mode = ModeBragg
	}
	defer calc.Observe("proton", mode, time.Now())

	m, err := env.Material(in.Material, in.Custom)
	if err != nil {
		return nil, err
	}
	opts := env.Proton
	if in.Steps > 0 {
		opts.BraggSteps = in.Steps
	}
	if in.Straggling != nil {
		opts.StragglingFraction = *in.Straggling
		if opts.StragglingFraction == 0 {
			opts.StragglingFraction = -1
		}
	}
	opts = opts.WithDefaults()
	if in.Points == 0 {
		in.Points = defaultPoints
	}

	var t *series.Table
	switch mode {
	case ModeBragg:
		t, err = bragg(in, m, opts)
	case ModeStopping:
		t, err = stoppingPower(in, m)
	case ModeRange:
		t, err = csdaRange(in, m, opts)
	case ModeLateral:
		t, err = lateral(in, m, opts)
	}
	if err != nil {
		return nil, err
	}
	t.Tool = "proton_" + mode
	t.Params = append([]series.Param{
		{Name: "Mode", Value: mode},
		{Name: "Material", Value: m.Name},
	}, t.Params...)
	t.Param("Z", m.Z)
	t.Param("A", m.A)
	t.Param("Density (g/cm^3)", m.Density)
	t.Param("I (eV)", m.IeV)
	return t, t.Validate()
}

func bragg(in Input, m material.Material, o stopping.Options) (*series.Table, error) {
	e0 := calc.Or(in.E0MeV, defaultE0)
	b, err := stopping.BraggCurve(e0, m, o)
	if err != nil {
		return nil, err
	}
	t := &series.Table{
		Title: fmt.Sprintf("Bragg curve: %s (%g MeV)", m.Name, e0),
		X:     series.Column{Name: "Depth", Unit: "cm", Values: b.Depth},
	}
	t.Add("Relative dose", "", b.Dose)
	t.Add("Energy loss", "MeV/cm", b.EnergyLoss)
	t.Mark(fmt.Sprintf("Bragg peak (%.2f cm)", b.PeakDepthCM), b.PeakDepthCM)
	t.Param("E0 (MeV)", e0)
	t.Param("CSDA range (cm)", b.RangeCM)
	t.Param("Peak depth (cm)", b.PeakDepthCM)
	t.Param("Bragg steps", o.BraggSteps)
	t.Param("Straggling fraction", o.StragglingFraction)
	t.Note("Bragg peak is observed near the stopping depth, typical for therapeutic proton beams.")
	t.Note(fmt.Sprintf("Entrance dose is %.0f%% of the peak.", 100*b.Dose[0]))
	return t, nil
}

func energyGrid(in Input, def grid.Scale) ([]float64, grid.Scale, error) {
	scale, err := grid.ParseScale(in.Scale, def)
	if err != nil {
		return nil, "", err
	}
	e, err := grid.New(calc.Or(in.EMinMeV, defaultEMin), calc.Or(in.EMaxMeV, defaultEMax), in.Points, scale)
	return e, scale, err
}

func stoppingPower(in Input, m material.Material) (*series.Table, error) {
	e, scale, err := energyGrid(in, grid.Linear)
	if err != nil {
		return nil, err
	}
	s, err := stopping.StoppingCurve(e, m)
	if err != nil {
		return nil, err
	}
	lin := make([]float64, len(s))
	for i, v := range s {
		lin[i] = v * m.Density
	}
	t := &series.Table{
		Title: fmt.Sprintf("Stopping power: %s", m.Name),
		X:     series.Column{Name: "Energy", Unit: "MeV", Values: e},
		LogX:  scale == grid.Log,
		LogY:  scale == grid.Log,
	}
	t.Add("Mass stopping power", "MeV cm^2/g", s)
	t.Add("Linear stopping power", "MeV/cm", lin)
	t.Param("Energy range (MeV)", fmt.Sprintf("%g - %g", e[0], e[len(e)-1]))
	t.Param("Points", len(e))
	t.Param("Scale", string(scale))
	if v := stopping.MinValidEnergy(m); v > e[0] {
		t.Note(fmt.Sprintf("Below about %.2g MeV the Bethe formula without shell corrections is unreliable.", v))
	}
	t.Note("Stopping power decreases gradually with increasing energy, consistent with Bethe-Bloch predictions.")
	return t, nil
}

func csdaRange(in Input, m material.Material, o stopping.Options) (*series.Table, error) {
	e, scale, err := energyGrid(in, grid.Linear)
	if err != nil {
		return nil, err
	}
	r, err := stopping.RangeCurve(e, m, o)
	if err != nil {
		return nil, err
	}
	areal := make([]float64, len(r))
	for i, v := range r {
		areal[i] = v * m.Density
	}
	t := &series.Table{
		Title: fmt.Sprintf("CSDA range: %s", m.Name),
		X:     series.Column{Name: "Initial energy", Unit: "MeV", Values: e},
		LogX:  scale == grid.Log,
		LogY:  scale == grid.Log,
	}
	t.Add("CSDA range", "cm", r)
	t.Add("Areal range", "g/cm^2", areal)
	t.Param("Energy range (MeV)", fmt.Sprintf("%g - %g", e[0], e[len(e)-1]))
	t.Param("Points", len(e))
	t.Param("Scale", string(scale))
	t.Param("Cutoff (MeV)", o.CutoffMeV)
	t.Note("Range grows faster than linearly with initial energy (roughly as E^1.75).")
	return t, nil
}

func lateral(in Input, m material.Material, o stopping.Options) (*series.Table, error) {
	e0 := calc.Or(in.E0MeV, defaultE0)
	r, err := stopping.CSDARange(e0, m, o)
	if err != nil {
		return nil, err
	}
	zmax := calc.Or(in.ZMaxCM, r)
	z := grid.Linspace(0, zmax, in.Points)
	s, err := stopping.LateralCurve(z, e0, m)
	if err != nil {
		return nil, err
	}
	t := &series.Table{
		Title: fmt.Sprintf("Lateral spread: %s (%g MeV)", m.Name, e0),
		X:     series.Column{Name: "Depth", Unit: "cm", Values: z},
	}
	t.Add("Lateral sigma", "cm", s)
	t.Param("E0 (MeV)", e0)
	t.Param("Max depth (cm)", zmax)
	t.Param("CSDA range (cm)", r)
	t.Param("Radiation length (g/cm^2)", m.RadiationLength())
	t.Note("Lateral scattering increases with depth due to multiple Coulomb scattering.")
	if zmax > r {
		t.Mark(fmt.Sprintf("CSDA range (%.2f cm)", r), r)
		t.Note("Depths beyond the CSDA range are shown for reference only; the beam has stopped there.")
	}
	return t, nil
}
