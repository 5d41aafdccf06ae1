// Package batch evaluates many single-energy points at once, from JSON or
// from an uploaded spreadsheet.
package batch

import (
	"errors"
	"fmt"
	"time"

	"Radviz/internal/calc"
	"Radviz/internal/physics"
	"Radviz/internal/physics/material"
	"Radviz/internal/physics/stopping"
	"Radviz/internal/physics/xsec"
)

// MaxItems bounds one batch.
const MaxItems = 1000

type Item struct {
	Material  string          `json:"material" validate:"required"`
	Custom    material.Custom `json:"custom"`
	EnergyMeV float64         `json:"energy_mev"`
	// ThicknessCM adds photon transmission through a slab.
	ThicknessCM float64 `json:"thickness_cm" validate:"gte=0"`
}

type Input struct {
	Items []Item `json:"items" validate:"required,min=1,max=1000,dive"`
}

// Photon is the photon side of a point evaluation.
type Photon struct {
	Mass         xsec.Components `json:"mass"`
	Linear       xsec.Components `json:"linear"`
	Dominant     string          `json:"dominant"`
	HVLCM        float64         `json:"hvl_cm"`
	Transmission *float64        `json:"transmission,omitempty"`
}

// Proton is the proton side of a point evaluation.
type Proton struct {
	MassStopping   float64 `json:"mass_stopping_mev_cm2_g"`
	LinearStopping float64 `json:"linear_stopping_mev_cm"`
	CSDARangeCM    float64 `json:"csda_range_cm"`
}

type Result struct {
	Material  string  `json:"material"`
	EnergyMeV float64 `json:"energy_mev"`
	Photon    Photon  `json:"photon"`
	Proton    *Proton `json:"proton,omitempty"`
}

type Output struct {
	Count   int      `json:"count"`
	Results []Result `json:"results"`
}

// Calculate evaluates every item and stops at the first failure.
func Calculate(env *calc.Env, in Input) (Output, error) {
	if err := calc.Validate(in); err != nil {
		return Output{}, err
	}
	defer calc.Observe("batch", "points", time.Now())
	out := Output{Results: make([]Result, 0, len(in.Items))}
	for i, item := range in.Items {
		res, err := Evaluate(env, item)
		if err != nil {
			return Output{}, fmt.Errorf("item %d: %w", i+1, err)
		}
		out.Results = append(out.Results, res)
	}
	out.Count = len(out.Results)
	return out, nil
}

// Evaluate computes photon attenuation and, where the Bethe formula
// applies, proton stopping power and range for one point.
func Evaluate(env *calc.Env, item Item) (Result, error) {
	m, err := env.Material(item.Material, item.Custom)
	if err != nil {
		return Result{}, err
	}
	att, err := xsec.Attenuate(item.EnergyMeV, m, env.Coefficients)
	if err != nil {
		return Result{}, err
	}
	res := Result{
		Material:  m.Name,
		EnergyMeV: item.EnergyMeV,
		Photon: Photon{
			Mass:     att.Mass,
			Linear:   att.Linear,
			Dominant: att.Mass.Dominant(),
		},
	}
	if hvl, err := xsec.HalfValueLayer(att.Linear.Total); err == nil {
		res.Photon.HVLCM = hvl
	}
	if item.ThicknessCM > 0 {
		tr := xsec.Transmission(att.Linear.Total, item.ThicknessCM)
		res.Photon.Transmission = &tr
	}

	if item.EnergyMeV < stopping.MinValidEnergy(m) {
		return res, nil
	}
	s, err := stopping.MassStoppingPower(item.EnergyMeV, m)
	if errors.Is(err, physics.ErrDomain) {
		return res, nil
	}
	if err != nil {
		return Result{}, err
	}
	r, err := stopping.CSDARange(item.EnergyMeV, m, env.Proton)
	if err != nil {
		return Result{}, err
	}
	res.Proton = &Proton{MassStopping: s, LinearStopping: s * m.Density, CSDARangeCM: r}
	return res, nil
}
