// Package shield sizes narrow-beam photon slabs: the thickness of each
// material that brings transmission down to a target fraction.
package shield

import (
	"fmt"
	"math"
	"sort"
	"time"

	"Radviz/internal/calc"
	"Radviz/internal/physics"
	"Radviz/internal/physics/material"
	"Radviz/internal/physics/xsec"
)

const defaultTransmission = 0.1

type Input struct {
	EnergyMeV float64 `json:"energy_mev" validate:"gt=0"`
	// Transmission is the target surviving fraction, default 0.1 (one TVL).
	Transmission *float64 `json:"transmission" validate:"omitempty,gt=0,lt=1"`
	// Materials to size; every built-in material when empty.
	Materials []string        `json:"materials" validate:"max=100"`
	Custom    material.Custom `json:"custom"`
}

type Option struct {
	Material string  `json:"material"`
	Key      string  `json:"key"`
	MuCM     float64 `json:"mu_cm"`
	HVLCM    float64 `json:"hvl_cm"`
	TVLCM    float64 `json:"tvl_cm"`
	// ThicknessCM reaches the target transmission.
	ThicknessCM float64 `json:"thickness_cm"`
	// ArealDensity is ThicknessCM * density, g/cm^2.
	ArealDensity float64 `json:"areal_density_g_cm2"`
}

type Result struct {
	EnergyMeV    float64  `json:"energy_mev"`
	Transmission float64  `json:"transmission"`
	Options      []Option `json:"options"`
	// Thinnest and Lightest name the best options by thickness and by mass.
	Thinnest string `json:"thinnest"`
	Lightest string `json:"lightest"`
	Notes    string `json:"notes"`
}

// Size computes the required thickness for every requested material and
// sorts the options thinnest first.
func Size(env *calc.Env, in Input) (Result, error) {
	if err := calc.Validate(in); err != nil {
		return Result{}, err
	}
	defer calc.Observe("shield", "size", time.Now())

	target := calc.Or(in.Transmission, defaultTransmission)
	keys := in.Materials
	if len(keys) == 0 {
		keys = env.Materials.Keys()
	}

	res := Result{EnergyMeV: in.EnergyMeV, Transmission: target}
	for _, key := range keys {
		m, err := env.Material(key, in.Custom)
		if err != nil {
			return Result{}, err
		}
		opt, err := size(env, m, in.EnergyMeV, target)
		if err != nil {
			return Result{}, fmt.Errorf("%s: %w", m.Name, err)
		}
		res.Options = append(res.Options, opt)
	}
	sort.SliceStable(res.Options, func(i, j int) bool {
		return res.Options[i].ThicknessCM < res.Options[j].ThicknessCM
	})

	res.Thinnest = res.Options[0].Material
	lightest := res.Options[0]
	for _, o := range res.Options[1:] {
		if o.ArealDensity < lightest.ArealDensity {
			lightest = o
		}
	}
	res.Lightest = lightest.Material
	res.Notes = fmt.Sprintf("Narrow-beam estimate without buildup; %s needs %.3g cm to transmit %.3g of %.3g MeV photons.",
		res.Thinnest, res.Options[0].ThicknessCM, target, in.EnergyMeV)
	return res, nil
}

func size(env *calc.Env, m material.Material, e, target float64) (Option, error) {
	att, err := xsec.Attenuate(e, m, env.Coefficients)
	if err != nil {
		return Option{}, err
	}
	mu := att.Linear.Total
	hvl, err := xsec.HalfValueLayer(mu)
	if err != nil {
		return Option{}, err
	}
	x := -math.Log(target) / mu
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return Option{}, fmt.Errorf("%w: thickness for μ=%v", physics.ErrNumerical, mu)
	}
	return Option{
		Material:     m.Name,
		Key:          m.Key,
		MuCM:         mu,
		HVLCM:        hvl,
		TVLCM:        math.Ln10 / mu,
		ThicknessCM:  x,
		ArealDensity: x * m.Density,
	}, nil
}
