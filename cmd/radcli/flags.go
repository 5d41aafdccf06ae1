package main

import (
	"strconv"

	"Radviz/internal/physics/material"
	"github.com/spf13/cobra"
)

// optionalFloat is a flag that leaves its target nil until set, so the
// calculation can apply its own default.
type optionalFloat struct{ p **float64 }

func (o optionalFloat) String() string {
	if *o.p == nil {
		return ""
	}
	return strconv.FormatFloat(**o.p, 'g', -1, 64)
}

func (o optionalFloat) Set(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*o.p = &v
	return nil
}

func (o optionalFloat) Type() string { return "float" }

func floatPtrFlag(c *cobra.Command, p **float64, name, usage string) {
	c.Flags().Var(optionalFloat{p}, name, usage)
}

func customFlags(c *cobra.Command, m *material.Custom) {
	fl := c.Flags()
	fl.StringVar(&m.Name, "custom-name", "", "custom material name")
	fl.Float64Var(&m.Z, "custom-z", 0, "custom material atomic number")
	fl.Float64Var(&m.A, "custom-a", 0, "custom material atomic mass (default 2Z)")
	fl.Float64Var(&m.Density, "custom-density", 0, "custom material density, g/cm^3")
	fl.Float64Var(&m.IeV, "custom-i", 0, "custom material mean excitation energy, eV (default 16 Z^0.9)")
}
