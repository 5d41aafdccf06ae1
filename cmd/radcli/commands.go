package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"Radviz/internal/calc"
	"Radviz/internal/calc/batch"
	"Radviz/internal/calc/gamma"
	"Radviz/internal/calc/proton"
	"Radviz/internal/calc/render"
	"Radviz/internal/calc/series"
	"Radviz/internal/calc/shield"
	"Radviz/internal/calc/xray"
	"Radviz/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	coefficientsFile string
	outPath          string
	inputPath        string

	env *calc.Env

	rootCmd = &cobra.Command{
		Use:          "radcli",
		Short:        "Compute radiation-matter interaction tables offline",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			env, err = loadEnv(coefficientsFile)
			return err
		},
	}

	materialsCmd = &cobra.Command{
		Use:   "materials",
		Short: "List the built-in materials",
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(calc.MaterialList{Keys: env.Materials.Keys(), Materials: env.Materials.All()})
		},
	}

	shieldCmd = &cobra.Command{
		Use:   "shield",
		Short: "Size photon shielding slabs for a target transmission",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := shield.Size(env, shieldIn)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}

	batchCmd = &cobra.Command{
		Use:   "batch [file.xlsx]",
		Short: "Evaluate every row of a spreadsheet (material, energy_mev, thickness_cm)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			res, err := batch.Import(env, f)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
)

func loadEnv(path string) (*calc.Env, error) {
	if path == "" {
		return calc.DefaultEnv(), nil
	}
	return config.Config{CoefficientsFile: path}.Env()
}

// toolCmd builds a subcommand around a flag-bound input. With --input the
// JSON file is loaded first and explicitly set flags are applied on top.
func toolCmd[In any](use, short string, in *In, bind func(*cobra.Command), run func(*calc.Env, In) (*series.Table, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyInput(cmd, in, inputPath); err != nil {
				return err
			}
			t, err := run(env, *in)
			if err != nil {
				return err
			}
			return writeTable(cmd.OutOrStdout(), outPath, t)
		},
	}
	bind(cmd)
	return cmd
}

func applyInput(cmd *cobra.Command, in any, path string) error {
	if path == "" {
		return nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	changed := map[string]string{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = f.Value.String() })
	if err := json.Unmarshal(b, in); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	for name, v := range changed {
		if err := cmd.Flags().Set(name, v); err != nil {
			return err
		}
	}
	return nil
}

func writeTable(stdout io.Writer, path string, t *series.Table) error {
	if path == "" || path == "-" {
		return render.Encode(stdout, render.JSON, t)
	}
	f, err := render.FormatFromPath(path)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render.Encode(out, f, t); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

var (
	xrayIn   xray.Input
	gammaIn  gamma.Input
	protonIn proton.Input
	shieldIn shield.Input
)

func init() {
	rootCmd.PersistentFlags().StringVar(&coefficientsFile, "coefficients", os.Getenv("COEFFICIENTS_FILE"), "YAML file with model coefficients and material overrides")
	rootCmd.PersistentFlags().StringVarP(&outPath, "out", "o", "", "output file; format from extension (.json, .png, .xlsx, .pdf); stdout JSON when empty")
	rootCmd.PersistentFlags().StringVarP(&inputPath, "input", "i", "", "JSON request body to start from")

	shieldCmd.Flags().Float64VarP(&shieldIn.EnergyMeV, "energy", "e", 1, "photon energy, MeV")
	shieldCmd.Flags().StringSliceVarP(&shieldIn.Materials, "material", "m", nil, "materials to compare (default all)")
	floatPtrFlag(shieldCmd, &shieldIn.Transmission, "transmission", "target transmitted fraction (default 0.1)")
	customFlags(shieldCmd, &shieldIn.Custom)

	rootCmd.AddCommand(
		materialsCmd,
		batchCmd,
		shieldCmd,
		toolCmd("xray", "Relative photoelectric, Compton and Rayleigh strengths (keV)", &xrayIn, func(c *cobra.Command) {
			fl := c.Flags()
			fl.StringVarP(&xrayIn.Material, "material", "m", "bone", "material key or \"custom\"")
			fl.StringVar(&xrayIn.Material2, "compare", "", "optional comparison material")
			fl.StringVar(&xrayIn.Scale, "scale", "linear", "energy grid scale: linear or log")
			fl.IntVar(&xrayIn.Points, "points", 300, "grid points")
			fl.BoolVar(&xrayIn.Raw, "raw", false, "report unnormalised strengths")
			floatPtrFlag(c, &xrayIn.EMinKeV, "emin", "lowest energy, keV")
			floatPtrFlag(c, &xrayIn.EMaxKeV, "emax", "highest energy, keV")
			customFlags(c, &xrayIn.Custom)
		}, xray.Calculate),
		toolCmd("gamma", "Photon attenuation coefficients (MeV)", &gammaIn, func(c *cobra.Command) {
			fl := c.Flags()
			fl.StringVar(&gammaIn.Mode, "mode", "attenuation", "attenuation or angular")
			fl.StringVarP(&gammaIn.Material, "material", "m", "lead", "material key or \"custom\"")
			fl.StringVar(&gammaIn.Material2, "compare", "", "optional comparison material")
			fl.StringVar(&gammaIn.Scale, "scale", "log", "energy grid scale: linear or log")
			fl.IntVar(&gammaIn.Points, "points", 0, "grid points")
			fl.BoolVar(&gammaIn.MassCoeff, "mass", false, "report mu/rho instead of mu")
			floatPtrFlag(c, &gammaIn.EMinMeV, "emin", "lowest energy, MeV")
			floatPtrFlag(c, &gammaIn.EMaxMeV, "emax", "highest energy, MeV")
			floatPtrFlag(c, &gammaIn.ThicknessCM, "thickness", "slab thickness for transmission, cm")
			floatPtrFlag(c, &gammaIn.EnergyMeV, "energy", "incident energy for the angular mode, MeV")
			customFlags(c, &gammaIn.Custom)
		}, gamma.Calculate),
		toolCmd("proton", "Proton Bragg curve, stopping power, range or lateral spread", &protonIn, func(c *cobra.Command) {
			fl := c.Flags()
			fl.StringVar(&protonIn.Mode, "mode", "bragg", "bragg, stopping, range or lateral")
			fl.StringVarP(&protonIn.Material, "material", "m", "water", "material key or \"custom\"")
			fl.StringVar(&protonIn.Scale, "scale", "linear", "energy grid scale: linear or log")
			fl.IntVar(&protonIn.Points, "points", 0, "grid points")
			fl.IntVar(&protonIn.Steps, "steps", 0, "Bragg depth steps")
			floatPtrFlag(c, &protonIn.E0MeV, "e0", "beam energy, MeV")
			floatPtrFlag(c, &protonIn.EMinMeV, "emin", "lowest energy, MeV")
			floatPtrFlag(c, &protonIn.EMaxMeV, "emax", "highest energy, MeV")
			floatPtrFlag(c, &protonIn.ZMaxCM, "zmax", "maximum depth for lateral, cm")
			floatPtrFlag(c, &protonIn.Straggling, "straggling", "range straggling as a fraction of range (0 disables)")
			customFlags(c, &protonIn.Custom)
		}, proton.Calculate),
	)
}
