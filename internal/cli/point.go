package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"go.ngs.io/seawater/internal/domain"
	"go.ngs.io/seawater/internal/usecase"
)

func propsCmd(opts *globalOptions) *cobra.Command {
	var t, p, s, lat, freq, depth, ph float64

	c := &cobra.Command{
		Use:   "props",
		Short: "Density, sound speed and freezing point at one point",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := usecase.NewPhysicsUseCase(usecase.Config{})
			resp, err := uc.Properties(usecase.PropertiesRequest{
				Temperature:  t,
				Pressure:     p,
				Salinity:     s,
				Lat:          optionalFloat(cmd, "lat", lat),
				FrequencyKHz: optionalFloat(cmd, "freq", freq),
				DepthM:       optionalFloat(cmd, "depth", depth),
				PH:           optionalFloat(cmd, "ph", ph),
			})
			if err != nil {
				return err
			}
			return opts.print(cmd, resp, func(w io.Writer) {
				_, _ = fmt.Fprintf(w, "density          %.4f kg/m3\n", resp.Density)
				_, _ = fmt.Fprintf(w, "sound speed      %.3f m/s\n", resp.SoundSpeed)
				if !resp.SoundSpeedPlausible {
					_, _ = fmt.Fprintf(w, "                 (outside %.0f..%.0f m/s)\n", domain.MinSoundSpeedMps, domain.MaxSoundSpeedMps)
				}
				_, _ = fmt.Fprintf(w, "freezing point   %.4f C\n", resp.FreezingPoint)
				if resp.Gravity != nil {
					_, _ = fmt.Fprintf(w, "gravity          %.6f m/s2\n", *resp.Gravity)
				}
				if resp.Absorption != nil {
					_, _ = fmt.Fprintf(w, "absorption       %.4f dB/km at %.1f m\n", *resp.Absorption, *resp.AbsorptionDepthM)
				}
			})
		},
	}

	f := c.Flags()
	f.Float64VarP(&t, "temp", "t", 0, "temperature in C (required)")
	f.Float64VarP(&p, "pressure", "p", domain.AtmPressureMbar, "absolute pressure in mBar")
	f.Float64VarP(&s, "salinity", "s", domain.DefaultSalinityPSU, "salinity in PSU")
	f.Float64Var(&lat, "lat", 0, "latitude in degrees, adds gravity")
	f.Float64Var(&freq, "freq", 0, "frequency in kHz, adds absorption")
	f.Float64Var(&depth, "depth", 0, "absorption depth in m (default: derived from pressure)")
	f.Float64Var(&ph, "ph", usecase.DefaultPH, "absorption pH")

	_ = c.MarkFlagRequired("temp")
	return c
}

func absorptionCmd(opts *globalOptions) *cobra.Command {
	var freq, t, s, depth, ph float64

	c := &cobra.Command{
		Use:   "absorption",
		Short: "Sound absorption in dB/km",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if freq <= 0 {
				return errors.New("--freq must be positive")
			}
			if depth < 0 {
				return errors.New("--depth must be non-negative")
			}
			a := domain.Absorption(freq, t, s, depth, ph)
			out := struct {
				FrequencyKHz float64 `json:"frequency_khz"`
				Absorption   float64 `json:"absorption_db_per_km"`
			}{freq, a}
			return opts.print(cmd, out, func(w io.Writer) {
				_, _ = fmt.Fprintf(w, "%.4f dB/km\n", a)
			})
		},
	}

	f := c.Flags()
	f.Float64VarP(&freq, "freq", "f", 0, "frequency in kHz (required)")
	f.Float64VarP(&t, "temp", "t", 10, "temperature in C")
	f.Float64VarP(&s, "salinity", "s", domain.DefaultSalinityPSU, "salinity in PSU")
	f.Float64VarP(&depth, "depth", "d", 0, "depth in m")
	f.Float64Var(&ph, "ph", usecase.DefaultPH, "pH")

	_ = c.MarkFlagRequired("freq")
	return c
}

func convertCmd(opts *globalOptions) *cobra.Command {
	var depth, pressure, p0, rho, g, lat float64

	c := &cobra.Command{
		Use:   "convert",
		Short: "Convert between depth and pressure at constant density",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			hasDepth, hasPressure := cmd.Flags().Changed("depth"), cmd.Flags().Changed("pressure")
			if hasDepth == hasPressure {
				return errors.New("exactly one of --depth or --pressure is required")
			}
			req := usecase.ConversionRequest{
				SurfacePressureMbar: optionalFloat(cmd, "p0", p0),
				Density:             optionalFloat(cmd, "rho", rho),
				Gravity:             optionalFloat(cmd, "g", g),
				Lat:                 optionalFloat(cmd, "lat", lat),
			}
			uc := usecase.NewPhysicsUseCase(usecase.Config{})
			var resp *usecase.ConversionResponse
			var err error
			if hasDepth {
				req.Value = depth
				resp, err = uc.ConvertDepth(req)
			} else {
				req.Value = pressure
				resp, err = uc.ConvertPressure(req)
			}
			if err != nil {
				return err
			}
			return opts.print(cmd, resp, func(w io.Writer) {
				_, _ = fmt.Fprintf(w, "%.3f m = %.3f mBar (rho %.2f kg/m3, g %.5f m/s2)\n",
					resp.DepthM, resp.PressureMbar, resp.Density, resp.Gravity)
			})
		},
	}

	f := c.Flags()
	f.Float64Var(&depth, "depth", 0, "depth in m")
	f.Float64Var(&pressure, "pressure", 0, "absolute pressure in mBar")
	f.Float64Var(&p0, "p0", domain.AtmPressureMbar, "surface pressure in mBar")
	f.Float64Var(&rho, "rho", domain.SeaWaterDensityKgM3, "density in kg/m3")
	f.Float64Var(&g, "g", domain.StandardGravityMps2, "gravity in m/s2")
	f.Float64Var(&lat, "lat", 0, "latitude in degrees, derives gravity")
	return c
}
