package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"go.ngs.io/seawater/internal/usecase"
)

// profileFlags selects the TS profile of an integration.
type profileFlags struct {
	id   string
	file string
	lat  float64
	lon  float64
}

func (pf *profileFlags) register(c *cobra.Command) {
	f := c.Flags()
	f.StringVar(&pf.id, "profile", "", "profile id (catalog, profile dir or built-in)")
	f.StringVar(&pf.file, "file", "", "CSV or YAML profile file")
	f.Float64Var(&pf.lat, "lat", 0, "latitude of the location profile")
	f.Float64Var(&pf.lon, "lon", 0, "longitude of the location profile")
	c.MarkFlagsMutuallyExclusive("profile", "file", "lat")
	c.MarkFlagsMutuallyExclusive("profile", "file", "lon")
	c.MarkFlagsRequiredTogether("lat", "lon")
}

func (pf *profileFlags) ref(cmd *cobra.Command) (usecase.ProfileRef, error) {
	ref := usecase.ProfileRef{
		ID:  pf.id,
		Lat: optionalFloat(cmd, "lat", pf.lat),
		Lon: optionalFloat(cmd, "lon", pf.lon),
	}
	if pf.file != "" {
		profile, doc, err := readProfileFile(pf.file)
		if err != nil {
			return ref, err
		}
		ref.Inline = profile
		if doc != nil {
			ref.InlineLat = doc.Latitude
		}
	}
	return ref, nil
}

func depthCmd(opts *globalOptions) *cobra.Command {
	var pressure, p0, g float64
	var steps int
	var pf profileFlags

	c := &cobra.Command{
		Use:   "depth",
		Short: "Depth at which a pressure is reached, integrated over a TS profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ref, err := pf.ref(cmd)
			if err != nil {
				return err
			}
			a, err := opts.openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			resp, err := a.UseCase.DepthByPressure(usecase.DepthRequest{
				PressureMbar:        pressure,
				SurfacePressureMbar: optionalFloat(cmd, "p0", p0),
				Gravity:             optionalFloat(cmd, "g", g),
				Steps:               steps,
				Profile:             ref,
			})
			if err != nil {
				return err
			}
			return opts.print(cmd, resp, func(w io.Writer) {
				_, _ = fmt.Fprintf(w, "depth    %.3f m\n", resp.DepthM)
				_, _ = fmt.Fprintf(w, "gravity  %.6f m/s2 (%s)\n", resp.Gravity, resp.GravitySource)
				printProfileInfo(w, resp.Profile)
			})
		},
	}

	f := c.Flags()
	f.Float64VarP(&pressure, "pressure", "p", 0, "absolute pressure in mBar (required)")
	f.Float64Var(&p0, "p0", 0, "surface pressure in mBar (default: 1013.25)")
	f.Float64Var(&g, "g", 0, "gravity in m/s2 (default: from the profile latitude)")
	f.IntVar(&steps, "steps", 0, "integration steps (default: 1000)")
	pf.register(c)

	_ = c.MarkFlagRequired("pressure")
	return c
}

func soundPathCmd(opts *globalOptions) *cobra.Command {
	var tof, g float64
	var steps int
	var pf profileFlags

	c := &cobra.Command{
		Use:   "soundpath",
		Short: "Vertical distance a ping covers in a time of flight",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ref, err := pf.ref(cmd)
			if err != nil {
				return err
			}
			a, err := opts.openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			resp, err := a.UseCase.SoundPath(usecase.SoundPathRequest{
				TimeOfFlightS: tof,
				Gravity:       optionalFloat(cmd, "g", g),
				Steps:         steps,
				Profile:       ref,
			})
			if err != nil {
				return err
			}
			return opts.print(cmd, resp, func(w io.Writer) {
				_, _ = fmt.Fprintf(w, "distance  %.3f m\n", resp.DistanceM)
				_, _ = fmt.Fprintf(w, "mean c    %s m/s\n", formatOptional(resp.MeanSoundSpeed, "%.3f"))
				_, _ = fmt.Fprintf(w, "gravity   %.6f m/s2 (%s)\n", resp.Gravity, resp.GravitySource)
				printProfileInfo(w, resp.Profile)
			})
		},
	}

	f := c.Flags()
	f.Float64Var(&tof, "tof", 0, "one-way time of flight in s (required)")
	f.Float64Var(&g, "g", 0, "gravity in m/s2 (default: from the profile latitude)")
	f.IntVar(&steps, "steps", 0, "integration steps (default: 1000)")
	pf.register(c)

	_ = c.MarkFlagRequired("tof")
	return c
}

func printProfileInfo(w io.Writer, info usecase.ProfileInfo) {
	name := info.ID
	if name == "" {
		name = "(" + info.Source + ")"
	}
	_, _ = fmt.Fprintf(w, "profile  %s from %s, %d points to %.1f m\n", name, info.Source, info.Points, info.MaxDepthM)
	if info.Station != "" {
		_, _ = fmt.Fprintf(w, "station  %s (%s km)\n", info.Station, formatOptional(info.StationDistKm, "%.1f"))
	}
	if info.SeabedDepthM != nil {
		_, _ = fmt.Fprintf(w, "seabed   %.1f m\n", *info.SeabedDepthM)
	}
	for _, warn := range info.Warnings {
		_, _ = fmt.Fprintf(w, "warning  %s\n", warn)
	}
}
