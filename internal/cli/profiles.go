package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"go.ngs.io/seawater/internal/adapter/store/catalog"
)

func profilesCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles [id]",
		Short: "List known TS profiles, or print one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			if len(args) == 1 {
				detail, err := a.UseCase.Profile(args[0])
				if err != nil {
					return err
				}
				return opts.print(cmd, detail, func(w io.Writer) {
					_, _ = fmt.Fprintf(w, "# %s (%s), latitude %s\n", detail.ID, detail.Source, formatOptional(detail.Latitude, "%.4f"))
					_, _ = fmt.Fprintln(w, "z_m,t_c,s_psu")
					for _, pt := range detail.Data {
						_, _ = fmt.Fprintf(w, "%g,%g,%g\n", pt.Z, pt.T, pt.S)
					}
				})
			}

			summaries, err := a.UseCase.Profiles()
			if err != nil {
				return err
			}
			return opts.print(cmd, summaries, func(w io.Writer) {
				for _, s := range summaries {
					_, _ = fmt.Fprintf(w, "%-24s %s\n", s.ID, s.Source)
				}
			})
		},
	}
}

func importCmd(opts *globalOptions) *cobra.Command {
	var id, name string
	var lat, lon float64

	c := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a CSV or YAML profile into the SQLite catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.catalog == "" {
				return errors.New("--catalog is required")
			}
			profile, doc, err := readProfileFile(args[0])
			if err != nil {
				return err
			}

			if id == "" {
				id = profileIDFromPath(args[0])
			}
			var loc *catalog.Location
			switch {
			case cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon"):
				if !cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lon") {
					return errors.New("--lat and --lon must be given together")
				}
				loc = &catalog.Location{Lat: lat, Lon: lon}
			case doc != nil && doc.Latitude != nil && doc.Longitude != nil:
				loc = &catalog.Location{Lat: *doc.Latitude, Lon: *doc.Longitude}
			}
			if name == "" && doc != nil {
				name = doc.Name
			}

			cat, err := catalog.Open(opts.catalog)
			if err != nil {
				return err
			}
			defer func() { _ = cat.Close() }()

			revision, err := cat.Save(id, name, loc, profile)
			if err != nil {
				return err
			}
			out := struct {
				ID       string `json:"id"`
				Points   int    `json:"points"`
				Revision string `json:"revision"`
			}{strings.ToLower(strings.TrimSpace(id)), len(profile), revision}
			return opts.print(cmd, out, func(w io.Writer) {
				_, _ = fmt.Fprintf(w, "imported %s (%d points, revision %s)\n", out.ID, out.Points, out.Revision)
			})
		},
	}

	f := c.Flags()
	f.StringVar(&id, "id", "", "profile id (default: file name)")
	f.StringVar(&name, "name", "", "display name")
	f.Float64Var(&lat, "lat", 0, "latitude of the profile")
	f.Float64Var(&lon, "lon", 0, "longitude of the profile")
	return c
}

// profileIDFromPath derives an id from a file name, dropping the CSV
// "_ts" suffix.
func profileIDFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimSuffix(base, "_ts")
}
