// Package cli implements the seawater command line tool.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"go.ngs.io/seawater/internal/adapter/store/csv"
	"go.ngs.io/seawater/internal/adapter/store/yamlprofile"
	"go.ngs.io/seawater/internal/app"
	"go.ngs.io/seawater/internal/domain"
)

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type globalOptions struct {
	profileDir  string
	catalog     string
	climatology string
	gebco       string
	stations    string
	jsonOut     bool
	debug       bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:          "seawater",
		Short:        "Sea water properties, depth from pressure and acoustic path length",
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.profileDir, "profile-dir", os.Getenv("PROFILE_DIR"), "Directory of CSV (*_ts.csv) and YAML profiles")
	pf.StringVar(&opts.catalog, "catalog", os.Getenv("CATALOG_DB_PATH"), "SQLite profile catalog")
	pf.StringVar(&opts.climatology, "climatology", os.Getenv("CLIMATOLOGY_PATH"), "NetCDF TS climatology")
	pf.StringVar(&opts.gebco, "gebco", os.Getenv("BATHYMETRY_GEBCO_PATH"), "GEBCO NetCDF file for seabed clipping")
	pf.StringVar(&opts.stations, "stations", os.Getenv("STATIONS_PATH"), "JSON station registry")
	pf.BoolVar(&opts.jsonOut, "json", false, "print results as JSON")
	pf.BoolVar(&opts.debug, "debug", false, "enable verbose logging to stderr")

	cmd.AddCommand(
		propsCmd(opts),
		absorptionCmd(opts),
		convertCmd(opts),
		depthCmd(opts),
		soundPathCmd(opts),
		profilesCmd(opts),
		importCmd(opts),
	)
	return cmd
}

func (o *globalOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (o *globalOptions) openApp(cmd *cobra.Command) (*app.App, error) {
	return app.Build(app.Config{
		ProfileDir:      o.profileDir,
		ClimatologyPath: o.climatology,
		GEBCOPath:       o.gebco,
		CatalogPath:     o.catalog,
		StationsPath:    o.stations,
	}, o.logger(cmd.ErrOrStderr()))
}

func (o *globalOptions) print(cmd *cobra.Command, v any, text func(w io.Writer)) error {
	w := cmd.OutOrStdout()
	if o.jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}

// optionalFloat returns a pointer to v when the flag was set.
func optionalFloat(cmd *cobra.Command, name string, v float64) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

// readProfileFile loads a CSV or YAML profile file. The YAML latitude and
// longitude are returned when present.
func readProfileFile(path string) (domain.TSProfile, *yamlprofile.Document, error) {
	//nolint:gosec // G304: path given on the command line.
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		profile, err := csv.Read(f)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		return profile, nil, nil
	case ".yaml", ".yml":
		doc, err := yamlprofile.Decode(f)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		return doc.Points, doc, nil
	default:
		return nil, nil, fmt.Errorf("%s: unsupported profile format (want .csv, .yaml or .yml)", path)
	}
}

func formatOptional(v *float64, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}
