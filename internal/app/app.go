// Package app assembles the profile stores and the physics use case from
// configuration. It is shared by the HTTP server and the CLI.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"go.ngs.io/seawater/internal/adapter/store"
	"go.ngs.io/seawater/internal/adapter/store/bathymetry"
	"go.ngs.io/seawater/internal/adapter/store/builtin"
	"go.ngs.io/seawater/internal/adapter/store/catalog"
	"go.ngs.io/seawater/internal/adapter/store/climatology"
	"go.ngs.io/seawater/internal/adapter/store/csv"
	"go.ngs.io/seawater/internal/adapter/store/yamlprofile"
	"go.ngs.io/seawater/internal/usecase"
)

// Source names reported in responses.
const (
	SourceCatalog     = "catalog"
	SourceYAML        = "yaml"
	SourceCSV         = "csv"
	SourceBuiltin     = "builtin"
	SourceClimatology = "climatology"
)

// Config selects the data sources. Empty paths disable a source.
type Config struct {
	ProfileDir      string // CSV and YAML profiles.
	ClimatologyPath string // NetCDF TS climatology.
	GEBCOPath       string // NetCDF elevation grid.
	CatalogPath     string // SQLite catalog.
	StationsPath    string // JSON station registry.
	DefaultSteps    int
}

// App holds the assembled use case and the resources to release.
type App struct {
	UseCase *usecase.PhysicsUseCase
	Catalog *catalog.Catalog // nil when no catalog is configured.

	closers []func() error
}

// Build opens the configured sources. Sources are consulted in the order
// catalog, YAML, CSV, built-in for profile ids and catalog, climatology for
// locations not covered by the station registry.
func Build(cfg Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{}

	var stations, locations store.Chain
	var listers []usecase.ProfileLister

	if cfg.CatalogPath != "" {
		cat, err := catalog.Open(cfg.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		a.Catalog = cat
		a.closers = append(a.closers, cat.Close)
		stations = append(stations, store.Source{Name: SourceCatalog, Loader: cat})
		locations = append(locations, store.Source{Name: SourceCatalog, Loader: cat})
		listers = append(listers, usecase.ProfileLister{Source: SourceCatalog, List: func() ([]string, error) {
			entries, err := cat.List()
			if err != nil {
				return nil, err
			}
			ids := make([]string, len(entries))
			for i, e := range entries {
				ids[i] = e.ID
			}
			return ids, nil
		}})
		logger.Info("profile catalog enabled", "path", cfg.CatalogPath)
	}

	if cfg.ProfileDir != "" {
		if _, err := os.Stat(cfg.ProfileDir); err != nil {
			logger.Warn("profile directory unavailable; file profiles disabled", "dir", cfg.ProfileDir, "error", err)
		} else {
			yamlLoader := yamlprofile.NewLoader(cfg.ProfileDir)
			csvStore := csv.NewProfileStore(cfg.ProfileDir)
			stations = append(stations,
				store.Source{Name: SourceYAML, Loader: yamlLoader},
				store.Source{Name: SourceCSV, Loader: csvStore},
			)
			listers = append(listers,
				usecase.ProfileLister{Source: SourceYAML, List: yamlLoader.List},
				usecase.ProfileLister{Source: SourceCSV, List: csvStore.ListStations},
			)
			logger.Info("file profiles enabled", "dir", cfg.ProfileDir)
		}
	}

	stations = append(stations, store.Source{Name: SourceBuiltin, Loader: builtin.Store{}})
	listers = append(listers, usecase.ProfileLister{Source: SourceBuiltin, List: func() ([]string, error) {
		return builtin.IDs(), nil
	}})

	if cfg.ClimatologyPath != "" {
		clim := climatology.NewStore(cfg.ClimatologyPath)
		a.closers = append(a.closers, clim.Close)
		locations = append(locations, store.Source{Name: SourceClimatology, Loader: clim})
		logger.Info("climatology enabled", "path", cfg.ClimatologyPath)
	}

	var seabed usecase.Seabed
	if cfg.GEBCOPath != "" {
		bathy := bathymetry.NewLocalStore(cfg.GEBCOPath)
		a.closers = append(a.closers, bathy.Close)
		seabed = bathy
		logger.Info("seabed clipping enabled", "path", cfg.GEBCOPath)
	}

	registry, err := usecase.LoadStationRegistry(cfg.StationsPath)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	if cfg.StationsPath != "" {
		logger.Info("station registry loaded", "path", cfg.StationsPath, "stations", len(registry.Stations()))
	}

	a.UseCase = usecase.NewPhysicsUseCase(usecase.Config{
		Stations:     stations,
		Locations:    locations,
		Registry:     registry,
		Seabed:       seabed,
		Listers:      listers,
		DefaultSteps: cfg.DefaultSteps,
	})
	return a, nil
}

// Close releases every opened source.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
