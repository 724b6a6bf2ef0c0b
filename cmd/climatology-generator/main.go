// Package main generates a NetCDF temperature/salinity climatology from a
// reference profile, for development and test data.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/fhs/go-netcdf/netcdf"

	"go.ngs.io/seawater/internal/adapter/store/bathymetry"
	"go.ngs.io/seawater/internal/adapter/store/builtin"
	"go.ngs.io/seawater/internal/adapter/store/csv"
	"go.ngs.io/seawater/internal/adapter/store/yamlprofile"
	"go.ngs.io/seawater/internal/domain"
)

// fillValue marks levels below the seabed and land columns.
const fillValue float32 = 9.96921e36

// RegionalGrid defines the geographic bounds and resolution.
type RegionalGrid struct {
	LatMin     float64
	LatMax     float64
	LonMin     float64
	LonMax     float64
	Resolution float64 // degrees
}

func (g RegionalGrid) axes() (lat, lon []float64) {
	nLat := int(math.Round((g.LatMax-g.LatMin)/g.Resolution)) + 1
	nLon := int(math.Round((g.LonMax-g.LonMin)/g.Resolution)) + 1
	lat = make([]float64, nLat)
	for i := range lat {
		lat[i] = g.LatMin + float64(i)*g.Resolution
	}
	lon = make([]float64, nLon)
	for j := range lon {
		lon[j] = g.LonMin + float64(j)*g.Resolution
	}
	return lat, lon
}

// Model shifts the reference temperature with latitude. The surface
// anomaly is Gradient °C per degree of latitude closer to the equator than
// RefLat and decays with depth over DecayM meters.
type Model struct {
	Reference domain.TSProfile
	RefLat    float64
	Gradient  float64
	DecayM    float64
}

func (m Model) temperature(i int, lat float64) float64 {
	pt := m.Reference[i]
	dT := m.Gradient * (math.Abs(m.RefLat) - math.Abs(lat)) * math.Exp(-pt.Z/m.DecayM)
	t := pt.T + dT
	p := domain.PressureFromDepth(pt.Z, domain.AtmPressureMbar, domain.SeaWaterDensityKgM3, domain.GravityDeg(lat))
	return math.Max(t, domain.FreezingPoint(p, pt.S))
}

type seabed interface {
	SeabedDepth(lat, lon float64) (float64, bool, error)
}

func main() {
	profileID := flag.String("profile", "north_pacific", "Built-in reference profile")
	profilePath := flag.String("file", "", "CSV or YAML reference profile (overrides -profile)")
	out := flag.String("out", "./data/climatology.nc", "Output NetCDF file")
	region := flag.String("region", "north-pacific", "Region: north-pacific, global, or custom")
	latMin := flag.Float64("lat-min", 20.0, "Minimum latitude (custom region)")
	latMax := flag.Float64("lat-max", 50.0, "Maximum latitude (custom region)")
	lonMin := flag.Float64("lon-min", 120.0, "Minimum longitude (custom region)")
	lonMax := flag.Float64("lon-max", 150.0, "Maximum longitude (custom region)")
	resolution := flag.Float64("resolution", 1.0, "Grid resolution in degrees")
	refLat := flag.Float64("ref-lat", math.NaN(), "Latitude of the reference profile (default: from the profile)")
	gradient := flag.Float64("gradient", 0.4, "Surface temperature change per degree of latitude, C")
	decay := flag.Float64("decay", 300, "Depth scale of the temperature anomaly, m")
	gebcoPath := flag.String("gebco", "", "GEBCO NetCDF file; masks land and levels below the seabed")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var grid RegionalGrid
	switch *region {
	case "north-pacific":
		grid = RegionalGrid{LatMin: 20, LatMax: 60, LonMin: 140, LonMax: 240, Resolution: *resolution}
	case "global":
		grid = RegionalGrid{LatMin: -89.5, LatMax: 89.5, LonMin: -179.5, LonMax: 179.5, Resolution: 1.0}
	case "custom":
		grid = RegionalGrid{LatMin: *latMin, LatMax: *latMax, LonMin: *lonMin, LonMax: *lonMax, Resolution: *resolution}
	default:
		logger.Error("unknown region (use north-pacific, global, or custom)", "region", *region)
		os.Exit(1)
	}
	if grid.Resolution <= 0 || grid.LatMax <= grid.LatMin || grid.LonMax <= grid.LonMin {
		logger.Error("invalid grid", "grid", fmt.Sprintf("%+v", grid))
		os.Exit(1)
	}

	reference, lat, err := loadReference(*profileID, *profilePath)
	if err != nil {
		logger.Error("failed to load reference profile", "error", err)
		os.Exit(1)
	}
	if !math.IsNaN(*refLat) {
		lat = *refLat
	}
	model := Model{Reference: reference, RefLat: lat, Gradient: *gradient, DecayM: *decay}

	var bed seabed
	if *gebcoPath != "" {
		store := bathymetry.NewLocalStore(*gebcoPath)
		defer func() { _ = store.Close() }()
		bed = store
	}

	//nolint:gosec // G301: Output directory for generated data.
	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		logger.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}

	logger.Info("generating climatology",
		"region", *region, "levels", len(reference), "ref_lat", lat,
		"grid", fmt.Sprintf("%.1f..%.1fN %.1f..%.1fE @ %.2f", grid.LatMin, grid.LatMax, grid.LonMin, grid.LonMax, grid.Resolution))

	masked, err := generate(*out, grid, model, bed)
	if err != nil {
		logger.Error("failed to generate climatology", "error", err)
		os.Exit(1)
	}
	latAxis, lonAxis := grid.axes()
	logger.Info("generation complete", "file", *out, "lat", len(latAxis), "lon", len(lonAxis), "masked_values", masked)
}

// loadReference returns the reference profile and its latitude.
func loadReference(id, path string) (domain.TSProfile, float64, error) {
	if path == "" {
		p, ok := builtin.Lookup(id)
		if !ok {
			return nil, 0, fmt.Errorf("unknown built-in profile %q (have %s)", id, strings.Join(builtin.IDs(), ", "))
		}
		return p.Points, p.Latitude, nil
	}

	//nolint:gosec // G304: path given on the command line.
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = f.Close() }()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		profile, err := csv.Read(f)
		return profile, 0, err
	}
	doc, err := yamlprofile.Decode(f)
	if err != nil {
		return nil, 0, err
	}
	lat := 0.0
	if doc.Latitude != nil {
		lat = *doc.Latitude
	}
	return doc.Points, lat, nil
}

// generate writes t_an and s_an as [depth][lat][lon] and returns the number
// of masked values. Columns the seabed store has no depth for are land.
func generate(path string, grid RegionalGrid, model Model, bed seabed) (int, error) {
	lat, lon := grid.axes()
	nDepth, nLat, nLon := len(model.Reference), len(lat), len(lon)

	depth := make([]float64, nDepth)
	for k, pt := range model.Reference {
		depth[k] = pt.Z
	}

	temperature := make([]float32, nDepth*nLat*nLon)
	salinity := make([]float32, nDepth*nLat*nLon)
	masked := 0
	for i := range lat {
		for j := range lon {
			bottom := math.Inf(1)
			if bed != nil {
				d, ok, err := bed.SeabedDepth(lat[i], lon[j])
				if err != nil {
					return 0, fmt.Errorf("seabed at (%.2f, %.2f): %w", lat[i], lon[j], err)
				}
				if ok {
					bottom = d
				} else {
					bottom = -1 // land or no coverage
				}
			}
			for k := range depth {
				idx := (k*nLat+i)*nLon + j
				if depth[k] > bottom {
					temperature[idx], salinity[idx] = fillValue, fillValue
					masked++
					continue
				}
				temperature[idx] = float32(model.temperature(k, lat[i]))
				salinity[idx] = float32(model.Reference[k].S)
			}
		}
	}

	if err := writeNetCDF(path, depth, lat, lon, temperature, salinity); err != nil {
		return 0, err
	}
	return masked, nil
}

func writeNetCDF(path string, depth, lat, lon []float64, temperature, salinity []float32) error {
	ds, err := netcdf.CreateFile(path, netcdf.CLOBBER|netcdf.NETCDF4)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = ds.Close() }()

	depthDim, err := ds.AddDim("depth", uint64(len(depth)))
	if err != nil {
		return err
	}
	latDim, err := ds.AddDim("lat", uint64(len(lat)))
	if err != nil {
		return err
	}
	lonDim, err := ds.AddDim("lon", uint64(len(lon)))
	if err != nil {
		return err
	}

	depthVar, err := ds.AddVar("depth", netcdf.DOUBLE, []netcdf.Dim{depthDim})
	if err != nil {
		return err
	}
	latVar, err := ds.AddVar("lat", netcdf.DOUBLE, []netcdf.Dim{latDim})
	if err != nil {
		return err
	}
	lonVar, err := ds.AddVar("lon", netcdf.DOUBLE, []netcdf.Dim{lonDim})
	if err != nil {
		return err
	}

	dims := []netcdf.Dim{depthDim, latDim, lonDim}
	tVar, err := ds.AddVar("t_an", netcdf.FLOAT, dims)
	if err != nil {
		return err
	}
	sVar, err := ds.AddVar("s_an", netcdf.FLOAT, dims)
	if err != nil {
		return err
	}

	units := []struct {
		v    netcdf.Var
		unit string
	}{
		{depthVar, "meters"},
		{latVar, "degrees_north"},
		{lonVar, "degrees_east"},
		{tVar, "degrees_celsius"},
		{sVar, "1e-3"},
	}
	for _, u := range units {
		if err := u.v.Attr("units").WriteBytes([]byte(u.unit)); err != nil {
			return err
		}
	}
	for _, v := range []netcdf.Var{tVar, sVar} {
		if err := v.Attr("_FillValue").WriteFloat32s([]float32{fillValue}); err != nil {
			return err
		}
	}

	if err := ds.EndDef(); err != nil {
		return err
	}

	if err := depthVar.WriteFloat64s(depth); err != nil {
		return err
	}
	if err := latVar.WriteFloat64s(lat); err != nil {
		return err
	}
	if err := lonVar.WriteFloat64s(lon); err != nil {
		return err
	}
	if err := tVar.WriteFloat32s(temperature); err != nil {
		return err
	}
	return sVar.WriteFloat32s(salinity)
}
