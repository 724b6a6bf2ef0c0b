// Package climatology loads TS profiles from gridded NetCDF climatologies
// such as the World Ocean Atlas.
package climatology

import (
	"errors"
	"fmt"
	"sync"

	"github.com/fhs/go-netcdf/netcdf"

	"go.ngs.io/seawater/internal/adapter/ncgrid"
	"go.ngs.io/seawater/internal/adapter/store"
	"go.ngs.io/seawater/internal/domain"
	"go.ngs.io/seawater/internal/interp"
)

// Variable names tried in order for each field.
var (
	TemperatureNames = []string{"t_an", "temperature", "temp", "t"}
	SalinityNames    = []string{"s_an", "salinity", "salt", "s"}
)

// Store reads temperature and salinity columns from a NetCDF file laid out
// as [depth][lat][lon], optionally with a leading time dimension of length 1.
// Each depth level is bilinearly interpolated at the requested location; the
// profile ends at the first level with missing data.
type Store struct {
	path string

	axes  *axes
	cells map[cellKey]*cell
	mu    sync.RWMutex
}

type axes struct {
	depth, lat, lon []float64
}

type cellKey struct {
	iLat, iLon int
}

// cell holds the 2x2 grids around one grid cell for every depth level.
type cell struct {
	temperature []*interp.Grid2D
	salinity    []*interp.Grid2D
}

// NewStore creates a climatology store over the NetCDF file at path.
func NewStore(path string) *Store {
	return &Store{
		path:  path,
		cells: make(map[cellKey]*cell),
	}
}

// LoadForStation is not supported: climatologies are indexed by location.
func (s *Store) LoadForStation(_ string) (domain.TSProfile, error) {
	return nil, store.ErrUnsupported
}

// LoadForLocation returns the interpolated TS profile at (lat, lon).
func (s *Store) LoadForLocation(lat, lon float64) (domain.TSProfile, error) {
	ax, err := s.loadAxes()
	if err != nil {
		return nil, err
	}

	adjLon := ncgrid.NormalizeLonForAxis(ax.lon, lon)
	key := cellKey{
		iLat: interp.CellIndex(ax.lat, lat),
		iLon: interp.CellIndex(ax.lon, adjLon),
	}
	if key.iLat < 0 || key.iLon < 0 {
		return nil, fmt.Errorf("%w: (%.4f, %.4f) outside climatology coverage", store.ErrNotFound, lat, lon)
	}

	c, err := s.loadCell(ax, key)
	if err != nil {
		return nil, err
	}

	profile := make(domain.TSProfile, 0, len(ax.depth))
	for k, z := range ax.depth {
		t, sal, err := interp.InterpolatePair(c.temperature[k], c.salinity[k], adjLon, lat)
		if errors.Is(err, interp.ErrMissingValue) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to interpolate level %d (z=%g): %w", k, z, err)
		}
		profile = append(profile, domain.TSPoint{Z: z, T: t, S: sal})
	}

	if len(profile) < 2 {
		return nil, fmt.Errorf("%w: no water column at (%.4f, %.4f)", store.ErrNotFound, lat, lon)
	}
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("climatology profile at (%.4f, %.4f): %w", lat, lon, err)
	}
	return profile, nil
}

// Depths returns the standard depth levels of the climatology.
func (s *Store) Depths() ([]float64, error) {
	ax, err := s.loadAxes()
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(ax.depth))
	copy(out, ax.depth)
	return out, nil
}

// Close drops cached grids.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.axes = nil
	s.cells = make(map[cellKey]*cell)
	return nil
}

func (s *Store) loadAxes() (*axes, error) {
	s.mu.RLock()
	ax := s.axes
	s.mu.RUnlock()
	if ax != nil {
		return ax, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.axes != nil {
		return s.axes, nil
	}

	nc, err := netcdf.OpenFile(s.path, netcdf.NOWRITE)
	if err != nil {
		return nil, fmt.Errorf("failed to open climatology: %w", err)
	}
	defer func() { _ = nc.Close() }()

	ax = &axes{}
	if ax.depth, err = ncgrid.ReadAxis(nc, ncgrid.DepthNames...); err != nil {
		return nil, fmt.Errorf("depth: %w", err)
	}
	if ax.lat, err = ncgrid.ReadAxis(nc, ncgrid.LatNames...); err != nil {
		return nil, fmt.Errorf("latitude: %w", err)
	}
	if ax.lon, err = ncgrid.ReadAxis(nc, ncgrid.LonNames...); err != nil {
		return nil, fmt.Errorf("longitude: %w", err)
	}
	for name, axis := range map[string][]float64{"depth": ax.depth, "lat": ax.lat, "lon": ax.lon} {
		if err := checkIncreasing(axis); err != nil {
			return nil, fmt.Errorf("%s axis: %w", name, err)
		}
	}

	s.axes = ax
	return ax, nil
}

func (s *Store) loadCell(ax *axes, key cellKey) (*cell, error) {
	s.mu.RLock()
	c, ok := s.cells[key]
	s.mu.RUnlock()
	if ok {
		return c, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.cells[key]; ok {
		return c, nil
	}

	nc, err := netcdf.OpenFile(s.path, netcdf.NOWRITE)
	if err != nil {
		return nil, fmt.Errorf("failed to open climatology: %w", err)
	}
	defer func() { _ = nc.Close() }()

	x := ax.lon[key.iLon : key.iLon+2]
	y := ax.lat[key.iLat : key.iLat+2]

	temperature, err := readColumn(nc, TemperatureNames, ax, key, x, y)
	if err != nil {
		return nil, fmt.Errorf("temperature: %w", err)
	}
	salinity, err := readColumn(nc, SalinityNames, ax, key, x, y)
	if err != nil {
		return nil, fmt.Errorf("salinity: %w", err)
	}

	c = &cell{temperature: temperature, salinity: salinity}
	s.cells[key] = c
	return c, nil
}

// readColumn reads the 2x2 window at key for every depth level.
//
//nolint:gosec // Index conversions stay within the axis lengths.
func readColumn(nc netcdf.Dataset, names []string, ax *axes, key cellKey, x, y []float64) ([]*interp.Grid2D, error) {
	v, name, err := ncgrid.FindVar(nc, names...)
	if err != nil {
		return nil, err
	}
	shape, err := ncgrid.Shape(v)
	if err != nil {
		return nil, err
	}

	nDepth := uint64(len(ax.depth))
	var start, count []uint64
	switch {
	case len(shape) == 3:
		start = []uint64{0, uint64(key.iLat), uint64(key.iLon)}
		count = []uint64{nDepth, 2, 2}
	case len(shape) == 4 && shape[0] == 1:
		start = []uint64{0, 0, uint64(key.iLat), uint64(key.iLon)}
		count = []uint64{1, nDepth, 2, 2}
		shape = shape[1:]
	default:
		return nil, fmt.Errorf("expected [depth][lat][lon] data in %s, got shape %v", name, shape)
	}
	if shape[0] != nDepth || shape[1] != uint64(len(ax.lat)) || shape[2] != uint64(len(ax.lon)) {
		return nil, fmt.Errorf("dimension mismatch in %s: %v vs axes [%d %d %d]",
			name, shape, len(ax.depth), len(ax.lat), len(ax.lon))
	}

	flat, err := ncgrid.ReadValues(v, start, count)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	levels := make([]*interp.Grid2D, len(ax.depth))
	for k := range levels {
		base := k * 4
		levels[k] = &interp.Grid2D{
			X: x,
			Y: y,
			Values: [][]float64{
				{flat[base], flat[base+1]},
				{flat[base+2], flat[base+3]},
			},
		}
	}
	return levels, nil
}

func checkIncreasing(axis []float64) error {
	if len(axis) < 2 {
		return fmt.Errorf("need at least 2 values, got %d", len(axis))
	}
	for i := 1; i < len(axis); i++ {
		if axis[i] <= axis[i-1] {
			return fmt.Errorf("values must be strictly increasing at index %d", i)
		}
	}
	return nil
}
