// Package bathymetry provides seabed depth from GEBCO-style NetCDF grids.
package bathymetry

import (
	"fmt"
	"sync"

	"go.ngs.io/seawater/internal/adapter/ncgrid"
	"go.ngs.io/seawater/internal/interp"
)

// Margin in degrees of the window read around a requested location.
const subsetMargin = 2.0

// elevationNames are the variables tried for the elevation grid.
// GEBCO stores elevation, negative below sea level.
var elevationNames = []string{"elevation", "data", "z"}

// LocalStore reads seabed depth from a local NetCDF elevation file.
// The file can be on local disk or a FUSE-mounted bucket.
type LocalStore struct {
	gebcoPath string

	// Window of the grid around the last requested location.
	grid   *interp.Grid2D
	bounds *ncgrid.Bounds
	mu     sync.Mutex
}

// NewLocalStore creates a store over the GEBCO file at gebcoPath.
func NewLocalStore(gebcoPath string) *LocalStore {
	return &LocalStore{gebcoPath: gebcoPath}
}

// SeabedDepth interpolates the elevation grid at (lat, lon). Points at or
// above sea level report ok == false.
func (s *LocalStore) SeabedDepth(lat, lon float64) (float64, bool, error) {
	if s.gebcoPath == "" {
		return 0, false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.grid == nil || !s.bounds.Contains(lat, lon) {
		grid, err := ncgrid.LoadGridSubset(s.gebcoPath, elevationNames, lat, lon, subsetMargin)
		if err != nil {
			return 0, false, fmt.Errorf("failed to load GEBCO grid: %w", err)
		}
		s.grid = grid
		s.bounds = ncgrid.BoundsOf(grid)
	}

	elevation, err := s.grid.InterpolateAt(ncgrid.NormalizeLonForAxis(s.grid.X, lon), lat)
	if err != nil {
		// Outside coverage or missing cells.
		return 0, false, nil
	}
	if elevation >= 0 {
		return 0, false, nil
	}
	return -elevation, true, nil
}

// Close releases resources (no-op for local store).
func (s *LocalStore) Close() error {
	return nil
}
