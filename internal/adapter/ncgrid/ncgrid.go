// Package ncgrid reads gridded variables from NetCDF files.
package ncgrid

import (
	"fmt"
	"math"

	"github.com/fhs/go-netcdf/netcdf"

	"go.ngs.io/seawater/internal/interp"
)

// Common coordinate variable names, tried in order.
var (
	LatNames   = []string{"lat", "latitude", "y"}
	LonNames   = []string{"lon", "longitude", "x"}
	DepthNames = []string{"depth", "z", "lev", "level"}
)

// FindVar returns the first variable of names present in the dataset.
func FindVar(nc netcdf.Dataset, names ...string) (netcdf.Var, string, error) {
	for _, name := range names {
		if name == "" {
			continue
		}
		if v, err := nc.Var(name); err == nil {
			return v, name, nil
		}
	}
	return netcdf.Var{}, "", fmt.Errorf("variable not found (tried: %v)", names)
}

// ReadAxis reads the first 1D coordinate variable of names.
func ReadAxis(nc netcdf.Dataset, names ...string) ([]float64, error) {
	v, name, err := FindVar(nc, names...)
	if err != nil {
		return nil, err
	}
	dims, err := v.Dims()
	if err != nil {
		return nil, fmt.Errorf("failed to get dimensions of %s: %w", name, err)
	}
	if len(dims) != 1 {
		return nil, fmt.Errorf("expected 1D variable %s, got %dD", name, len(dims))
	}
	data, err := ReadValues(v, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// Shape returns the length of each dimension of v.
func Shape(v netcdf.Var) ([]uint64, error) {
	dims, err := v.Dims()
	if err != nil {
		return nil, fmt.Errorf("failed to get dimensions: %w", err)
	}
	shape := make([]uint64, len(dims))
	for i, d := range dims {
		n, err := d.Len()
		if err != nil {
			return nil, fmt.Errorf("failed to get dim%d length: %w", i, err)
		}
		shape[i] = n
	}
	return shape, nil
}

// ReadValues reads v as float64. With nil start/count the whole variable is
// read, otherwise the hyperslab [start, start+count). scale_factor and
// add_offset are applied; _FillValue/missing_value cells become NaN.
//
//nolint:gocyclo // One branch per NetCDF storage type.
func ReadValues(v netcdf.Var, start, count []uint64) ([]float64, error) {
	total := uint64(1)
	if start == nil {
		shape, err := Shape(v)
		if err != nil {
			return nil, err
		}
		for _, n := range shape {
			total *= n
		}
	} else {
		for _, n := range count {
			total *= n
		}
	}

	varType, err := v.Type()
	if err != nil {
		return nil, fmt.Errorf("failed to get variable type: %w", err)
	}

	var flat []float64
	switch varType {
	case netcdf.DOUBLE:
		flat = make([]float64, total)
		if start == nil {
			err = v.ReadFloat64s(flat)
		} else {
			err = v.ReadFloat64Slice(flat, start, count)
		}
	case netcdf.FLOAT:
		tmp := make([]float32, total)
		if start == nil {
			err = v.ReadFloat32s(tmp)
		} else {
			err = v.ReadFloat32Slice(tmp, start, count)
		}
		flat = make([]float64, total)
		for i, val := range tmp {
			flat[i] = float64(val)
		}
	case netcdf.INT:
		tmp := make([]int32, total)
		if start == nil {
			err = v.ReadInt32s(tmp)
		} else {
			err = v.ReadInt32Slice(tmp, start, count)
		}
		flat = make([]float64, total)
		for i, val := range tmp {
			flat[i] = float64(val)
		}
	case netcdf.SHORT:
		tmp := make([]int16, total)
		if start == nil {
			err = v.ReadInt16s(tmp)
		} else {
			err = v.ReadInt16Slice(tmp, start, count)
		}
		flat = make([]float64, total)
		for i, val := range tmp {
			flat[i] = float64(val)
		}
	case netcdf.BYTE, netcdf.CHAR, netcdf.UBYTE, netcdf.USHORT, netcdf.UINT, netcdf.INT64, netcdf.UINT64, netcdf.STRING:
		return nil, fmt.Errorf("unsupported data type: %v (expected DOUBLE, FLOAT, INT, or SHORT)", varType)
	default:
		return nil, fmt.Errorf("unsupported data type: %v", varType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %v data: %w", varType, err)
	}

	fill, hasFill := FillValue(v)
	scale, hasScale := attrFloat(v, "scale_factor")
	offset, hasOffset := attrFloat(v, "add_offset")
	for i, val := range flat {
		if hasFill && val == fill {
			flat[i] = math.NaN()
			continue
		}
		if hasScale && scale != 0 {
			val *= scale
		}
		if hasOffset {
			val += offset
		}
		flat[i] = val
	}
	return flat, nil
}

// FillValue returns the _FillValue or missing_value attribute if present.
func FillValue(v netcdf.Var) (float64, bool) {
	for _, name := range []string{"_FillValue", "missing_value"} {
		if fv, ok := attrFloat(v, name); ok {
			return fv, true
		}
	}
	return 0, false
}

func attrFloat(v netcdf.Var, name string) (float64, bool) {
	a := v.Attr(name)
	if n, err := a.Len(); err != nil || n == 0 {
		return 0, false
	}
	buf64 := make([]float64, 1)
	if err := a.ReadFloat64s(buf64); err == nil {
		return buf64[0], true
	}
	buf32 := make([]float32, 1)
	if err := a.ReadFloat32s(buf32); err == nil {
		return float64(buf32[0]), true
	}
	bufi := make([]int32, 1)
	if err := a.ReadInt32s(bufi); err == nil {
		return float64(bufi[0]), true
	}
	bufs := make([]int16, 1)
	if err := a.ReadInt16s(bufs); err == nil {
		return float64(bufs[0]), true
	}
	return 0, false
}

// NormalizeLon360 maps arbitrary degree longitudes into the [0, 360) range.
func NormalizeLon360(lon float64) float64 {
	lon = math.Mod(lon, 360.0)
	if lon < 0 {
		lon += 360.0
	}
	return lon
}

// LonAxisWraps reports whether a longitude axis is defined on 0–360°.
func LonAxisWraps(lons []float64) bool {
	if len(lons) == 0 {
		return false
	}
	minVal, maxVal := lons[0], lons[len(lons)-1]
	if minVal > maxVal {
		minVal, maxVal = maxVal, minVal
	}
	return minVal >= 0 && maxVal > 180
}

// NormalizeLonForAxis wraps lon into the convention of a longitude axis.
func NormalizeLonForAxis(lons []float64, lon float64) float64 {
	if LonAxisWraps(lons) {
		return NormalizeLon360(lon)
	}
	if lon > 180 {
		return lon - 360
	}
	return lon
}

// NearestIndex finds the index of the value closest to target in a sorted array.
func NearestIndex(arr []float64, target float64) int {
	if len(arr) == 0 {
		return 0
	}

	left, right := 0, len(arr)-1
	for left < right {
		mid := (left + right) / 2
		if arr[mid] < target {
			left = mid + 1
		} else {
			right = mid
		}
	}

	if left > 0 && math.Abs(arr[left-1]-target) < math.Abs(arr[left]-target) {
		return left - 1
	}
	return left
}

func clamp(value, minVal, maxVal int) int {
	if value < minVal {
		return minVal
	}
	if value > maxVal {
		return maxVal
	}
	return value
}

// Bounds is the lat/lon extent of a loaded grid.
type Bounds struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
	LonWrap360     bool
}

// BoundsOf returns the extent of a lon/lat grid, or nil for an empty grid.
func BoundsOf(grid *interp.Grid2D) *Bounds {
	if grid == nil || len(grid.X) == 0 || len(grid.Y) == 0 {
		return nil
	}
	minLon, maxLon := grid.X[0], grid.X[len(grid.X)-1]
	if minLon > maxLon {
		minLon, maxLon = maxLon, minLon
	}
	minLat, maxLat := grid.Y[0], grid.Y[len(grid.Y)-1]
	if minLat > maxLat {
		minLat, maxLat = maxLat, minLat
	}
	return &Bounds{
		MinLat:     minLat,
		MaxLat:     maxLat,
		MinLon:     minLon,
		MaxLon:     maxLon,
		LonWrap360: LonAxisWraps(grid.X),
	}
}

// Contains reports whether (lat, lon) lies inside the bounds.
func (b *Bounds) Contains(lat, lon float64) bool {
	if b == nil {
		return false
	}
	if b.LonWrap360 {
		lon = NormalizeLon360(lon)
	}
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// LoadGridSubset reads a 2D [lat, lon] or [lon, lat] variable from a NetCDF
// file. With margin > 0 only the window of ±margin degrees around
// (targetLat, targetLon) is read; otherwise the whole grid is loaded.
//
//nolint:gocyclo,gosec // Subset index arithmetic.
func LoadGridSubset(path string, dataNames []string, targetLat, targetLon, margin float64) (*interp.Grid2D, error) {
	nc, err := netcdf.OpenFile(path, netcdf.NOWRITE)
	if err != nil {
		return nil, fmt.Errorf("failed to open NetCDF file: %w", err)
	}
	defer func() { _ = nc.Close() }()

	latData, err := ReadAxis(nc, LatNames...)
	if err != nil {
		return nil, fmt.Errorf("latitude: %w", err)
	}
	lonData, err := ReadAxis(nc, LonNames...)
	if err != nil {
		return nil, fmt.Errorf("longitude: %w", err)
	}
	if len(latData) < 2 || len(lonData) < 2 {
		return nil, fmt.Errorf("grid must have at least 2x2 points, got %dx%d", len(latData), len(lonData))
	}

	latStart, latEnd := 0, len(latData)
	lonStart, lonEnd := 0, len(lonData)
	if margin > 0 {
		adjLon := NormalizeLonForAxis(lonData, targetLon)
		latStartIdx := NearestIndex(latData, targetLat-margin)
		latEndIdx := NearestIndex(latData, targetLat+margin)
		lonStartIdx := NearestIndex(lonData, NormalizeLonForAxis(lonData, targetLon-margin))
		lonEndIdx := NearestIndex(lonData, NormalizeLonForAxis(lonData, targetLon+margin))

		// A wrapped window edge may land on the far side of the axis.
		lonTargetIdx := NearestIndex(lonData, adjLon)
		if lonTargetIdx < lonStartIdx {
			lonStartIdx = lonTargetIdx
		}
		if lonTargetIdx > lonEndIdx {
			lonEndIdx = lonTargetIdx
		}
		if latStartIdx > latEndIdx {
			latStartIdx, latEndIdx = latEndIdx, latStartIdx
		}
		if lonStartIdx > lonEndIdx {
			lonStartIdx, lonEndIdx = lonEndIdx, lonStartIdx
		}

		latStart = clamp(latStartIdx, 0, len(latData)-2)
		latEnd = clamp(latEndIdx+1, latStart+2, len(latData))
		lonStart = clamp(lonStartIdx, 0, len(lonData)-2)
		lonEnd = clamp(lonEndIdx+1, lonStart+2, len(lonData))
	}

	dataVar, name, err := FindVar(nc, dataNames...)
	if err != nil {
		return nil, err
	}
	shape, err := Shape(dataVar)
	if err != nil {
		return nil, err
	}
	if len(shape) != 2 {
		return nil, fmt.Errorf("expected 2D data in %s, got %dD", name, len(shape))
	}

	nLat, nLon := uint64(len(latData)), uint64(len(lonData))
	nSubLat, nSubLon := latEnd-latStart, lonEnd-lonStart

	var values [][]float64
	switch {
	case shape[0] == nLat && shape[1] == nLon:
		flat, err := ReadValues(dataVar,
			[]uint64{uint64(latStart), uint64(lonStart)},
			[]uint64{uint64(nSubLat), uint64(nSubLon)})
		if err != nil {
			return nil, err
		}
		values = reshape(flat, nSubLat, nSubLon)
	case shape[0] == nLon && shape[1] == nLat:
		flat, err := ReadValues(dataVar,
			[]uint64{uint64(lonStart), uint64(latStart)},
			[]uint64{uint64(nSubLon), uint64(nSubLat)})
		if err != nil {
			return nil, err
		}
		values = transpose(reshape(flat, nSubLon, nSubLat))
	default:
		return nil, fmt.Errorf("dimension mismatch: data is %v, expected [%d, %d] or [%d, %d]",
			shape, nLat, nLon, nLon, nLat)
	}

	grid := &interp.Grid2D{
		X:      lonData[lonStart:lonEnd],
		Y:      latData[latStart:latEnd],
		Values: values,
	}
	if err := grid.Validate(); err != nil {
		return nil, fmt.Errorf("invalid grid: %w", err)
	}
	return grid, nil
}

func reshape(flat []float64, nRows, nCols int) [][]float64 {
	values := make([][]float64, nRows)
	for i := 0; i < nRows; i++ {
		values[i] = flat[i*nCols : (i+1)*nCols]
	}
	return values
}

func transpose(data [][]float64) [][]float64 {
	if len(data) == 0 {
		return data
	}

	nRows := len(data)
	nCols := len(data[0])

	transposed := make([][]float64, nCols)
	for i := 0; i < nCols; i++ {
		transposed[i] = make([]float64, nRows)
		for j := 0; j < nRows; j++ {
			transposed[i][j] = data[j][i]
		}
	}
	return transposed
}
