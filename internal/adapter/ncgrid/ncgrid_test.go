package ncgrid

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/fhs/go-netcdf/netcdf"
)

func TestNormalizeLon360(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{-130, 230},
		{360, 0},
		{725, 5},
		{-360, 0},
		{179.5, 179.5},
	}
	for _, tt := range tests {
		if got := NormalizeLon360(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("NormalizeLon360(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeLonForAxis(t *testing.T) {
	wrapped := []float64{0, 90, 180, 270, 359}
	signed := []float64{-180, -90, 0, 90, 179}

	if !LonAxisWraps(wrapped) {
		t.Error("expected 0–360 axis to wrap")
	}
	if LonAxisWraps(signed) {
		t.Error("expected ±180 axis not to wrap")
	}
	if got := NormalizeLonForAxis(wrapped, -10); got != 350 {
		t.Errorf("wrapped axis: got %v, want 350", got)
	}
	if got := NormalizeLonForAxis(signed, 350); got != -10 {
		t.Errorf("signed axis: got %v, want -10", got)
	}
}

func TestNearestIndex(t *testing.T) {
	arr := []float64{0, 1, 2, 3, 4}
	tests := []struct {
		target float64
		want   int
	}{
		{-5, 0},
		{0.4, 0},
		{0.6, 1},
		{2.49, 2},
		{9, 4},
	}
	for _, tt := range tests {
		if got := NearestIndex(arr, tt.target); got != tt.want {
			t.Errorf("NearestIndex(%v) = %d, want %d", tt.target, got, tt.want)
		}
	}
	if got := NearestIndex(nil, 1); got != 0 {
		t.Errorf("NearestIndex(nil) = %d, want 0", got)
	}
}

// createLonLatFile writes a grid stored as [lon][lat] with a fill value and
// a scale factor on the data variable.
func createLonLatFile(t *testing.T, path string) {
	t.Helper()
	f, err := netcdf.CreateFile(path, netcdf.CLOBBER)
	if err != nil {
		t.Fatalf("create nc: %v", err)
	}
	defer func() { _ = f.Close() }()

	lonDim, _ := f.AddDim("lon", 3)
	latDim, _ := f.AddDim("lat", 2)
	vlon, _ := f.AddVar("longitude", netcdf.DOUBLE, []netcdf.Dim{lonDim})
	vlat, _ := f.AddVar("latitude", netcdf.DOUBLE, []netcdf.Dim{latDim})
	vdata, _ := f.AddVar("data", netcdf.FLOAT, []netcdf.Dim{lonDim, latDim})
	if err := vdata.Attr("_FillValue").WriteFloat32s([]float32{-999}); err != nil {
		t.Fatalf("write fill: %v", err)
	}
	if err := vdata.Attr("scale_factor").WriteFloat32s([]float32{0.5}); err != nil {
		t.Fatalf("write scale: %v", err)
	}

	if err := f.EndDef(); err != nil {
		t.Fatalf("enddef: %v", err)
	}
	if err := vlon.WriteFloat64s([]float64{10, 11, 12}); err != nil {
		t.Fatalf("write lon: %v", err)
	}
	if err := vlat.WriteFloat64s([]float64{50, 51}); err != nil {
		t.Fatalf("write lat: %v", err)
	}
	// data[lon][lat]
	if err := vdata.WriteFloat32s([]float32{
		2, 4,
		6, 8,
		-999, 12,
	}); err != nil {
		t.Fatalf("write data: %v", err)
	}
}

func TestLoadGridSubset_TransposedWithFillAndScale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.nc")
	createLonLatFile(t, path)

	grid, err := LoadGridSubset(path, []string{"missing", "data"}, 50.5, 11, 0)
	if err != nil {
		t.Fatalf("LoadGridSubset: %v", err)
	}
	if len(grid.Y) != 2 || len(grid.X) != 3 {
		t.Fatalf("grid shape = %dx%d, want 2x3", len(grid.Y), len(grid.X))
	}
	// Values[lat][lon], scaled by 0.5.
	if grid.Values[0][0] != 1 || grid.Values[1][1] != 4 || grid.Values[1][2] != 6 {
		t.Errorf("unexpected values: %v", grid.Values)
	}
	if !math.IsNaN(grid.Values[0][2]) {
		t.Errorf("fill value not mapped to NaN: %v", grid.Values[0][2])
	}

	got, err := grid.InterpolateAt(10.5, 50.5)
	if err != nil {
		t.Fatalf("InterpolateAt: %v", err)
	}
	// Mean of 1, 3, 2, 4.
	if math.Abs(got-2.5) > 1e-9 {
		t.Errorf("interpolated = %.10f, want 2.5", got)
	}

	b := BoundsOf(grid)
	if !b.Contains(50.2, 11.5) || b.Contains(49, 11) {
		t.Errorf("unexpected bounds %+v", b)
	}
}

func TestLoadGridSubset_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.nc")
	createLonLatFile(t, path)

	if _, err := LoadGridSubset(path, []string{"nope"}, 50, 11, 0); err == nil {
		t.Error("expected error for unknown data variable")
	}
	if _, err := LoadGridSubset(filepath.Join(t.TempDir(), "none.nc"), []string{"data"}, 50, 11, 0); err == nil {
		t.Error("expected error for missing file")
	}
}
