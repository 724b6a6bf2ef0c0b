package usecase

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"

	"go.ngs.io/seawater/internal/domain"
)

// DefaultStationRadiusKm applies to stations without radius_km.
const DefaultStationRadiusKm = 50.0

// Station maps a named position to the profile that describes its water
// column.
type Station struct {
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	RadiusKm float64 `json:"radius_km,omitempty"`
	Profile  string  `json:"profile"`
}

// StationRegistry resolves lat/lon queries to named stations by nearest
// neighbour within each station's radius.
type StationRegistry struct {
	stations []Station
}

// NewStationRegistry validates stations and builds a registry.
func NewStationRegistry(stations []Station) (*StationRegistry, error) {
	out := make([]Station, len(stations))
	for i, st := range stations {
		if st.Name == "" {
			return nil, fmt.Errorf("station %d: name is required", i)
		}
		if st.Profile == "" {
			return nil, fmt.Errorf("station %s: profile is required", st.Name)
		}
		if st.Lat < -90 || st.Lat > 90 {
			return nil, fmt.Errorf("station %s: latitude %g out of range", st.Name, st.Lat)
		}
		if st.RadiusKm < 0 {
			return nil, fmt.Errorf("station %s: radius_km must be non-negative", st.Name)
		}
		if st.RadiusKm == 0 {
			st.RadiusKm = DefaultStationRadiusKm
		}
		out[i] = st
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return &StationRegistry{stations: out}, nil
}

// LoadStationRegistry reads a JSON array of stations. An empty path yields
// an empty registry.
func LoadStationRegistry(path string) (*StationRegistry, error) {
	if path == "" {
		return &StationRegistry{}, nil
	}
	//nolint:gosec // G304: path comes from configuration.
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read station registry: %w", err)
	}
	var stations []Station
	if err := json.Unmarshal(b, &stations); err != nil {
		return nil, fmt.Errorf("failed to parse station registry %s: %w", path, err)
	}
	return NewStationRegistry(stations)
}

// Nearest returns the closest station whose radius covers (lat, lon) and
// its distance in kilometers.
func (r *StationRegistry) Nearest(lat, lon float64) (*Station, float64, bool) {
	if r == nil || len(r.stations) == 0 {
		return nil, 0, false
	}
	bestDist := math.MaxFloat64
	var best *Station
	for i := range r.stations {
		st := &r.stations[i]
		d := domain.HaversineKm(lat, lon, st.Lat, st.Lon)
		if d <= st.RadiusKm && d < bestDist {
			bestDist = d
			best = st
		}
	}
	if best == nil {
		return nil, 0, false
	}
	found := *best
	return &found, bestDist, true
}

// Stations returns a copy of the registered stations sorted by name.
func (r *StationRegistry) Stations() []Station {
	if r == nil {
		return nil
	}
	return append([]Station(nil), r.stations...)
}
