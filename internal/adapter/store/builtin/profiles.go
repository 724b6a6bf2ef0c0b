// Package builtin serves the reference TS profiles compiled into the binary.
package builtin

import (
	"fmt"
	"sort"
	"strings"

	"go.ngs.io/seawater/internal/adapter/store"
	"go.ngs.io/seawater/internal/domain"
)

// Profile is a reference profile with the latitude it was observed at.
type Profile struct {
	ID       string
	Name     string
	Latitude float64
	Points   domain.TSProfile
}

var profiles = map[string]Profile{
	"north_pacific": {
		ID:       "north_pacific",
		Name:     "North Pacific",
		Latitude: 39,
		Points: domain.TSProfile{
			{Z: 0, T: 12.0, S: 33.8},
			{Z: 500, T: 7.0, S: 34.0},
			{Z: 1000, T: 3.0, S: 34.25},
			{Z: 1500, T: 2.5, S: 34.5},
			{Z: 2000, T: 2.0, S: 34.6},
			{Z: 2500, T: 1.9, S: 34.65},
			{Z: 3000, T: 1.8, S: 34.65},
			{Z: 3500, T: 1.8, S: 34.66},
			{Z: 4000, T: 1.8, S: 34.67},
			{Z: 4500, T: 1.8, S: 34.67},
			{Z: 5000, T: 1.8, S: 34.67},
			{Z: 5500, T: 1.9, S: 34.67},
			{Z: 6000, T: 1.9, S: 34.67},
		},
	},
	"arctic": {
		ID:       "arctic",
		Name:     "Arctic",
		Latitude: 89,
		Points: domain.TSProfile{
			{Z: 0, T: -1.8, S: 32.8},
			{Z: 100, T: -1.1, S: 34.25},
			{Z: 200, T: 1.1, S: 34.8},
			{Z: 300, T: 1.3, S: 34.9},
			{Z: 400, T: 1.1, S: 34.9},
			{Z: 500, T: 0.75, S: 34.9},
			{Z: 600, T: 0.4, S: 34.9},
			{Z: 700, T: 0.2, S: 34.9},
			{Z: 800, T: -0.1, S: 34.9},
		},
	},
	"south_atlantic": {
		ID:       "south_atlantic",
		Name:     "South Atlantic",
		Latitude: -20,
		Points: domain.TSProfile{
			{Z: 0, T: 25.6, S: 37.2},
			{Z: 200, T: 20.0, S: 36.2},
			{Z: 400, T: 11.5, S: 35.0},
			{Z: 600, T: 6.5, S: 34.4},
			{Z: 800, T: 4.0, S: 34.4},
			{Z: 1000, T: 3.0, S: 34.4},
			{Z: 1200, T: 3.0, S: 34.7},
			{Z: 1400, T: 3.0, S: 34.8},
			{Z: 1600, T: 2.9, S: 34.9},
			{Z: 1800, T: 2.8, S: 34.9},
			{Z: 2000, T: 2.8, S: 34.9},
			{Z: 2200, T: 2.7, S: 34.9},
			{Z: 2400, T: 2.5, S: 34.9},
			{Z: 2600, T: 2.4, S: 34.9},
			{Z: 2800, T: 2.3, S: 34.9},
			{Z: 3000, T: 2.2, S: 34.9},
			{Z: 3200, T: 2.1, S: 34.8},
			{Z: 3400, T: 2.1, S: 34.7},
			{Z: 3600, T: 2.1, S: 34.7},
			{Z: 3800, T: 2.0, S: 34.7},
			{Z: 4000, T: 1.9, S: 34.7},
			{Z: 4200, T: 1.8, S: 34.7},
			{Z: 4400, T: 1.7, S: 34.7},
			{Z: 4600, T: 1.6, S: 34.7},
			{Z: 4800, T: 1.5, S: 34.7},
			{Z: 5000, T: 1.3, S: 34.7},
			{Z: 5200, T: 1.2, S: 34.7},
			{Z: 5400, T: 1.1, S: 34.7},
			{Z: 5600, T: 1.1, S: 34.7},
		},
	},
}

// Store exposes the built-in profiles as a store.ProfileLoader.
type Store struct{}

var _ store.ProfileLoader = Store{}

// Lookup returns a copy of a built-in profile by id.
func Lookup(id string) (Profile, bool) {
	p, ok := profiles[strings.ToLower(id)]
	if !ok {
		return Profile{}, false
	}
	p.Points = append(domain.TSProfile(nil), p.Points...)
	return p, true
}

// IDs returns the ids of all built-in profiles, sorted.
func IDs() []string {
	ids := make([]string, 0, len(profiles))
	for id := range profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LoadForStation implements store.ProfileLoader.
func (Store) LoadForStation(stationID string) (domain.TSProfile, error) {
	p, ok := Lookup(stationID)
	if !ok {
		return nil, fmt.Errorf("no built-in profile %q: %w", stationID, store.ErrNotFound)
	}
	return p.Points, nil
}

// LoadForLocation is not supported; built-in profiles have no longitude.
func (Store) LoadForLocation(_, _ float64) (domain.TSProfile, error) {
	return nil, fmt.Errorf("built-in profiles are addressed by id: %w", store.ErrUnsupported)
}

// StationLatitude implements store.Locator.
func (Store) StationLatitude(stationID string) (float64, bool) {
	p, ok := Lookup(stationID)
	return p.Latitude, ok
}
