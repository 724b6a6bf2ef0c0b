// Package store defines how TS profiles are located and loaded.
package store

import (
	"errors"
	"fmt"

	"go.ngs.io/seawater/internal/domain"
)

var (
	// ErrNotFound is returned when no profile exists for a station or location.
	ErrNotFound = errors.New("profile not found")

	// ErrUnsupported is returned by loaders that cannot answer a kind of query
	// (e.g. a file store asked for a lat/lon location).
	ErrUnsupported = errors.New("query not supported by this store")
)

// ProfileLoader is the interface for loading TS profiles.
type ProfileLoader interface {
	// LoadForStation loads the profile of a named station (e.g., "north_pacific").
	LoadForStation(stationID string) (domain.TSProfile, error)

	// LoadForLocation loads the profile at a lat/lon location.
	LoadForLocation(lat, lon float64) (domain.TSProfile, error)
}

// Source is a ProfileLoader with the name reported for the profiles it serves.
type Source struct {
	Name   string
	Loader ProfileLoader
}

// Chain tries each source in order and returns the first profile found.
// Sources answering ErrNotFound or ErrUnsupported are skipped; any other
// error stops the search.
type Chain []Source

// LoadForStation implements ProfileLoader.
func (c Chain) LoadForStation(stationID string) (domain.TSProfile, error) {
	profile, _, err := c.FindStation(stationID)
	return profile, err
}

// LoadForLocation implements ProfileLoader.
func (c Chain) LoadForLocation(lat, lon float64) (domain.TSProfile, error) {
	profile, _, err := c.FindLocation(lat, lon)
	return profile, err
}

// FindStation is LoadForStation that also names the source that answered.
func (c Chain) FindStation(stationID string) (domain.TSProfile, string, error) {
	for _, src := range c {
		profile, err := src.Loader.LoadForStation(stationID)
		if err == nil {
			return profile, src.Name, nil
		}
		if !skippable(err) {
			return nil, src.Name, fmt.Errorf("%s: %w", src.Name, err)
		}
	}
	return nil, "", fmt.Errorf("%w: station %q", ErrNotFound, stationID)
}

// FindLocation is LoadForLocation that also names the source that answered.
func (c Chain) FindLocation(lat, lon float64) (domain.TSProfile, string, error) {
	for _, src := range c {
		profile, err := src.Loader.LoadForLocation(lat, lon)
		if err == nil {
			return profile, src.Name, nil
		}
		if !skippable(err) {
			return nil, src.Name, fmt.Errorf("%s: %w", src.Name, err)
		}
	}
	return nil, "", fmt.Errorf("%w: location (%.4f, %.4f)", ErrNotFound, lat, lon)
}

func skippable(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnsupported)
}

// Locator is implemented by sources that know the latitude a station's
// profile was observed at.
type Locator interface {
	StationLatitude(stationID string) (float64, bool)
}

// StationLatitude asks each source implementing Locator in turn.
func (c Chain) StationLatitude(stationID string) (float64, bool) {
	for _, src := range c {
		if loc, ok := src.Loader.(Locator); ok {
			if lat, ok := loc.StationLatitude(stationID); ok {
				return lat, true
			}
		}
	}
	return 0, false
}
