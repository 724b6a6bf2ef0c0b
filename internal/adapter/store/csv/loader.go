// Package csv provides CSV-based TS profile loading.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.ngs.io/seawater/internal/adapter/store"
	"go.ngs.io/seawater/internal/domain"
)

const fileSuffix = "_ts.csv"

var expectedHeaders = []string{"z_m", "t_c", "s_psu"}

// ProfileStore provides access to TS profiles kept as one CSV file per station.
type ProfileStore struct {
	dataDir string
}

// NewProfileStore creates a new CSV-based profile store.
func NewProfileStore(dataDir string) *ProfileStore {
	return &ProfileStore{
		dataDir: dataDir,
	}
}

// LoadForStation loads the TS profile of a named station from
// {dataDir}/{station}_ts.csv.
func (s *ProfileStore) LoadForStation(stationID string) (domain.TSProfile, error) {
	id := strings.ToLower(stationID)
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return nil, fmt.Errorf("invalid station id %q: %w", stationID, store.ErrNotFound)
	}
	filename := filepath.Join(s.dataDir, id+fileSuffix)

	//nolint:gosec // G304: File path constructed from dataDir (config) and stationID (validated).
	file, err := os.Open(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("no CSV profile for station %s: %w", stationID, store.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to open CSV file for station %s: %w", stationID, err)
	}
	defer func() { _ = file.Close() }()

	profile, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("station %s: %w", stationID, err)
	}
	return profile, nil
}

// Read parses a TS profile in z_m,t_c,s_psu CSV form. Rows must already be
// sorted by depth; the profile invariants are checked.
func Read(r io.Reader) (domain.TSProfile, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	if len(header) != len(expectedHeaders) {
		return nil, fmt.Errorf("invalid CSV header: expected %v, got %v", expectedHeaders, header)
	}
	for i, h := range header {
		if strings.TrimSpace(h) != expectedHeaders[i] {
			return nil, fmt.Errorf("invalid CSV header: expected column %d to be %s, got %s", i, expectedHeaders[i], h)
		}
	}

	profile := make(domain.TSProfile, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}

		var values [3]float64
		for i, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid %s on row %d: %w", expectedHeaders[i], len(profile)+1, err)
			}
			values[i] = v
		}

		profile = append(profile, domain.TSPoint{Z: values[0], T: values[1], S: values[2]})
	}

	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return profile, nil
}

// Write encodes a TS profile in the form Read accepts.
func Write(w io.Writer, profile domain.TSProfile) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(expectedHeaders); err != nil {
		return err
	}
	for _, pt := range profile {
		rec := []string{
			strconv.FormatFloat(pt.Z, 'f', -1, 64),
			strconv.FormatFloat(pt.T, 'f', -1, 64),
			strconv.FormatFloat(pt.S, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// LoadForLocation is not supported: CSV profiles are keyed by station only.
func (s *ProfileStore) LoadForLocation(_ /* lat */, _ /* lon */ float64) (domain.TSProfile, error) {
	return nil, fmt.Errorf("CSV store does not support lat/lon queries - specify a profile id: %w", store.ErrUnsupported)
}

// ListStations returns available station IDs.
func (s *ProfileStore) ListStations() ([]string, error) {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	stations := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if strings.HasSuffix(name, fileSuffix) && len(name) > len(fileSuffix) {
			stations = append(stations, strings.TrimSuffix(name, fileSuffix))
		}
	}

	return stations, nil
}
