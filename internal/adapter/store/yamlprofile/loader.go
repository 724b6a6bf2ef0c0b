// Package yamlprofile loads TS profiles described in YAML documents.
package yamlprofile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"go.ngs.io/seawater/internal/adapter/store"
	"go.ngs.io/seawater/internal/domain"
)

// Document is one profile file.
//
//	name: North Pacific
//	latitude: 39
//	longitude: 165
//	points:
//	  - {z: 0, t: 12.0, s: 33.8}
//	  - {z: 500, t: 7.0, s: 34.0}
type Document struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description,omitempty"`
	Latitude    *float64         `yaml:"latitude,omitempty"`
	Longitude   *float64         `yaml:"longitude,omitempty"`
	Points      domain.TSProfile `yaml:"points"`
}

// Loader reads {dir}/{id}.yaml (or .yml) files.
type Loader struct {
	dir string
}

var _ store.ProfileLoader = (*Loader)(nil)

// NewLoader creates a loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// LoadDocument reads and validates the document of a profile id.
func (l *Loader) LoadDocument(id string) (*Document, error) {
	path, err := l.resolve(id)
	if err != nil {
		return nil, err
	}

	//nolint:gosec // G304: path built from configured dir and a validated id.
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open profile %s: %w", id, err)
	}
	defer func() { _ = f.Close() }()

	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("profile %s (%s): %w", id, path, err)
	}
	if doc.Name == "" {
		doc.Name = id
	}
	return doc, nil
}

// Decode parses a YAML profile document and checks the profile invariants.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty document: %w", domain.ErrProfileTooShort)
		}
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if doc.Latitude != nil && (*doc.Latitude < -90 || *doc.Latitude > 90) {
		return nil, fmt.Errorf("latitude %g out of range", *doc.Latitude)
	}
	if err := doc.Points.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Encode writes doc as YAML.
func Encode(w io.Writer, doc *Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// LoadForStation implements store.ProfileLoader.
func (l *Loader) LoadForStation(stationID string) (domain.TSProfile, error) {
	doc, err := l.LoadDocument(stationID)
	if err != nil {
		return nil, err
	}
	return doc.Points, nil
}

// LoadForLocation is not supported; documents are addressed by id.
func (l *Loader) LoadForLocation(_, _ float64) (domain.TSProfile, error) {
	return nil, fmt.Errorf("YAML store does not support lat/lon queries: %w", store.ErrUnsupported)
}

// List returns the ids of all profile documents in the directory.
func (l *Loader) List() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile directory: %w", err)
	}

	ids := make([]string, 0)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext == ".yaml" || ext == ".yml" {
			ids = append(ids, strings.TrimSuffix(e.Name(), ext))
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (l *Loader) resolve(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return "", fmt.Errorf("invalid profile id %q: %w", id, store.ErrNotFound)
	}
	for _, ext := range []string{".yaml", ".yml"} {
		path := filepath.Join(l.dir, id+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no YAML profile %s in %s: %w", id, l.dir, store.ErrNotFound)
}

// StationLatitude implements store.Locator for documents carrying a latitude.
func (l *Loader) StationLatitude(stationID string) (float64, bool) {
	doc, err := l.LoadDocument(stationID)
	if err != nil || doc.Latitude == nil {
		return 0, false
	}
	return *doc.Latitude, true
}
