package yamlprofile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.ngs.io/seawater/internal/adapter/store"
	"go.ngs.io/seawater/internal/domain"
)

const arcticYAML = `name: Arctic
latitude: 89
longitude: 0
points:
  - {z: 0, t: -1.8, s: 32.8}
  - {z: 100, t: -1.1, s: 34.25}
  - {z: 200, t: 1.1, s: 34.8}
`

func TestLoader_LoadDocument(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "arctic.yaml"), []byte(arcticYAML), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "unnamed.yml"), []byte("points: [{z: 0, t: 4, s: 35}, {z: 10, t: 4, s: 35}]\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(dir)

	doc, err := l.LoadDocument("arctic")
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	if doc.Name != "Arctic" || doc.Latitude == nil || *doc.Latitude != 89 {
		t.Errorf("unexpected document header: %+v", doc)
	}
	if len(doc.Points) != 3 || doc.Points[1] != (domain.TSPoint{Z: 100, T: -1.1, S: 34.25}) {
		t.Errorf("unexpected points: %+v", doc.Points)
	}

	doc, err = l.LoadDocument("unnamed")
	if err != nil {
		t.Fatalf("LoadDocument(.yml): %v", err)
	}
	if doc.Name != "unnamed" || doc.Latitude != nil {
		t.Errorf("expected defaulted name and no latitude, got %+v", doc)
	}

	if lat, ok := l.StationLatitude("arctic"); !ok || lat != 89 {
		t.Errorf("StationLatitude(arctic) = %v, %v", lat, ok)
	}
	if _, ok := l.StationLatitude("unnamed"); ok {
		t.Error("document without latitude reported one")
	}

	ids, err := l.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if strings.Join(ids, ",") != "arctic,unnamed" {
		t.Errorf("unexpected ids: %v", ids)
	}
}

func TestLoader_Errors(t *testing.T) {
	l := NewLoader(t.TempDir())

	if _, err := l.LoadForStation("missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := l.LoadForStation("../secret"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for traversal, got %v", err)
	}
	if _, err := l.LoadForLocation(0, 0); !errors.Is(err, store.ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"empty", "", domain.ErrProfileTooShort},
		{"one point", "points: [{z: 0, t: 4, s: 35}]", domain.ErrProfileTooShort},
		{"unsorted", "points: [{z: 10, t: 4, s: 35}, {z: 0, t: 4, s: 35}]", domain.ErrProfileNotSorted},
		{"unknown field", "pts: []", nil},
		{"bad latitude", "latitude: 91\npoints: [{z: 0, t: 4, s: 35}, {z: 10, t: 4, s: 35}]", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.content))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestEncode_Decode(t *testing.T) {
	lat := -20.0
	in := &Document{
		Name:     "South Atlantic",
		Latitude: &lat,
		Points:   domain.TSProfile{{Z: 0, T: 25.6, S: 37.2}, {Z: 200, T: 20.0, S: 36.2}},
	}

	var buf bytes.Buffer
	if err := Encode(&buf, in); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Name != in.Name || *out.Latitude != lat || len(out.Points) != 2 || out.Points[1] != in.Points[1] {
		t.Errorf("round trip mismatch: %+v", out)
	}
}
