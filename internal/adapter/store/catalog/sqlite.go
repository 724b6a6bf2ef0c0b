// Package catalog provides a SQLite-backed TS profile catalog.
package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"go.ngs.io/seawater/internal/adapter/store"
	"go.ngs.io/seawater/internal/domain"
)

// DefaultSearchRadiusKm bounds LoadForLocation lookups.
const DefaultSearchRadiusKm = 100.0

// Location is the geographic position a profile was observed at.
type Location struct {
	Lat float64
	Lon float64
}

// Entry describes a stored profile.
type Entry struct {
	ID       string   `db:"id" json:"id"`
	Name     string   `db:"name" json:"name"`
	Lat      *float64 `db:"lat" json:"lat,omitempty"`
	Lon      *float64 `db:"lon" json:"lon,omitempty"`
	Points   int      `db:"points" json:"points"`
	MaxDepth float64  `db:"max_depth" json:"max_depth_m"`
	Revision string   `db:"revision" json:"revision"`
}

// Catalog wraps a SQLite connection holding named TS profiles.
type Catalog struct {
	conn *sqlx.DB

	// SearchRadiusKm is the maximum distance for LoadForLocation matches.
	SearchRadiusKm float64
}

// Open opens or creates a catalog database at the given path.
func Open(path string) (*Catalog, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	c := &Catalog{conn: conn, SearchRadiusKm: DefaultSearchRadiusKm}
	if err := c.migrate(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return c, nil
}

// Close closes the database connection.
func (c *Catalog) Close() error {
	return c.conn.Close()
}

func (c *Catalog) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		lat REAL,
		lon REAL,
		revision TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS profile_points (
		profile_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		idx INTEGER NOT NULL,
		z REAL NOT NULL,
		t REAL NOT NULL,
		s REAL NOT NULL,
		PRIMARY KEY (profile_id, idx)
	);

	CREATE INDEX IF NOT EXISTS idx_profiles_lat ON profiles(lat);
	`
	_, err := c.conn.Exec(schema)
	return err
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// Save stores profile under id, replacing any previous version. loc may be
// nil for profiles without a position. The new revision id is returned.
func (c *Catalog) Save(id, name string, loc *Location, profile domain.TSProfile) (string, error) {
	id = normalizeID(id)
	if id == "" {
		return "", errors.New("profile id must not be empty")
	}
	if err := profile.Validate(); err != nil {
		return "", fmt.Errorf("profile %s: %w", id, err)
	}
	if name == "" {
		name = id
	}

	var lat, lon any
	if loc != nil {
		if loc.Lat < -90 || loc.Lat > 90 || loc.Lon < -180 || loc.Lon > 360 {
			return "", fmt.Errorf("profile %s: location (%g, %g) out of range", id, loc.Lat, loc.Lon)
		}
		lat, lon = loc.Lat, loc.Lon
	}
	revision := uuid.NewString()

	tx, err := c.conn.Beginx()
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM profile_points WHERE profile_id = ?", id); err != nil {
		return "", fmt.Errorf("clear points %s: %w", id, err)
	}
	if _, err := tx.Exec(
		"INSERT OR REPLACE INTO profiles (id, name, lat, lon, revision) VALUES (?, ?, ?, ?, ?)",
		id, name, lat, lon, revision,
	); err != nil {
		return "", fmt.Errorf("insert profile %s: %w", id, err)
	}

	stmt, err := tx.Preparex("INSERT INTO profile_points (profile_id, idx, z, t, s) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return "", err
	}
	defer func() { _ = stmt.Close() }()

	for i, pt := range profile {
		if _, err := stmt.Exec(id, i, pt.Z, pt.T, pt.S); err != nil {
			return "", fmt.Errorf("insert point %s[%d]: %w", id, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return revision, nil
}

// Delete removes a profile. Deleting an unknown id returns store.ErrNotFound.
func (c *Catalog) Delete(id string) error {
	id = normalizeID(id)
	tx, err := c.conn.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM profile_points WHERE profile_id = ?", id); err != nil {
		return err
	}
	res, err := tx.Exec("DELETE FROM profiles WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: profile %s", store.ErrNotFound, id)
	}
	return tx.Commit()
}

// LoadForStation returns the profile stored under id.
func (c *Catalog) LoadForStation(id string) (domain.TSProfile, error) {
	id = normalizeID(id)

	var exists int
	err := c.conn.Get(&exists, "SELECT COUNT(*) FROM profiles WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("lookup profile %s: %w", id, err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: profile %s", store.ErrNotFound, id)
	}

	var profile domain.TSProfile
	err = c.conn.Select(&profile,
		"SELECT z, t, s FROM profile_points WHERE profile_id = ? ORDER BY idx",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("load points %s: %w", id, err)
	}
	return profile, nil
}

// StationLatitude implements store.Locator.
func (c *Catalog) StationLatitude(id string) (float64, bool) {
	var lat sql.NullFloat64
	if err := c.conn.Get(&lat, "SELECT lat FROM profiles WHERE id = ?", normalizeID(id)); err != nil {
		return 0, false
	}
	return lat.Float64, lat.Valid
}

// LoadForLocation returns the nearest located profile within SearchRadiusKm.
func (c *Catalog) LoadForLocation(lat, lon float64) (domain.TSProfile, error) {
	entry, dist, err := c.Nearest(lat, lon)
	if err != nil {
		return nil, err
	}
	if dist > c.SearchRadiusKm {
		return nil, fmt.Errorf("%w: nearest profile %s is %.1f km away", store.ErrNotFound, entry.ID, dist)
	}
	return c.LoadForStation(entry.ID)
}

// Nearest returns the located profile closest to (lat, lon) and its
// distance in kilometers.
func (c *Catalog) Nearest(lat, lon float64) (*Entry, float64, error) {
	var located []Entry
	err := c.conn.Select(&located, `SELECT p.id, p.name, p.lat, p.lon, p.revision,
			COUNT(pp.idx) AS points, COALESCE(MAX(pp.z), 0) AS max_depth
		FROM profiles p LEFT JOIN profile_points pp ON pp.profile_id = p.id
		WHERE p.lat IS NOT NULL AND p.lon IS NOT NULL
		GROUP BY p.id`)
	if err != nil {
		return nil, 0, fmt.Errorf("list located profiles: %w", err)
	}

	bestDist := math.MaxFloat64
	var best *Entry
	for i := range located {
		e := &located[i]
		d := domain.HaversineKm(lat, lon, *e.Lat, *e.Lon)
		if d < bestDist {
			bestDist = d
			best = e
		}
	}
	if best == nil {
		return nil, 0, fmt.Errorf("%w: no located profiles in catalog", store.ErrNotFound)
	}
	return best, bestDist, nil
}

// List returns all stored profiles ordered by id.
func (c *Catalog) List() ([]Entry, error) {
	var entries []Entry
	err := c.conn.Select(&entries, `SELECT p.id, p.name, p.lat, p.lon, p.revision,
			COUNT(pp.idx) AS points, COALESCE(MAX(pp.z), 0) AS max_depth
		FROM profiles p LEFT JOIN profile_points pp ON pp.profile_id = p.id
		GROUP BY p.id
		ORDER BY p.id`)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return entries, nil
}
