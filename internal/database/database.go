// Package database opens the local SQLite store shared by demodash
// repositories and applies their versioned schema migrations.
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const (
	appDir = "demodash"
	dbFile = "demodash.db"
)

var pathOverride string

// SetPath overrides the default database path. Intended for testing.
func SetPath(p string) { pathOverride = p }

// ResetPath clears the path override. Intended for testing.
func ResetPath() { pathOverride = "" }

// DefaultPath returns the default database path.
func DefaultPath() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("database: unable to determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, dbFile), nil
}

// Open opens a SQLite database at the provided path in WAL mode,
// creating the parent directory if needed.
func Open(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("database: failed to create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("database: failed to open database: %w", err)
	}
	// SQLite allows one writer; serialize through a single connection.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database: failed to open %s: %w", path, err)
	}
	return db, nil
}

const versionsDDL = `
	CREATE TABLE IF NOT EXISTS schema_versions (
		component TEXT PRIMARY KEY,
		version   INTEGER NOT NULL
	)`

// Migrate brings the tables owned by component up to date. steps[i]
// moves the schema from version i to i+1; steps already applied are
// skipped. Each step runs in its own transaction together with the
// version bump, so a failed step leaves the previous version in place.
func Migrate(db *sql.DB, component string, steps []string) error {
	if _, err := db.Exec(versionsDDL); err != nil {
		return fmt.Errorf("database: %s: failed to create version table: %w", component, err)
	}

	current, err := Version(db, component)
	if err != nil {
		return err
	}
	if current > len(steps) {
		return fmt.Errorf("database: %s: schema version %d is newer than this build (%d)", component, current, len(steps))
	}

	for v := current; v < len(steps); v++ {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("database: %s: %w", component, err)
		}
		if _, err := tx.Exec(steps[v]); err != nil {
			tx.Rollback()
			return fmt.Errorf("database: %s: migration %d failed: %w", component, v+1, err)
		}
		if _, err := tx.Exec(`
			INSERT INTO schema_versions (component, version) VALUES (?, ?)
			ON CONFLICT(component) DO UPDATE SET version = excluded.version`,
			component, v+1); err != nil {
			tx.Rollback()
			return fmt.Errorf("database: %s: failed to record version %d: %w", component, v+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("database: %s: %w", component, err)
		}
	}
	return nil
}

// Version returns the applied schema version of component, zero if it
// has never been migrated.
func Version(db *sql.DB, component string) (int, error) {
	var v int
	err := db.QueryRow(`SELECT version FROM schema_versions WHERE component = ?`, component).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("database: %s: failed to read schema version: %w", component, err)
	}
	return v, nil
}
