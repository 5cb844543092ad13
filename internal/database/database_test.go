package database

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultPathOverride(t *testing.T) {
	t.Cleanup(ResetPath)

	path := filepath.Join(t.TempDir(), "demodash.db")
	SetPath(path)

	got, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath error: %v", err)
	}
	if got != path {
		t.Fatalf("DefaultPath = %q, want %q", got, path)
	}
}

func TestOpenCreatesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "demodash.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if _, err := db.Exec(`CREATE TABLE probe (id INTEGER)`); err != nil {
		t.Fatalf("Exec error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected database file at %s: %v", path, err)
	}
}

func openTemp(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "demodash.db"))
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrate_AppliesStepsOnce(t *testing.T) {
	db := openTemp(t)
	steps := []string{
		`CREATE TABLE probe (id INTEGER PRIMARY KEY)`,
		`ALTER TABLE probe ADD COLUMN label TEXT NOT NULL DEFAULT ''`,
	}

	for i := 0; i < 2; i++ {
		if err := Migrate(db, "probe", steps); err != nil {
			t.Fatalf("Migrate run %d: %v", i+1, err)
		}
	}

	v, err := Version(db, "probe")
	if err != nil {
		t.Fatalf("Version error: %v", err)
	}
	if v != 2 {
		t.Errorf("version = %d, want 2", v)
	}
	if _, err := db.Exec(`INSERT INTO probe (label) VALUES ('Ливны')`); err != nil {
		t.Errorf("expected migrated column: %v", err)
	}
}

func TestMigrate_ComponentsAreIndependent(t *testing.T) {
	db := openTemp(t)
	if err := Migrate(db, "a", []string{`CREATE TABLE a (id INTEGER)`}); err != nil {
		t.Fatalf("Migrate a: %v", err)
	}
	if v, _ := Version(db, "b"); v != 0 {
		t.Errorf("unmigrated component version = %d, want 0", v)
	}
}

func TestMigrate_FailedStepKeepsVersion(t *testing.T) {
	db := openTemp(t)
	steps := []string{
		`CREATE TABLE probe (id INTEGER)`,
		`THIS IS NOT SQL`,
	}

	if err := Migrate(db, "probe", steps); err == nil {
		t.Fatal("expected migration error")
	}
	if v, _ := Version(db, "probe"); v != 1 {
		t.Errorf("version = %d, want 1", v)
	}
}

func TestMigrate_RejectsNewerSchema(t *testing.T) {
	db := openTemp(t)
	steps := []string{`CREATE TABLE probe (id INTEGER)`, `CREATE INDEX idx_probe ON probe(id)`}
	if err := Migrate(db, "probe", steps); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	if err := Migrate(db, "probe", steps[:1]); err == nil {
		t.Fatal("expected error for a schema newer than the steps")
	}
}
