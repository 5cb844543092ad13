package exportlog

import (
	"database/sql"
	"fmt"
	"time"

	"nathanbeddoewebdev/demodash/internal/database"
)

// Repository defines the persistence interface for export entries.
type Repository interface {
	Save(entry *Entry) error
	List(limit int) ([]Entry, error)
	ListByCategory(category string, limit int) ([]Entry, error)
	Prune(olderThan time.Duration) (int64, error)
	Close() error
}

// SQLiteRepository implements Repository backed by a local SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

// Open creates or opens the export log at the default path.
func Open() (*SQLiteRepository, error) {
	path, err := database.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("exportlog: %w", err)
	}
	return OpenAt(path)
}

// OpenAt creates or opens a SQLite database at the given path.
func OpenAt(path string) (*SQLiteRepository, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("exportlog: %w", err)
	}

	r := &SQLiteRepository{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

// migrations are applied in order by database.Migrate.
var migrations = []string{
	`CREATE TABLE export_log (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		batch_id   TEXT    NOT NULL,
		timestamp  TEXT    NOT NULL,
		category   TEXT    NOT NULL,
		format     TEXT    NOT NULL,
		path       TEXT    NOT NULL DEFAULT '',
		row_count  INTEGER NOT NULL DEFAULT 0,
		outcome    TEXT    NOT NULL DEFAULT '',
		detail     TEXT    NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX idx_export_log_timestamp ON export_log(timestamp);
	CREATE INDEX idx_export_log_category ON export_log(category);
	CREATE INDEX idx_export_log_batch ON export_log(batch_id)`,
}

func (r *SQLiteRepository) migrate() error {
	if err := database.Migrate(r.db, "export_log", migrations); err != nil {
		return fmt.Errorf("exportlog: %w", err)
	}
	return nil
}

// timestampLayout is fixed width so stored timestamps sort as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Save inserts a new entry.
func (r *SQLiteRepository) Save(entry *Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	result, err := r.db.Exec(`
        INSERT INTO export_log (batch_id, timestamp, category, format, path, row_count, outcome, detail)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.BatchID, entry.Timestamp.UTC().Format(timestampLayout), entry.Category, entry.Format,
		entry.Path, entry.Rows, entry.Outcome, entry.Detail,
	)
	if err != nil {
		return fmt.Errorf("exportlog: insert failed: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("exportlog: failed to get last insert ID: %w", err)
	}
	entry.ID = id
	return nil
}

// List returns the most recent n entries.
func (r *SQLiteRepository) List(limit int) ([]Entry, error) {
	rows, err := r.db.Query(`
        SELECT id, batch_id, timestamp, category, format, path, row_count, outcome, detail
        FROM export_log ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("exportlog: query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// ListByCategory returns the most recent n entries for a category label.
func (r *SQLiteRepository) ListByCategory(category string, limit int) ([]Entry, error) {
	rows, err := r.db.Query(`
        SELECT id, batch_id, timestamp, category, format, path, row_count, outcome, detail
        FROM export_log WHERE category = ? ORDER BY timestamp DESC, id DESC LIMIT ?`, category, limit)
	if err != nil {
		return nil, fmt.Errorf("exportlog: query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// Prune deletes entries older than the given duration.
func (r *SQLiteRepository) Prune(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan).Format(timestampLayout)
	result, err := r.db.Exec(`DELETE FROM export_log WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("exportlog: delete failed: %w", err)
	}
	return result.RowsAffected()
}

// Close releases database resources.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func scanRows(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var entry Entry
		var timestampStr string
		err := rows.Scan(
			&entry.ID, &entry.BatchID, &timestampStr, &entry.Category, &entry.Format,
			&entry.Path, &entry.Rows, &entry.Outcome, &entry.Detail,
		)
		if err != nil {
			return nil, fmt.Errorf("exportlog: scan failed: %w", err)
		}
		entry.Timestamp, _ = time.Parse(time.RFC3339Nano, timestampStr)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
