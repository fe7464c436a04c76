package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
)

// migration upgrades the schema by one version.
type migration func(tx *sql.Tx) error

// migrations is the ordered chain; migrations[i] brings the schema to version i+1.
// Append only: never edit a released migration.
var migrations = []migration{
	migrateBaseline,
	migrateBookingIndex,
}

// LatestSchemaVersion returns the version reached after every migration.
func LatestSchemaVersion() int {
	return len(migrations)
}

// SchemaVersion returns the current schema version, 0 for an untracked database.
// PRE: db is a valid database connection
// POST: Returns the recorded version or 0
func SchemaVersion(db *sql.DB) (int, error) {
	var exists int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'`).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("check schema_version: %w", err)
	}
	if exists == 0 {
		return 0, nil
	}
	var v int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema_version: %w", err)
	}
	return v, nil
}

// MigrateDB applies every pending migration, each in its own transaction.
// A file database that already holds data is copied to <path>.bak-v<N> first.
// PRE: db is a valid database connection; path is the database file or ":memory:"
// POST: SchemaVersion(db) == LatestSchemaVersion()
func MigrateDB(db *sql.DB, path string) error {
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}
	if current >= LatestSchemaVersion() {
		return nil
	}

	if current > 0 && path != "" && !strings.Contains(path, ":memory:") {
		backup := fmt.Sprintf("%s.bak-v%d", path, current)
		if _, err := db.Exec(`VACUUM INTO ?`, backup); err != nil {
			return fmt.Errorf("backup before migration: %w", err)
		}
		slog.Info("db_backup", "path", backup)
	}

	for v := current; v < LatestSchemaVersion(); v++ {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", v+1, err)
		}
		if err := migrations[v](tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: %w", v+1, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_version (version) VALUES (?)`, v+1); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", v+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", v+1, err)
		}
		slog.Info("db_migrated", "version", v+1)
	}
	return nil
}

func migrateBaseline(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS setting (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS booking (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		courses TEXT NOT NULL,
		form TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	`)
	return err
}

func migrateBookingIndex(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE INDEX IF NOT EXISTS idx_booking_created_at ON booking(created_at);
	CREATE INDEX IF NOT EXISTS idx_booking_email ON booking(email);
	`)
	return err
}
