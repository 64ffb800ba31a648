package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLDB is the subset of *sql.DB the stores depend on.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Compile-time check that *sql.DB satisfies SQLDB.
var _ SQLDB = (*sql.DB)(nil)

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables and indexes are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	// Enable foreign key enforcement
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS account (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		state TEXT NOT NULL DEFAULT 'active',
		permissions TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS athlete (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		last_name TEXT NOT NULL DEFAULT '',
		roster TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS wellness_record (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		athlete_id TEXT NOT NULL,
		session_date TEXT NOT NULL,
		kind TEXT NOT NULL,
		shift TEXT NOT NULL,
		data_partition TEXT NOT NULL DEFAULT 'production',
		recovery INTEGER NOT NULL DEFAULT 0,
		fatigue INTEGER NOT NULL DEFAULT 0,
		sleep INTEGER NOT NULL DEFAULT 0,
		stress INTEGER NOT NULL DEFAULT 0,
		pain INTEGER NOT NULL DEFAULT 0,
		pain_segment_id INTEGER,
		pain_zones TEXT NOT NULL DEFAULT '[]',
		pain_side TEXT,
		tactical_periodization TEXT,
		load_type_id INTEGER,
		rehab_type_id INTEGER,
		condition_id INTEGER,
		in_period INTEGER NOT NULL DEFAULT 0,
		note TEXT,
		session_minutes INTEGER NOT NULL DEFAULT 0,
		rpe INTEGER NOT NULL DEFAULT 0,
		internal_load INTEGER NOT NULL DEFAULT 0,
		status INTEGER NOT NULL DEFAULT 1,
		recorded_by TEXT NOT NULL DEFAULT '',
		recorded_at TEXT NOT NULL,
		modified_by TEXT,
		updated_at TEXT,
		deleted_by TEXT,
		deleted_at TEXT,
		FOREIGN KEY (athlete_id) REFERENCES athlete(id)
	);

	CREATE TABLE IF NOT EXISTS absence (
		id TEXT PRIMARY KEY,
		athlete_id TEXT NOT NULL,
		type_id INTEGER NOT NULL DEFAULT 0,
		start_date TEXT NOT NULL,
		end_date TEXT,
		reason TEXT,
		FOREIGN KEY (athlete_id) REFERENCES athlete(id)
	);

	CREATE TABLE IF NOT EXISTS catalog_item (
		catalog TEXT NOT NULL,
		id INTEGER NOT NULL,
		name TEXT NOT NULL,
		PRIMARY KEY (catalog, id)
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	// One open record per (athlete, date, shift, partition). Soft-deleted
	// rows (status=3) fall outside the index so the tuple can be reused.
	// The atomic check-in upsert targets this index.
	if _, err := db.Exec(`
	CREATE UNIQUE INDEX IF NOT EXISTS idx_wellness_open_tuple
		ON wellness_record(athlete_id, session_date, shift, data_partition)
		WHERE status <= 2
	`); err != nil {
		return fmt.Errorf("failed to create uniqueness index: %w", err)
	}

	return nil
}
