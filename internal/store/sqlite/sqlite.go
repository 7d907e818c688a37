// Package sqlite implements store.Store on SQLite using the pure-Go
// ncruces driver, so the shell binary needs no cgo and tests can run
// against ":memory:".
package sqlite

import (
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/GriffinCanCode/AgentShell/internal/store"
)

// schema defines every table in the shared shell database. The kernel
// owns custom_properties and shortcuts; script_modules and
// repl_history belong to the module manager and the shell. Creation is
// idempotent and runs on every start.
const schema = `
CREATE TABLE IF NOT EXISTS custom_properties (
    key        TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    type       TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS shortcuts (
    name       TEXT PRIMARY KEY,
    path       TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS script_modules (
    name       TEXT PRIMARY KEY,
    source     TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS repl_history (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL,
    input      TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_history_session ON repl_history(session_id, id);
`

// DB is the SQLite-backed shared store.
type DB struct {
	db  *sql.DB
	dsn string
}

var _ store.Store = (*DB)(nil)

// Open opens (or creates) the database at path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	return &DB{db: db, dsn: path}, nil
}

// OpenMemory opens a throwaway in-memory database.
func OpenMemory() (*DB, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A memory DSN per connection means a fresh database per
	// connection; cap the pool at one so every query sees one store.
	db.SetMaxOpenConns(1)
	return &DB{db: db, dsn: ":memory:"}, nil
}

// NewWithDB wraps an existing handle. Used by tests that inject a mock.
func NewWithDB(db *sql.DB) *DB {
	return &DB{db: db}
}

// Init creates all tables if absent. Safe to call on every start.
func (d *DB) Init() error {
	if _, err := d.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Path returns the DSN this store was opened with.
func (d *DB) Path() string {
	return d.dsn
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// Tables lists the user tables present in the database.
func (d *DB) Tables() ([]string, error) {
	rows, err := d.db.Query(
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Stats reports per-table row counts.
func (d *DB) Stats() (map[string]int64, error) {
	tables, err := d.Tables()
	if err != nil {
		return nil, err
	}

	stats := make(map[string]int64, len(tables))
	for _, table := range tables {
		var count int64
		// Table names come from sqlite_master, not user input.
		if err := d.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		stats[table] = count
	}
	return stats, nil
}
