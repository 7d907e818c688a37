package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/GriffinCanCode/AgentShell/internal/store"
)

// UpsertProperty writes a custom property row, replacing any existing
// row for the same key.
func (d *DB) UpsertProperty(row store.PropertyRow) error {
	_, err := d.db.Exec(`
		INSERT INTO custom_properties (key, value, type, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			type = excluded.type,
			updated_at = excluded.updated_at`,
		row.Key, row.Value, row.Type, row.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert property %q: %w", row.Key, err)
	}
	return nil
}

// GetProperty fetches one custom property row.
func (d *DB) GetProperty(key string) (*store.PropertyRow, error) {
	var row store.PropertyRow
	err := d.db.QueryRow(
		`SELECT key, value, type, updated_at FROM custom_properties WHERE key = ?`, key).
		Scan(&row.Key, &row.Value, &row.Type, &row.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get property %q: %w", key, err)
	}
	return &row, nil
}

// DeleteProperty removes one custom property row. Returns ErrNotFound
// when no row existed; callers that need idempotency ignore it.
func (d *DB) DeleteProperty(key string) error {
	res, err := d.db.Exec(`DELETE FROM custom_properties WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete property %q: %w", key, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListProperties returns every custom property row in key order.
func (d *DB) ListProperties() ([]store.PropertyRow, error) {
	rows, err := d.db.Query(
		`SELECT key, value, type, updated_at FROM custom_properties ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer rows.Close()

	var out []store.PropertyRow
	for rows.Next() {
		var row store.PropertyRow
		if err := rows.Scan(&row.Key, &row.Value, &row.Type, &row.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// UpsertShortcut writes a shortcut row. Existing rows keep their
// created_at; updated_at is refreshed on every write.
func (d *DB) UpsertShortcut(row store.ShortcutRow) error {
	_, err := d.db.Exec(`
		INSERT INTO shortcuts (name, path, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			path = excluded.path,
			updated_at = excluded.updated_at`,
		row.Name, row.Path, row.CreatedAt, row.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert shortcut %q: %w", row.Name, err)
	}
	return nil
}

// GetShortcut fetches one shortcut row.
func (d *DB) GetShortcut(name string) (*store.ShortcutRow, error) {
	var row store.ShortcutRow
	err := d.db.QueryRow(
		`SELECT name, path, created_at, updated_at FROM shortcuts WHERE name = ?`, name).
		Scan(&row.Name, &row.Path, &row.CreatedAt, &row.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shortcut %q: %w", name, err)
	}
	return &row, nil
}

// DeleteShortcut removes one shortcut row. Returns ErrNotFound when no
// row existed.
func (d *DB) DeleteShortcut(name string) error {
	res, err := d.db.Exec(`DELETE FROM shortcuts WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete shortcut %q: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListShortcuts returns every shortcut row in name order.
func (d *DB) ListShortcuts() ([]store.ShortcutRow, error) {
	rows, err := d.db.Query(
		`SELECT name, path, created_at, updated_at FROM shortcuts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list shortcuts: %w", err)
	}
	defer rows.Close()

	var out []store.ShortcutRow
	for rows.Next() {
		var row store.ShortcutRow
		if err := rows.Scan(&row.Name, &row.Path, &row.CreatedAt, &row.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// SaveModule upserts a script module, preserving created_at.
func (d *DB) SaveModule(row store.ModuleRow) error {
	_, err := d.db.Exec(`
		INSERT INTO script_modules (name, source, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			source = excluded.source,
			updated_at = excluded.updated_at`,
		row.Name, row.Source, row.CreatedAt, row.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save module %q: %w", row.Name, err)
	}
	return nil
}

// GetModule fetches one saved module.
func (d *DB) GetModule(name string) (*store.ModuleRow, error) {
	var row store.ModuleRow
	err := d.db.QueryRow(
		`SELECT name, source, created_at, updated_at FROM script_modules WHERE name = ?`, name).
		Scan(&row.Name, &row.Source, &row.CreatedAt, &row.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get module %q: %w", name, err)
	}
	return &row, nil
}

// DeleteModule removes one saved module.
func (d *DB) DeleteModule(name string) error {
	res, err := d.db.Exec(`DELETE FROM script_modules WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete module %q: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListModules returns every saved module in name order.
func (d *DB) ListModules() ([]store.ModuleRow, error) {
	rows, err := d.db.Query(
		`SELECT name, source, created_at, updated_at FROM script_modules ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list modules: %w", err)
	}
	defer rows.Close()

	var out []store.ModuleRow
	for rows.Next() {
		var row store.ModuleRow
		if err := rows.Scan(&row.Name, &row.Source, &row.CreatedAt, &row.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// AppendHistory records one shell input line.
func (d *DB) AppendHistory(sessionID, input string) error {
	_, err := d.db.Exec(`
		INSERT INTO repl_history (session_id, input, created_at)
		VALUES (?, ?, ?)`,
		sessionID, input, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	return nil
}

// RecentHistory returns the most recent history entries across all
// sessions, oldest first.
func (d *DB) RecentHistory(limit int) ([]store.HistoryEntry, error) {
	rows, err := d.db.Query(`
		SELECT id, session_id, input, created_at FROM (
			SELECT id, session_id, input, created_at
			FROM repl_history ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	defer rows.Close()

	var out []store.HistoryEntry
	for rows.Next() {
		var e store.HistoryEntry
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Input, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
