package store

import "errors"

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("store: not found")

// PropertyRow is one persisted custom property of the namespace.
// Value holds the serialized payload; Type holds the runtime typeof
// tag recorded at write time.
type PropertyRow struct {
	Key       string
	Value     string
	Type      string
	UpdatedAt int64
}

// ShortcutRow is one persisted shortcut binding. Path is a dotted
// path into the namespace, resolved lazily at call time.
type ShortcutRow struct {
	Name      string
	Path      string
	CreatedAt int64
	UpdatedAt int64
}

// ModuleRow is one saved script module.
type ModuleRow struct {
	Name      string
	Source    string
	CreatedAt int64
	UpdatedAt int64
}

// HistoryEntry is one persisted shell input line.
type HistoryEntry struct {
	ID        int64
	SessionID string
	Input     string
	CreatedAt int64
}

// KernelStore is the namespace kernel's view of the database: exactly
// the two tables it owns. All methods are synchronous and read their
// own writes; there is no write-behind caching. Upserts are
// insert-or-update in place, never append.
type KernelStore interface {
	// Init creates the kernel tables if absent. Safe to call on every start.
	Init() error

	UpsertProperty(row PropertyRow) error
	GetProperty(key string) (*PropertyRow, error)
	DeleteProperty(key string) error
	ListProperties() ([]PropertyRow, error)

	// UpsertShortcut preserves created_at for existing rows and
	// refreshes updated_at on every write.
	UpsertShortcut(row ShortcutRow) error
	GetShortcut(name string) (*ShortcutRow, error)
	DeleteShortcut(name string) error
	ListShortcuts() ([]ShortcutRow, error)
}

// ModuleStore persists saved script modules for the shell.
type ModuleStore interface {
	SaveModule(row ModuleRow) error
	GetModule(name string) (*ModuleRow, error)
	DeleteModule(name string) error
	ListModules() ([]ModuleRow, error)
}

// HistoryStore persists shell input history.
type HistoryStore interface {
	AppendHistory(sessionID, input string) error
	RecentHistory(limit int) ([]HistoryEntry, error)
}

// Store is the full database surface shared by every persisting
// subsystem. The kernel depends only on KernelStore; the shell and
// module manager use the rest.
type Store interface {
	KernelStore
	ModuleStore
	HistoryStore

	// Tables lists the user tables present in the database.
	Tables() ([]string, error)

	// Stats reports per-table row counts.
	Stats() (map[string]int64, error)

	Close() error
}
