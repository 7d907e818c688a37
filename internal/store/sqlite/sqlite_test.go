package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentShell/internal/store"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenMemory()
	require.NoError(t, err)
	require.NoError(t, db.Init())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestPropertyUpsertReadsOwnWrite(t *testing.T) {
	db := newTestDB(t)

	row := store.PropertyRow{Key: "x", Value: `{"a":1}`, Type: "object", UpdatedAt: 100}
	require.NoError(t, db.UpsertProperty(row))

	got, err := db.GetProperty("x")
	require.NoError(t, err)
	assert.Equal(t, row, *got)
}

func TestPropertyUpsertReplacesInPlace(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.UpsertProperty(store.PropertyRow{Key: "x", Value: "1", Type: "number", UpdatedAt: 100}))
	require.NoError(t, db.UpsertProperty(store.PropertyRow{Key: "x", Value: "2", Type: "number", UpdatedAt: 200}))

	rows, err := db.ListProperties()
	require.NoError(t, err)
	require.Len(t, rows, 1, "upsert must replace, never append")
	assert.Equal(t, "2", rows[0].Value)
	assert.Equal(t, int64(200), rows[0].UpdatedAt)
}

func TestPropertyDelete(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.UpsertProperty(store.PropertyRow{Key: "x", Value: "1", Type: "number", UpdatedAt: 1}))
	require.NoError(t, db.DeleteProperty("x"))

	_, err := db.GetProperty("x")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, db.DeleteProperty("x"), store.ErrNotFound)
}

func TestShortcutUpsertPreservesCreatedAt(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.UpsertShortcut(store.ShortcutRow{Name: "sq", Path: "math.square", CreatedAt: 100, UpdatedAt: 100}))
	require.NoError(t, db.UpsertShortcut(store.ShortcutRow{Name: "sq", Path: "math.cube", CreatedAt: 999, UpdatedAt: 200}))

	got, err := db.GetShortcut("sq")
	require.NoError(t, err)
	assert.Equal(t, "math.cube", got.Path)
	assert.Equal(t, int64(100), got.CreatedAt, "created_at survives upsert")
	assert.Equal(t, int64(200), got.UpdatedAt)
}

func TestShortcutListOrder(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.UpsertShortcut(store.ShortcutRow{Name: "b", Path: "p.b", CreatedAt: 1, UpdatedAt: 1}))
	require.NoError(t, db.UpsertShortcut(store.ShortcutRow{Name: "a", Path: "p.a", CreatedAt: 1, UpdatedAt: 1}))

	rows, err := db.ListShortcuts()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0].Name)
	assert.Equal(t, "b", rows[1].Name)
}

func TestModuleRoundTrip(t *testing.T) {
	db := newTestDB(t)

	now := time.Now().UnixMilli()
	require.NoError(t, db.SaveModule(store.ModuleRow{Name: "util", Source: "home.x = 1", CreatedAt: now, UpdatedAt: now}))

	got, err := db.GetModule("util")
	require.NoError(t, err)
	assert.Equal(t, "home.x = 1", got.Source)

	require.NoError(t, db.DeleteModule("util"))
	_, err = db.GetModule("util")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestHistoryRecentOrder(t *testing.T) {
	db := newTestDB(t)

	for _, in := range []string{"first", "second", "third"} {
		require.NoError(t, db.AppendHistory("s1", in))
	}

	entries, err := db.RecentHistory(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "second", entries[0].Input)
	assert.Equal(t, "third", entries[1].Input)
}

func TestInitIdempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Init())
	require.NoError(t, db.Init())
}

func TestTablesAndStats(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.UpsertProperty(store.PropertyRow{Key: "x", Value: "1", Type: "number", UpdatedAt: 1}))

	tables, err := db.Tables()
	require.NoError(t, err)
	assert.Contains(t, tables, "custom_properties")
	assert.Contains(t, tables, "shortcuts")

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats["custom_properties"])
}
