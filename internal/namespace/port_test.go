package namespace

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentShell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentShell/internal/store"
	"github.com/GriffinCanCode/AgentShell/internal/store/sqlite"
)

func TestPortRoundTrip(t *testing.T) {
	k := newTestKernel(t, nil)

	k.eval(t, `home.greeting = "hello"`)
	assert.Equal(t, "hello", k.port.Get("greeting").Export())

	k.eval(t, `home.config = {retries: 3, verbose: true}`)
	got := k.eval(t, `home.config`).Export()
	assert.Equal(t, map[string]interface{}{"retries": int64(3), "verbose": true}, got)

	row, err := k.db.GetProperty("config")
	require.NoError(t, err)
	assert.Equal(t, "object", row.Type)
}

func TestPortNullDeletes(t *testing.T) {
	k := newTestKernel(t, nil)

	k.eval(t, `home.counter = 42`)
	assert.Equal(t, int64(42), k.eval(t, `home.counter`).Export())
	_, err := k.db.GetProperty("counter")
	require.NoError(t, err)

	k.eval(t, `home.counter = null`)
	assert.True(t, goja.IsUndefined(k.eval(t, `home.counter`)))
	_, err = k.db.GetProperty("counter")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPortUndefinedDeletes(t *testing.T) {
	k := newTestKernel(t, nil)

	ok, err := k.port.Set("temp", k.rt.ToValue("data"))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = k.port.Set("temp", goja.Undefined())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, k.port.Has("temp"))
	_, err = k.db.GetProperty("temp")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPortReservedProtection(t *testing.T) {
	k := newTestKernel(t, nil)
	k.port.Bind("modules", map[string]interface{}{"builtin": true})
	before := k.port.Get("modules").Export()

	ok, err := k.port.Set("modules", k.rt.ToValue("clobbered"))
	require.NoError(t, err)
	assert.False(t, ok)

	// Script-level assignment is silently rejected in sloppy mode.
	k.eval(t, `home.modules = "clobbered"`)

	assert.Equal(t, before, k.port.Get("modules").Export())
	_, err = k.db.GetProperty("modules")
	assert.ErrorIs(t, err, store.ErrNotFound, "no row may ever exist for a reserved name")
}

func TestPortDeleteIdempotent(t *testing.T) {
	k := newTestKernel(t, nil)

	require.NoError(t, k.port.Delete("never-bound"))
	require.NoError(t, k.port.Delete("never-bound"))

	k.eval(t, `home.x = 1`)
	k.eval(t, `delete home.x`)
	assert.True(t, goja.IsUndefined(k.eval(t, `home.x`)))
	require.NoError(t, k.port.Delete("x"))
}

func TestPortPersistsBeforeMemory(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	db := sqlite.NewWithDB(mockDB)
	rt := goja.New()
	ser, err := NewSerializer(rt)
	require.NoError(t, err)
	port := NewPort(rt, db, ser, nil, logging.NewNop())

	mock.ExpectExec("INSERT INTO custom_properties").
		WillReturnError(errors.New("disk full"))

	ok, err := port.Set("x", rt.ToValue(1))
	assert.Error(t, err)
	assert.False(t, ok)
	assert.False(t, port.Has("x"), "memory must not run ahead of a failed write")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPortStoreFailureReachesScript(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	db := sqlite.NewWithDB(mockDB)
	rt := goja.New()
	ser, err := NewSerializer(rt)
	require.NoError(t, err)
	port := NewPort(rt, db, ser, nil, logging.NewNop())
	require.NoError(t, port.Install())

	mock.ExpectExec("INSERT INTO custom_properties").
		WillReturnError(errors.New("disk full"))

	_, err = rt.RunString(`home.x = 1`)
	require.Error(t, err, "store failure must throw into the script")
	assert.Contains(t, err.Error(), "disk full")
}

func TestPortKeysIncludeBuiltins(t *testing.T) {
	k := newTestKernel(t, nil)
	k.port.Bind("sys", map[string]interface{}{})
	k.eval(t, `home.alpha = 1`)

	keys := k.port.Keys()
	assert.Contains(t, keys, "sys")
	assert.Contains(t, keys, "alpha")
}
