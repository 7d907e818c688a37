package namespace

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentShell/internal/store"
)

func TestBootstrapDurability(t *testing.T) {
	k := newTestKernel(t, nil)
	k.eval(t, `home.x = {a: 1}`)

	restarted := newTestKernel(t, k.db)
	assert.Equal(t, 1, restarted.boot.Properties)
	got := restarted.eval(t, `home.x`).Export()
	assert.Equal(t, map[string]interface{}{"a": int64(1)}, got)
}

func TestBootstrapRevivesFunctions(t *testing.T) {
	k := newTestKernel(t, nil)
	k.eval(t, `home.double = function (x) { return x * 2; }`)

	restarted := newTestKernel(t, k.db)
	assert.Equal(t, int64(14), restarted.eval(t, `home.double(7)`).Export())
}

func TestBootstrapShortcutPersistence(t *testing.T) {
	k := newTestKernel(t, nil)
	k.eval(t, `home.square = function (x) { return x * x; }`)

	ok, err := k.reg.Create("sq", "square")
	require.NoError(t, err)
	require.True(t, ok)

	// Restart: the global must exist without re-registration, and the
	// revived function property must back it.
	restarted := newTestKernel(t, k.db)
	assert.Equal(t, 1, restarted.boot.Shortcuts)
	assert.Equal(t, int64(81), restarted.eval(t, `sq(9)`).Export())
}

func TestBootstrapObjectDropsNestedFunctions(t *testing.T) {
	k := newTestKernel(t, nil)
	k.eval(t, `home.math = {square: function (x) { return x * x; }, base: 10}`)

	// Objects persist through JSON, so nested functions do not survive
	// a restart. Only top-level function properties keep their source.
	restarted := newTestKernel(t, k.db)
	assert.Equal(t, int64(10), restarted.eval(t, `home.math.base`).Export())
	assert.Equal(t, "undefined", restarted.eval(t, `typeof home.math.square`).Export())
}

func TestBootstrapCorruptRowIsolation(t *testing.T) {
	k := newTestKernel(t, nil)

	now := time.Now().UnixMilli()
	require.NoError(t, k.db.UpsertProperty(store.PropertyRow{
		Key: "broken", Value: `{unparsable`, Type: "object", UpdatedAt: now,
	}))
	require.NoError(t, k.db.UpsertProperty(store.PropertyRow{
		Key: "fine", Value: `{"a":1}`, Type: "object", UpdatedAt: now,
	}))

	restarted := newTestKernel(t, k.db)
	assert.Equal(t, []string{"broken"}, restarted.boot.Skipped)
	assert.Equal(t, 1, restarted.boot.Properties)
	assert.Equal(t, map[string]interface{}{"a": int64(1)},
		restarted.eval(t, `home.fine`).Export())

	// The corrupt row is preserved, not deleted.
	row, err := k.db.GetProperty("broken")
	require.NoError(t, err)
	assert.Equal(t, `{unparsable`, row.Value)
}

func TestBootstrapDoesNotRewriteRows(t *testing.T) {
	k := newTestKernel(t, nil)
	k.eval(t, `home.x = 1`)
	before, err := k.db.GetProperty("x")
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)
	restarted := newTestKernel(t, k.db)
	_ = restarted

	after, err := k.db.GetProperty("x")
	require.NoError(t, err)
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt,
		"rehydration must bypass the set interceptor")
}

func TestBootstrapCounterScenario(t *testing.T) {
	k := newTestKernel(t, nil)

	k.eval(t, `home.counter = 42`)
	assert.Equal(t, int64(42), k.eval(t, `home.counter`).Export())

	restarted := newTestKernel(t, k.db)
	assert.Equal(t, int64(42), restarted.eval(t, `home.counter`).Export())

	restarted.eval(t, `home.counter = null`)
	assert.True(t, restarted.eval(t, `home.counter === undefined`).ToBoolean())
	_, err := k.db.GetProperty("counter")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestBootstrapIdempotentSchema(t *testing.T) {
	k := newTestKernel(t, nil)
	// A second full boot over the same database must not fail.
	_ = newTestKernel(t, k.db)
	_ = newTestKernel(t, k.db)
}
