package script

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentShell/internal/infrastructure/logging"
)

func TestEvalReturnsValue(t *testing.T) {
	e, err := New(Config{}, logging.NewNop())
	require.NoError(t, err)

	v, err := e.Eval(context.Background(), `6 * 7`)
	require.NoError(t, err)
	assert.Equal(t, int64(42), v.Export())
}

func TestEvalTimeoutInterruptsButLeavesRuntimeUsable(t *testing.T) {
	e, err := New(Config{EvalTimeout: 50 * time.Millisecond}, logging.NewNop())
	require.NoError(t, err)

	_, err = e.Eval(context.Background(), `while (true) {}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interrupted")

	v, err := e.Eval(context.Background(), `1 + 1`)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v.Export())
}

func TestEvalHonorsContextCancellation(t *testing.T) {
	e, err := New(Config{}, logging.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = e.Eval(ctx, `while (true) {}`)
	require.Error(t, err)
}

func TestHostGlobalsAreHidden(t *testing.T) {
	e, err := New(Config{}, logging.NewNop())
	require.NoError(t, err)

	for _, global := range []string{"require", "process", "module", "exports"} {
		v, err := e.Eval(context.Background(), "typeof "+global)
		require.NoError(t, err)
		assert.Equal(t, "undefined", v.Export(), global)
	}
}

func TestConsoleRoutesToSink(t *testing.T) {
	var gotLevel, gotMsg string
	e, err := New(Config{Console: func(level, message string) {
		gotLevel, gotMsg = level, message
	}}, logging.NewNop())
	require.NoError(t, err)

	_, err = e.Eval(context.Background(), `console.warn("disk", "almost full")`)
	require.NoError(t, err)
	assert.Equal(t, "warn", gotLevel)
	assert.Equal(t, "disk almost full", gotMsg)
}
