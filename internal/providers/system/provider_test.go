package system

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentShell/internal/infrastructure/logging"
)

func TestTime(t *testing.T) {
	p := NewProvider(logging.NewNop())

	res, err := p.Execute(context.Background(), "sys.time", nil, nil)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Greater(t, res.Data["unix_ms"], int64(0))
	assert.NotEmpty(t, res.Data["iso"])
}

func TestInfo(t *testing.T) {
	p := NewProvider(logging.NewNop())

	res, err := p.Execute(context.Background(), "sys.info", nil, nil)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, runtime.GOOS, res.Data["os"])
	assert.GreaterOrEqual(t, res.Data["uptime_ms"], int64(0))
}

func TestEnv(t *testing.T) {
	p := NewProvider(logging.NewNop())
	t.Setenv("SHELL_TEST_VAR", "hello")

	res, err := p.Execute(context.Background(), "sys.env",
		map[string]interface{}{"name": "SHELL_TEST_VAR"}, nil)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, "hello", res.Data["value"])
	assert.Equal(t, true, res.Data["set"])

	res, err = p.Execute(context.Background(), "sys.env",
		map[string]interface{}{"name": "SHELL_TEST_UNSET"}, nil)
	require.NoError(t, err)
	assert.Equal(t, false, res.Data["set"])
}

func TestLogRequiresMessage(t *testing.T) {
	p := NewProvider(logging.NewNop())

	res, err := p.Execute(context.Background(), "sys.log", map[string]interface{}{}, nil)
	require.NoError(t, err)
	assert.False(t, res.Success)

	res, err = p.Execute(context.Background(), "sys.log",
		map[string]interface{}{"message": "hi", "level": "warn"}, nil)
	require.NoError(t, err)
	assert.True(t, res.Success)
}
