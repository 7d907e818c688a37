package clipboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exec(t *testing.T, p *Provider, tool string, params map[string]interface{}) map[string]interface{} {
	t.Helper()
	res, err := p.Execute(context.Background(), tool, params, nil)
	require.NoError(t, err)
	require.True(t, res.Success, "tool %s failed: %v", tool, res.Error)
	return res.Data
}

func TestCopyPaste(t *testing.T) {
	p := NewProvider()

	exec(t, p, "clipboard.copy", map[string]interface{}{"data": "first"})
	exec(t, p, "clipboard.copy", map[string]interface{}{"data": "second"})

	data := exec(t, p, "clipboard.paste", nil)
	assert.Equal(t, "second", data["data"])
	assert.Equal(t, "text", data["format"])
}

func TestPasteEmptyFails(t *testing.T) {
	p := NewProvider()

	res, err := p.Execute(context.Background(), "clipboard.paste", nil, nil)
	require.NoError(t, err)
	assert.False(t, res.Success)
}

func TestHistoryNewestFirst(t *testing.T) {
	p := NewProvider()
	for _, d := range []string{"a", "b", "c"} {
		exec(t, p, "clipboard.copy", map[string]interface{}{"data": d})
	}

	data := exec(t, p, "clipboard.history", map[string]interface{}{"limit": float64(2)})
	entries := data["entries"].([]interface{})
	require.Len(t, entries, 2)
	assert.Equal(t, "c", entries[0].(map[string]interface{})["data"])
	assert.Equal(t, "b", entries[1].(map[string]interface{})["data"])
}

func TestHistoryBounded(t *testing.T) {
	p := NewProvider()
	for i := 0; i < historyLimit+10; i++ {
		exec(t, p, "clipboard.copy", map[string]interface{}{"data": "x"})
	}

	data := exec(t, p, "clipboard.history", nil)
	assert.Equal(t, historyLimit, data["count"])
}

func TestClearAndStats(t *testing.T) {
	p := NewProvider()
	exec(t, p, "clipboard.copy", map[string]interface{}{"data": "x"})
	exec(t, p, "clipboard.paste", nil)

	data := exec(t, p, "clipboard.clear", nil)
	assert.Equal(t, 1, data["cleared"])

	stats := exec(t, p, "clipboard.stats", nil)
	assert.Equal(t, uint64(1), stats["copies"])
	assert.Equal(t, uint64(1), stats["pastes"])
	assert.Equal(t, 0, stats["entries"])
}
