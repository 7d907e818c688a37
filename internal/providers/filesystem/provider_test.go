package filesystem

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentShell/internal/infrastructure/logging"
)

func newMemProvider(t *testing.T) *Provider {
	t.Helper()
	return NewProvider(afero.NewMemMapFs(), "", logging.NewNop())
}

func exec(t *testing.T, p *Provider, tool string, params map[string]interface{}) map[string]interface{} {
	t.Helper()
	res, err := p.Execute(context.Background(), tool, params, nil)
	require.NoError(t, err)
	require.True(t, res.Success, "tool %s failed: %v", tool, res.Error)
	return res.Data
}

func TestWriteReadRoundTrip(t *testing.T) {
	p := newMemProvider(t)

	exec(t, p, "fs.write", map[string]interface{}{
		"path": "notes/today.txt", "content": "remember the milk",
	})
	data := exec(t, p, "fs.read", map[string]interface{}{"path": "notes/today.txt"})
	assert.Equal(t, "remember the milk", data["content"])
}

func TestReadMissingFileFails(t *testing.T) {
	p := newMemProvider(t)

	res, err := p.Execute(context.Background(), "fs.read",
		map[string]interface{}{"path": "nope.txt"}, nil)
	require.NoError(t, err)
	assert.False(t, res.Success)
}

func TestListDirectory(t *testing.T) {
	p := newMemProvider(t)
	exec(t, p, "fs.write", map[string]interface{}{"path": "d/a.txt", "content": "a"})
	exec(t, p, "fs.write", map[string]interface{}{"path": "d/b.txt", "content": "b"})

	data := exec(t, p, "fs.list", map[string]interface{}{"path": "d"})
	entries := data["entries"].([]interface{})
	assert.Len(t, entries, 2)
}

func TestStatDetectsMime(t *testing.T) {
	p := newMemProvider(t)
	exec(t, p, "fs.write", map[string]interface{}{
		"path": "page.html", "content": "<!DOCTYPE html><html></html>",
	})

	data := exec(t, p, "fs.stat", map[string]interface{}{"path": "page.html"})
	assert.Contains(t, data["mime"], "text/html")
	assert.Equal(t, false, data["dir"])
}

func TestExistsAndRemove(t *testing.T) {
	p := newMemProvider(t)
	exec(t, p, "fs.write", map[string]interface{}{"path": "x.txt", "content": "x"})

	data := exec(t, p, "fs.exists", map[string]interface{}{"path": "x.txt"})
	assert.Equal(t, true, data["exists"])

	exec(t, p, "fs.remove", map[string]interface{}{"path": "x.txt"})
	data = exec(t, p, "fs.exists", map[string]interface{}{"path": "x.txt"})
	assert.Equal(t, false, data["exists"])
}

func TestFindByNamePattern(t *testing.T) {
	p := newMemProvider(t)
	exec(t, p, "fs.write", map[string]interface{}{"path": "src/main.go", "content": "x"})
	exec(t, p, "fs.write", map[string]interface{}{"path": "src/deep/util.go", "content": "x"})
	exec(t, p, "fs.write", map[string]interface{}{"path": "src/readme.md", "content": "x"})

	data := exec(t, p, "fs.find", map[string]interface{}{
		"root": "src", "pattern": "*.go",
	})
	assert.Equal(t, 2, data["count"])
}

func TestGlobWholePaths(t *testing.T) {
	p := newMemProvider(t)
	exec(t, p, "fs.write", map[string]interface{}{"path": "src/a/one.go", "content": "x"})
	exec(t, p, "fs.write", map[string]interface{}{"path": "src/b/two.go", "content": "x"})
	exec(t, p, "fs.write", map[string]interface{}{"path": "doc/three.md", "content": "x"})

	data := exec(t, p, "fs.glob", map[string]interface{}{"pattern": "src/**/*.go"})
	assert.Equal(t, 2, data["count"])
}

func TestMkdir(t *testing.T) {
	p := newMemProvider(t)
	exec(t, p, "fs.mkdir", map[string]interface{}{"path": "a/b/c"})

	data := exec(t, p, "fs.stat", map[string]interface{}{"path": "a/b/c"})
	assert.Equal(t, true, data["dir"])
}
