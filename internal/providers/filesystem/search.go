package filesystem

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"github.com/spf13/afero"

	"github.com/GriffinCanCode/AgentShell/internal/shared/types"
)

const defaultFindLimit = 1000

// find walks a tree matching base names against a glob pattern. The
// OS-backed filesystem uses a parallel walker; everything else falls
// back to a sequential afero walk.
func (p *Provider) find(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	root, ok := pathParam(params, "root")
	if !ok {
		return types.Failure("root parameter is required")
	}
	pattern, ok := params["pattern"].(string)
	if !ok || pattern == "" {
		return types.Failure("pattern parameter is required")
	}
	limit := defaultFindLimit
	if l, ok := params["limit"].(float64); ok && l > 0 {
		limit = int(l)
	}

	full := p.resolve(root)
	var matches []string
	var err error
	if p.osBacked {
		matches, err = p.findFast(ctx, full, pattern, limit)
	} else {
		matches, err = p.findSlow(full, pattern, limit)
	}
	if err != nil {
		return types.Failure(err.Error())
	}

	out := make([]interface{}, len(matches))
	for i, m := range matches {
		out[i] = m
	}
	return types.Success(map[string]interface{}{
		"matches": out,
		"count":   len(matches),
	})
}

func (p *Provider) findFast(ctx context.Context, root, pattern string, limit int) ([]string, error) {
	var (
		mu      sync.Mutex
		matches []string
	)
	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		if ok, _ := doublestar.Match(pattern, d.Name()); ok {
			mu.Lock()
			defer mu.Unlock()
			if len(matches) >= limit {
				return fastwalk.ErrSkipFiles
			}
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil && err != context.Canceled {
		return nil, err
	}
	return matches, nil
}

func (p *Provider) findSlow(root, pattern string, limit int) ([]string, error) {
	var matches []string
	err := afero.Walk(p.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if len(matches) >= limit {
			return filepath.SkipDir
		}
		if ok, _ := doublestar.Match(pattern, info.Name()); ok {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// glob matches whole relative paths against a doublestar pattern
// (src/**/*.go style) over the provider's filesystem.
func (p *Provider) glob(params map[string]interface{}) (*types.Result, error) {
	pattern, ok := params["pattern"].(string)
	if !ok || pattern == "" {
		return types.Failure("pattern parameter is required")
	}

	matches, err := doublestar.Glob(globFS(p.fs), pattern)
	if err != nil {
		return types.Failure(err.Error())
	}

	out := make([]interface{}, len(matches))
	for i, m := range matches {
		out[i] = m
	}
	return types.Success(map[string]interface{}{
		"matches": out,
		"count":   len(matches),
	})
}

func globFS(afs afero.Fs) fs.FS {
	if _, ok := afs.(*afero.OsFs); ok {
		return os.DirFS(".")
	}
	return afero.NewIOFS(afs)
}
