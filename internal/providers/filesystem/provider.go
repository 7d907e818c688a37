// Package filesystem exposes file operations over an afero filesystem:
// the OS filesystem in production, an in-memory one in tests.
package filesystem

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"

	"github.com/GriffinCanCode/AgentShell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentShell/internal/shared/types"
)

// Provider implements filesystem tools.
type Provider struct {
	fs       afero.Fs
	root     string
	osBacked bool
	log      *logging.Logger
}

// NewProvider creates a filesystem provider. root anchors relative
// paths. An OsFs gets the parallel-walk fast path in find.
func NewProvider(fs afero.Fs, root string, log *logging.Logger) *Provider {
	_, osBacked := fs.(*afero.OsFs)
	return &Provider{
		fs:       fs,
		root:     root,
		osBacked: osBacked,
		log:      log.Component("fs"),
	}
}

// Definition returns service metadata.
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "fs",
		Name:        "Filesystem",
		Description: "Read, write, list, search, and inspect files",
		Category:    types.CategoryFilesystem,
		Capabilities: []string{
			"read",
			"write",
			"list",
			"find",
			"glob",
			"metadata",
		},
		Tools: []types.Tool{
			{
				ID: "fs.read", Name: "Read File",
				Description: "Read a file as text",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "File path", Required: true},
				},
				Returns: "object",
			},
			{
				ID: "fs.write", Name: "Write File",
				Description: "Write text to a file, creating parent directories",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "File path", Required: true},
					{Name: "content", Type: "string", Description: "File content", Required: true},
				},
				Returns: "object",
			},
			{
				ID: "fs.list", Name: "List Directory",
				Description: "List directory entries",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "Directory path", Required: true},
				},
				Returns: "array",
			},
			{
				ID: "fs.stat", Name: "File Metadata",
				Description: "Size, mode, times, and detected MIME type",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "File path", Required: true},
				},
				Returns: "object",
			},
			{
				ID: "fs.exists", Name: "Path Exists",
				Description: "Check whether a path exists",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "Path to check", Required: true},
				},
				Returns: "boolean",
			},
			{
				ID: "fs.mkdir", Name: "Make Directory",
				Description: "Create a directory and parents",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "Directory path", Required: true},
				},
				Returns: "object",
			},
			{
				ID: "fs.remove", Name: "Remove Path",
				Description: "Remove a file or directory tree",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "Path to remove", Required: true},
				},
				Returns: "object",
			},
			{
				ID: "fs.find", Name: "Find Files",
				Description: "Walk a tree matching file names against a pattern",
				Parameters: []types.Parameter{
					{Name: "root", Type: "string", Description: "Directory to search", Required: true},
					{Name: "pattern", Type: "string", Description: "Name pattern (glob)", Required: true},
					{Name: "limit", Type: "number", Description: "Maximum results", Required: false},
				},
				Returns: "array",
			},
			{
				ID: "fs.glob", Name: "Glob",
				Description: "Match paths against a doublestar pattern",
				Parameters: []types.Parameter{
					{Name: "pattern", Type: "string", Description: "Pattern like src/**/*.go", Required: true},
				},
				Returns: "array",
			},
		},
	}
}

// Execute runs a filesystem operation.
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "fs.read":
		return p.read(params)
	case "fs.write":
		return p.write(params)
	case "fs.list":
		return p.list(params)
	case "fs.stat":
		return p.stat(params)
	case "fs.exists":
		return p.exists(params)
	case "fs.mkdir":
		return p.mkdir(params)
	case "fs.remove":
		return p.remove(params)
	case "fs.find":
		return p.find(ctx, params)
	case "fs.glob":
		return p.glob(params)
	default:
		return types.Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (p *Provider) resolve(path string) string {
	if filepath.IsAbs(path) || p.root == "" {
		return path
	}
	return filepath.Join(p.root, path)
}

func pathParam(params map[string]interface{}, key string) (string, bool) {
	s, ok := params[key].(string)
	return s, ok && s != ""
}

func (p *Provider) read(params map[string]interface{}) (*types.Result, error) {
	path, ok := pathParam(params, "path")
	if !ok {
		return types.Failure("path parameter is required")
	}
	data, err := afero.ReadFile(p.fs, p.resolve(path))
	if err != nil {
		return types.Failure(fmt.Sprintf("read failed: %v", err))
	}
	return types.Success(map[string]interface{}{
		"path":    path,
		"content": string(data),
		"size":    len(data),
	})
}

func (p *Provider) write(params map[string]interface{}) (*types.Result, error) {
	path, ok := pathParam(params, "path")
	if !ok {
		return types.Failure("path parameter is required")
	}
	content, ok := params["content"].(string)
	if !ok {
		return types.Failure("content parameter is required")
	}

	full := p.resolve(path)
	if err := p.fs.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return types.Failure(fmt.Sprintf("mkdir failed: %v", err))
	}
	if err := afero.WriteFile(p.fs, full, []byte(content), 0o644); err != nil {
		return types.Failure(fmt.Sprintf("write failed: %v", err))
	}
	return types.Success(map[string]interface{}{"path": path, "written": len(content)})
}

func (p *Provider) list(params map[string]interface{}) (*types.Result, error) {
	path, ok := pathParam(params, "path")
	if !ok {
		return types.Failure("path parameter is required")
	}
	infos, err := afero.ReadDir(p.fs, p.resolve(path))
	if err != nil {
		return types.Failure(fmt.Sprintf("list failed: %v", err))
	}

	entries := make([]interface{}, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, map[string]interface{}{
			"name": info.Name(),
			"size": info.Size(),
			"dir":  info.IsDir(),
		})
	}
	return types.Success(map[string]interface{}{"path": path, "entries": entries})
}

func (p *Provider) stat(params map[string]interface{}) (*types.Result, error) {
	path, ok := pathParam(params, "path")
	if !ok {
		return types.Failure("path parameter is required")
	}
	full := p.resolve(path)
	info, err := p.fs.Stat(full)
	if err != nil {
		return types.Failure(fmt.Sprintf("stat failed: %v", err))
	}

	data := map[string]interface{}{
		"path":     path,
		"size":     info.Size(),
		"dir":      info.IsDir(),
		"mode":     info.Mode().String(),
		"modified": info.ModTime().UnixMilli(),
	}
	if !info.IsDir() {
		if mime := p.detectMime(full); mime != "" {
			data["mime"] = mime
		}
	}
	return types.Success(data)
}

// detectMime sniffs content. Best effort only; stat still succeeds
// when detection fails.
func (p *Provider) detectMime(full string) string {
	if p.osBacked {
		if m, err := mimetype.DetectFile(full); err == nil {
			return m.String()
		}
		return ""
	}
	data, err := afero.ReadFile(p.fs, full)
	if err != nil {
		return ""
	}
	return mimetype.Detect(data).String()
}

func (p *Provider) exists(params map[string]interface{}) (*types.Result, error) {
	path, ok := pathParam(params, "path")
	if !ok {
		return types.Failure("path parameter is required")
	}
	found, err := afero.Exists(p.fs, p.resolve(path))
	if err != nil {
		return types.Failure(fmt.Sprintf("exists failed: %v", err))
	}
	return types.Success(map[string]interface{}{"path": path, "exists": found})
}

func (p *Provider) mkdir(params map[string]interface{}) (*types.Result, error) {
	path, ok := pathParam(params, "path")
	if !ok {
		return types.Failure("path parameter is required")
	}
	if err := p.fs.MkdirAll(p.resolve(path), 0o755); err != nil {
		return types.Failure(fmt.Sprintf("mkdir failed: %v", err))
	}
	return types.Success(map[string]interface{}{"path": path, "created": true})
}

func (p *Provider) remove(params map[string]interface{}) (*types.Result, error) {
	path, ok := pathParam(params, "path")
	if !ok {
		return types.Failure("path parameter is required")
	}
	if err := p.fs.RemoveAll(p.resolve(path)); err != nil {
		return types.Failure(fmt.Sprintf("remove failed: %v", err))
	}
	return types.Success(map[string]interface{}{"path": path, "removed": true})
}
