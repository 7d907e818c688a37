// Package computer provides OS automation: shell execution, desktop
// notifications, opening files and URLs, and listing installed
// applications. Shell snippets run through an embedded POSIX
// interpreter rather than /bin/sh so behavior is identical across
// platforms and capturable in tests.
package computer

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/GriffinCanCode/AgentShell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentShell/internal/shared/types"
)

// Provider implements computer automation tools.
type Provider struct {
	workDir string
	timeout time.Duration
	log     *logging.Logger
}

// NewProvider creates a computer provider rooted at workDir.
func NewProvider(workDir string, log *logging.Logger) *Provider {
	if workDir == "" {
		workDir = "."
	}
	return &Provider{
		workDir: workDir,
		timeout: 60 * time.Second,
		log:     log.Component("computer"),
	}
}

// Definition returns service metadata.
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "computer",
		Name:        "Computer Automation",
		Description: "Run shell commands, send notifications, open files and apps",
		Category:    types.CategoryAutomation,
		Capabilities: []string{
			"shell",
			"notifications",
			"open",
			"applications",
		},
		Tools: []types.Tool{
			{
				ID:          "computer.run",
				Name:        "Run Command",
				Description: "Execute a shell snippet and capture its output",
				Parameters: []types.Parameter{
					{Name: "command", Type: "string", Description: "Shell snippet to run", Required: true},
					{Name: "dir", Type: "string", Description: "Working directory", Required: false},
				},
				Returns: "object",
			},
			{
				ID:          "computer.notify",
				Name:        "Send Notification",
				Description: "Show a desktop notification",
				Parameters: []types.Parameter{
					{Name: "title", Type: "string", Description: "Notification title", Required: true},
					{Name: "message", Type: "string", Description: "Notification body", Required: false},
				},
				Returns: "object",
			},
			{
				ID:          "computer.open",
				Name:        "Open Target",
				Description: "Open a file, directory, or URL with the default handler",
				Parameters: []types.Parameter{
					{Name: "target", Type: "string", Description: "Path or URL", Required: true},
				},
				Returns: "object",
			},
			{
				ID:          "computer.apps",
				Name:        "List Applications",
				Description: "List installed applications",
				Parameters:  []types.Parameter{},
				Returns:     "array",
			},
		},
	}
}

// Execute runs a computer operation.
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "computer.run":
		return p.run(ctx, params, appCtx)
	case "computer.notify":
		return p.notify(ctx, params)
	case "computer.open":
		return p.open(ctx, params)
	case "computer.apps":
		return p.apps()
	default:
		return types.Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (p *Provider) run(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	command, ok := params["command"].(string)
	if !ok || command == "" {
		return types.Failure("command parameter is required")
	}

	dir := p.workDir
	if d, ok := params["dir"].(string); ok && d != "" {
		dir = d
	} else if appCtx != nil && appCtx.WorkDir != nil {
		dir = *appCtx.WorkDir
	}

	stdout, stderr, code, err := p.exec(ctx, command, dir)
	if err != nil {
		return types.Failure(err.Error())
	}
	return types.Success(map[string]interface{}{
		"stdout":    stdout,
		"stderr":    stderr,
		"exit_code": code,
	})
}

// exec parses and runs one snippet with captured stdio.
func (p *Provider) exec(ctx context.Context, command, dir string) (stdout, stderr string, code int, err error) {
	parser := syntax.NewParser(syntax.Variant(syntax.LangBash))
	prog, err := parser.Parse(strings.NewReader(command), "")
	if err != nil {
		return "", "", 0, fmt.Errorf("parse error: %w", err)
	}

	var outBuf, errBuf bytes.Buffer
	runner, err := interp.New(
		interp.StdIO(nil, &outBuf, &errBuf),
		interp.Dir(dir),
		interp.Env(expand.ListEnviron(os.Environ()...)),
	)
	if err != nil {
		return "", "", 0, fmt.Errorf("failed to create interpreter: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := runner.Run(runCtx, prog); err != nil {
		if status, ok := interp.IsExitStatus(err); ok {
			return outBuf.String(), errBuf.String(), int(status), nil
		}
		return outBuf.String(), errBuf.String(), 0, err
	}
	return outBuf.String(), errBuf.String(), 0, nil
}

func (p *Provider) notify(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	title, ok := params["title"].(string)
	if !ok || title == "" {
		return types.Failure("title parameter is required")
	}
	message, _ := params["message"].(string)

	var cmd string
	switch runtime.GOOS {
	case "darwin":
		cmd = fmt.Sprintf("osascript -e 'display notification %q with title %q'", message, title)
	case "linux":
		cmd = fmt.Sprintf("notify-send %q %q", title, message)
	default:
		return types.Failure(fmt.Sprintf("notifications not supported on %s", runtime.GOOS))
	}

	if _, stderr, code, err := p.exec(ctx, cmd, p.workDir); err != nil || code != 0 {
		p.log.Warn("notification failed")
		return types.Failure(fmt.Sprintf("notify failed: %s", stderr))
	}
	return types.Success(map[string]interface{}{"delivered": true})
}

func (p *Provider) open(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	target, ok := params["target"].(string)
	if !ok || target == "" {
		return types.Failure("target parameter is required")
	}

	var opener string
	switch runtime.GOOS {
	case "darwin":
		opener = "open"
	case "linux":
		opener = "xdg-open"
	case "windows":
		opener = "start"
	default:
		return types.Failure(fmt.Sprintf("open not supported on %s", runtime.GOOS))
	}

	if _, stderr, code, err := p.exec(ctx, fmt.Sprintf("%s %q", opener, target), p.workDir); err != nil || code != 0 {
		return types.Failure(fmt.Sprintf("open failed: %s", stderr))
	}
	return types.Success(map[string]interface{}{"opened": target})
}

func (p *Provider) apps() (*types.Result, error) {
	var dirs []string
	switch runtime.GOOS {
	case "darwin":
		dirs = []string{"/Applications", "/System/Applications"}
	case "linux":
		dirs = []string{"/usr/share/applications", os.ExpandEnv("$HOME/.local/share/applications")}
	default:
		return types.Failure(fmt.Sprintf("app listing not supported on %s", runtime.GOOS))
	}

	var apps []interface{}
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			name := entry.Name()
			name = strings.TrimSuffix(name, ".app")
			name = strings.TrimSuffix(name, ".desktop")
			apps = append(apps, name)
		}
	}
	return types.Success(map[string]interface{}{"apps": apps, "count": len(apps)})
}
