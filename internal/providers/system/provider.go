// Package system exposes host and process information to scripts.
package system

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/GriffinCanCode/AgentShell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentShell/internal/shared/types"
)

// Provider implements system tools.
type Provider struct {
	started time.Time
	log     *logging.Logger
}

// NewProvider creates a system provider.
func NewProvider(log *logging.Logger) *Provider {
	return &Provider{
		started: time.Now(),
		log:     log.Component("sys"),
	}
}

// Definition returns service metadata.
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "sys",
		Name:        "System",
		Description: "Host, process, and environment information",
		Category:    types.CategorySystem,
		Capabilities: []string{
			"time",
			"info",
			"environment",
			"logging",
		},
		Tools: []types.Tool{
			{
				ID: "sys.time", Name: "Current Time",
				Description: "Current time in several representations",
				Parameters:  []types.Parameter{},
				Returns:     "object",
			},
			{
				ID: "sys.info", Name: "System Info",
				Description: "OS, architecture, hostname, PID, uptime",
				Parameters:  []types.Parameter{},
				Returns:     "object",
			},
			{
				ID: "sys.env", Name: "Environment Variable",
				Description: "Read one environment variable",
				Parameters: []types.Parameter{
					{Name: "name", Type: "string", Description: "Variable name", Required: true},
				},
				Returns: "object",
			},
			{
				ID: "sys.log", Name: "Log Message",
				Description: "Write a message to the shell log",
				Parameters: []types.Parameter{
					{Name: "message", Type: "string", Description: "Message text", Required: true},
					{Name: "level", Type: "string", Description: "debug, info, warn, or error", Required: false},
				},
				Returns: "object",
			},
		},
	}
}

// Execute runs a system operation.
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "sys.time":
		return p.time()
	case "sys.info":
		return p.info()
	case "sys.env":
		return p.env(params)
	case "sys.log":
		return p.logMessage(params)
	default:
		return types.Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (p *Provider) time() (*types.Result, error) {
	now := time.Now()
	return types.Success(map[string]interface{}{
		"unix_ms": now.UnixMilli(),
		"iso":     now.Format(time.RFC3339),
		"zone":    now.Location().String(),
	})
}

func (p *Provider) info() (*types.Result, error) {
	hostname, _ := os.Hostname()
	return types.Success(map[string]interface{}{
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"hostname":   hostname,
		"pid":        os.Getpid(),
		"goroutines": runtime.NumGoroutine(),
		"uptime_ms":  time.Since(p.started).Milliseconds(),
	})
}

func (p *Provider) env(params map[string]interface{}) (*types.Result, error) {
	name, ok := params["name"].(string)
	if !ok || name == "" {
		return types.Failure("name parameter is required")
	}
	value, found := os.LookupEnv(name)
	return types.Success(map[string]interface{}{
		"name":  name,
		"value": value,
		"set":   found,
	})
}

func (p *Provider) logMessage(params map[string]interface{}) (*types.Result, error) {
	message, ok := params["message"].(string)
	if !ok || message == "" {
		return types.Failure("message parameter is required")
	}
	level, _ := params["level"].(string)

	switch level {
	case "debug":
		p.log.Debug(message)
	case "warn":
		p.log.Warn(message)
	case "error":
		p.log.Error(message)
	default:
		p.log.Info(message)
	}
	return types.Success(map[string]interface{}{"logged": true})
}
