// Package ui bridges the shell to external UI clients: notifications
// published onto the event bus reach every connected WebSocket
// subscriber of the control plane.
package ui

import (
	"context"
	"fmt"

	"github.com/GriffinCanCode/AgentShell/internal/event"
	"github.com/GriffinCanCode/AgentShell/internal/shared/types"
)

// ClientCounter reports how many UI clients are connected. Wired to
// the WebSocket handler when the control plane runs; nil otherwise.
type ClientCounter func() int

// Provider implements the UI bridge tools.
type Provider struct {
	bus     *event.Bus
	clients ClientCounter
}

// NewProvider creates a UI provider. clients may be nil.
func NewProvider(bus *event.Bus, clients ClientCounter) *Provider {
	return &Provider{bus: bus, clients: clients}
}

// Definition returns service metadata.
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "ui",
		Name:        "UI Bridge",
		Description: "Publish notifications to connected UI clients",
		Category:    types.CategoryUI,
		Capabilities: []string{
			"notify",
			"clients",
		},
		Tools: []types.Tool{
			{
				ID: "ui.notify", Name: "Notify Clients",
				Description: "Broadcast a message to every connected UI client",
				Parameters: []types.Parameter{
					{Name: "message", Type: "string", Description: "Message text", Required: true},
					{Name: "kind", Type: "string", Description: "info, warn, or error", Required: false},
				},
				Returns: "object",
			},
			{
				ID: "ui.clients", Name: "Client Count",
				Description: "Number of connected UI clients",
				Parameters:  []types.Parameter{},
				Returns:     "object",
			},
		},
	}
}

// Execute runs a UI operation.
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "ui.notify":
		return p.notify(params)
	case "ui.clients":
		return p.clientCount()
	default:
		return types.Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (p *Provider) notify(params map[string]interface{}) (*types.Result, error) {
	message, ok := params["message"].(string)
	if !ok || message == "" {
		return types.Failure("message parameter is required")
	}
	kind, _ := params["kind"].(string)
	if kind == "" {
		kind = "info"
	}

	p.bus.Publish(event.Event{Type: event.UINotify, Data: map[string]any{
		"message": message,
		"kind":    kind,
	}})
	return types.Success(map[string]interface{}{"published": true})
}

func (p *Provider) clientCount() (*types.Result, error) {
	count := 0
	if p.clients != nil {
		count = p.clients()
	}
	return types.Success(map[string]interface{}{"clients": count})
}
