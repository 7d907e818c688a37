package ai

import (
	"context"
	"fmt"

	"github.com/GriffinCanCode/AgentShell/internal/event"
	"github.com/GriffinCanCode/AgentShell/internal/shared/types"
)

// Provider exposes the model client as namespace tools.
type Provider struct {
	client *Client
	bus    *event.Bus
}

// NewProvider creates an AI provider. bus may be nil.
func NewProvider(client *Client, bus *event.Bus) *Provider {
	return &Provider{client: client, bus: bus}
}

// Definition returns service metadata.
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "ai",
		Name:        "AI Assistant",
		Description: "Prompt the local language model",
		Category:    types.CategoryAI,
		Capabilities: []string{
			"completion",
			"health",
		},
		Tools: []types.Tool{
			{
				ID: "ai.complete", Name: "Complete",
				Description: "Send a prompt and return the model's answer",
				Parameters: []types.Parameter{
					{Name: "prompt", Type: "string", Description: "Prompt text", Required: true},
					{Name: "max_tokens", Type: "number", Description: "Token cap", Required: false},
					{Name: "temperature", Type: "number", Description: "Sampling temperature", Required: false},
				},
				Returns: "object",
			},
			{
				ID: "ai.health", Name: "Health",
				Description: "Check the model server and circuit state",
				Parameters:  []types.Parameter{},
				Returns:     "object",
			},
		},
	}
}

// Execute runs an AI operation.
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "ai.complete":
		return p.complete(ctx, params)
	case "ai.health":
		return p.health(ctx)
	default:
		return types.Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (p *Provider) complete(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	prompt, ok := params["prompt"].(string)
	if !ok || prompt == "" {
		return types.Failure("prompt parameter is required")
	}

	req := CompletionRequest{Prompt: prompt}
	if mt, ok := params["max_tokens"].(float64); ok && mt > 0 {
		req.MaxTokens = int(mt)
	}
	if temp, ok := params["temperature"].(float64); ok && temp > 0 {
		req.Temperature = temp
	}

	resp, err := p.client.Complete(ctx, req)
	if err != nil {
		return types.Failure(err.Error())
	}

	if p.bus != nil {
		p.bus.Publish(event.Event{Type: event.AICompletion, Data: map[string]any{
			"model":  resp.Model,
			"tokens": resp.TokensPredicted,
		}})
	}
	return types.Success(map[string]interface{}{
		"content": resp.Content,
		"model":   resp.Model,
		"tokens":  resp.TokensPredicted,
	})
}

func (p *Provider) health(ctx context.Context) (*types.Result, error) {
	err := p.client.Health(ctx)
	data := map[string]interface{}{
		"breaker": p.client.BreakerState(),
		"healthy": err == nil,
	}
	if err != nil {
		data["error"] = err.Error()
	}
	return types.Success(data)
}
