// Package ai talks to a local llama.cpp-style model server and exposes
// completion as a namespace provider.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/GriffinCanCode/AgentShell/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentShell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentShell/internal/infrastructure/resilience"
)

// Client wraps the model server HTTP API with retries and a circuit
// breaker so a dead server fails fast instead of hanging every prompt.
type Client struct {
	resty   *resty.Client
	breaker *resilience.Breaker
	cfg     config.AIConfig
	log     *logging.Logger
}

// CompletionRequest is one prompt.
type CompletionRequest struct {
	Prompt      string   `json:"prompt"`
	MaxTokens   int      `json:"n_predict,omitempty"`
	Temperature float64  `json:"temperature,omitempty"`
	Stop        []string `json:"stop,omitempty"`
}

// CompletionResponse is the model server's answer.
type CompletionResponse struct {
	Content         string `json:"content"`
	Model           string `json:"model"`
	TokensPredicted int    `json:"tokens_predicted"`
	TokensEvaluated int    `json:"tokens_evaluated"`
}

// NewClient builds a client for cfg.BaseURL.
func NewClient(cfg config.AIConfig, log *logging.Logger) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 2
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.Logger = nil

	restyClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "AgentShell/1.0")
	restyClient.SetTransport(retryClient.HTTPClient.Transport)

	breaker := resilience.New("ai-model", resilience.Settings{
		MaxRequests: 2,
		Interval:    60 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{
		resty:   restyClient,
		breaker: breaker,
		cfg:     cfg,
		log:     log.Component("ai"),
	}
}

// Complete sends one prompt and waits for the full answer.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if req.MaxTokens == 0 {
		req.MaxTokens = c.cfg.MaxTokens
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		var out CompletionResponse
		resp, err := c.resty.R().
			SetContext(ctx).
			SetBody(req).
			SetResult(&out).
			Post("/completion")
		if err != nil {
			return nil, fmt.Errorf("model request failed: %w", err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("model server returned %s", resp.Status())
		}
		return &out, nil
	})
	if err != nil {
		return nil, err
	}
	out := result.(*CompletionResponse)
	if out.Model == "" {
		out.Model = c.cfg.Model
	}
	return out, nil
}

// Health checks the model server.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.resty.R().SetContext(ctx).Get("/health")
	if err != nil {
		return fmt.Errorf("model server unreachable: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("model server unhealthy: %s", resp.Status())
	}
	return nil
}

// BreakerState reports the circuit state for the status surface.
func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}
