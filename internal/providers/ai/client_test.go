package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentShell/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentShell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentShell/internal/infrastructure/resilience"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.AIConfig{
		BaseURL:   srv.URL,
		Model:     "test-model",
		Timeout:   5 * time.Second,
		MaxTokens: 64,
	}, logging.NewNop())
}

func TestComplete(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/completion", r.URL.Path)

		var req CompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello", req.Prompt)
		assert.Equal(t, 64, req.MaxTokens, "client default applies")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(CompletionResponse{
			Content:         "hi there",
			TokensPredicted: 3,
		})
	})

	resp, err := client.Complete(context.Background(), CompletionRequest{Prompt: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hi there", resp.Content)
	assert.Equal(t, "test-model", resp.Model, "falls back to configured model name")
}

func TestCompleteServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	})

	_, err := client.Complete(context.Background(), CompletionRequest{Prompt: "x"})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.NotFound(w, r)
	})

	require.NoError(t, client.Health(context.Background()))
	assert.Equal(t, "closed", client.BreakerState())
}

func TestBreakerTripsOnDeadModelServer(t *testing.T) {
	var hits int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.NotFound(w, r)
	})

	for i := 0; i < 5; i++ {
		_, err := client.Complete(context.Background(), CompletionRequest{Prompt: "x"})
		require.Error(t, err)
	}
	require.Equal(t, "open", client.BreakerState())

	before := atomic.LoadInt32(&hits)
	_, err := client.Complete(context.Background(), CompletionRequest{Prompt: "x"})
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, before, atomic.LoadInt32(&hits),
		"open breaker must not reach the server")
}

func TestProviderComplete(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(CompletionResponse{Content: "answer", Model: "m"})
	})
	p := NewProvider(client, nil)

	res, err := p.Execute(context.Background(), "ai.complete",
		map[string]interface{}{"prompt": "question"}, nil)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, "answer", res.Data["content"])
}

func TestProviderRequiresPrompt(t *testing.T) {
	p := NewProvider(newTestClient(t, func(w http.ResponseWriter, r *http.Request) {}), nil)

	res, err := p.Execute(context.Background(), "ai.complete", map[string]interface{}{}, nil)
	require.NoError(t, err)
	assert.False(t, res.Success)
}
