package ui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentShell/internal/event"
)

func TestNotifyPublishes(t *testing.T) {
	bus := event.New()
	defer bus.Close()

	var got event.Event
	done := make(chan struct{})
	bus.Subscribe(event.UINotify, func(e event.Event) {
		got = e
		close(done)
	})

	p := NewProvider(bus, nil)
	res, err := p.Execute(context.Background(), "ui.notify",
		map[string]interface{}{"message": "build done", "kind": "info"}, nil)
	require.NoError(t, err)
	require.True(t, res.Success)

	<-done
	data := got.Data.(map[string]any)
	assert.Equal(t, "build done", data["message"])
}

func TestNotifyRequiresMessage(t *testing.T) {
	bus := event.New()
	defer bus.Close()

	p := NewProvider(bus, nil)
	res, err := p.Execute(context.Background(), "ui.notify", map[string]interface{}{}, nil)
	require.NoError(t, err)
	assert.False(t, res.Success)
}

func TestClientCount(t *testing.T) {
	bus := event.New()
	defer bus.Close()

	p := NewProvider(bus, func() int { return 4 })
	res, err := p.Execute(context.Background(), "ui.clients", nil, nil)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, 4, res.Data["clients"])
}
