package ws

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentShell/internal/event"
	"github.com/GriffinCanCode/AgentShell/internal/infrastructure/logging"
)

func dialTestStream(t *testing.T, h *Handler) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/stream", h.HandleConnection)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg map[string]interface{}
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestStreamForwardsBusEvents(t *testing.T) {
	bus := event.New()
	defer bus.Close()
	h := NewHandler(bus, nil, logging.NewNop())

	conn := dialTestStream(t, h)
	assert.Equal(t, "hello", readFrame(t, conn)["type"])

	bus.Publish(event.Event{Type: event.NamespaceSet, Data: map[string]any{"key": "answer"}})

	frame := readFrame(t, conn)
	assert.Equal(t, "namespace.set", frame["type"])
	data := frame["data"].(map[string]interface{})
	assert.Equal(t, "answer", data["key"])
}

func TestStreamAnswersPing(t *testing.T) {
	bus := event.New()
	defer bus.Close()
	h := NewHandler(bus, nil, logging.NewNop())

	conn := dialTestStream(t, h)
	assert.Equal(t, "hello", readFrame(t, conn)["type"])

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "ping"}))
	assert.Equal(t, "pong", readFrame(t, conn)["type"])
}

func TestClientCountTracksConnections(t *testing.T) {
	bus := event.New()
	defer bus.Close()
	h := NewHandler(bus, nil, logging.NewNop())
	assert.Equal(t, 0, h.ClientCount())

	conn := dialTestStream(t, h)
	readFrame(t, conn)
	assert.Equal(t, 1, h.ClientCount())

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return h.ClientCount() == 0 },
		2*time.Second, 10*time.Millisecond)
}
