package ws

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentShell/internal/event"
	"github.com/GriffinCanCode/AgentShell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentShell/internal/infrastructure/monitoring"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // local control plane, origin is not a boundary
	},
}

// Handler streams bus events to WebSocket clients. Every namespace
// write, shortcut call, and UI notification published on the bus is
// forwarded as one JSON frame.
type Handler struct {
	bus     *event.Bus
	metrics *monitoring.Metrics
	log     *logging.Logger
	clients atomic.Int64
}

// NewHandler creates a stream handler. metrics may be nil.
func NewHandler(bus *event.Bus, metrics *monitoring.Metrics, log *logging.Logger) *Handler {
	return &Handler{bus: bus, metrics: metrics, log: log.Component("ws")}
}

// ClientCount reports connected clients, wired into the ui provider.
func (h *Handler) ClientCount() int {
	return int(h.clients.Load())
}

// frame is one outbound message.
type frame struct {
	Type      string `json:"type"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// HandleConnection upgrades the request and streams events until the
// client disconnects. A slow client loses frames rather than blocking
// the bus.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	h.clients.Add(1)
	defer h.clients.Add(-1)
	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}

	feed := make(chan event.Event, 64)
	unsubscribe := h.bus.SubscribeAll(func(e event.Event) {
		select {
		case feed <- e:
		default:
		}
	})
	defer unsubscribe()

	done := make(chan struct{})
	pings := make(chan struct{}, 1)
	go h.readLoop(conn, done, pings)

	// Single writer goroutine; the read loop never writes.
	_ = conn.WriteJSON(frame{Type: "hello", Timestamp: time.Now().Unix()})
	for {
		select {
		case <-done:
			return
		case <-pings:
			if err := conn.WriteJSON(frame{Type: "pong", Timestamp: time.Now().Unix()}); err != nil {
				return
			}
		case e := <-feed:
			if h.metrics != nil {
				h.metrics.RecordWSMessage("out")
			}
			if err := conn.WriteJSON(frame{
				Type:      string(e.Type),
				Data:      e.Data,
				Timestamp: time.Now().Unix(),
			}); err != nil {
				return
			}
		}
	}
}

// readLoop drains inbound messages, signalling pings, and closes done
// when the peer goes away.
func (h *Handler) readLoop(conn *websocket.Conn, done chan struct{}, pings chan struct{}) {
	defer close(done)
	for {
		var msg map[string]interface{}
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if h.metrics != nil {
			h.metrics.RecordWSMessage("in")
		}
		if t, _ := msg["type"].(string); t == "ping" {
			select {
			case pings <- struct{}{}:
			default:
			}
		}
	}
}
