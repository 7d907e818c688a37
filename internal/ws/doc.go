// Package ws streams shell events to WebSocket clients.
//
// Every event published on the bus (namespace writes, shortcut calls,
// UI notifications, AI completions) becomes one JSON frame on every
// connected client. Slow clients drop frames instead of backpressuring
// the kernel.
//
// Message Types (Client → Server):
//   - ping: keep-alive, answered with pong
//
// Message Types (Server → Client):
//   - hello: sent once after upgrade
//   - pong: ping reply
//   - namespace.*, shortcut.*, ai.*, ui.*: bus events
//
// Example Usage:
//
//	handler := ws.NewHandler(bus, metrics, log)
//	router.GET("/stream", handler.HandleConnection)
package ws
