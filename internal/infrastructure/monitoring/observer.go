package monitoring

import (
	"github.com/GriffinCanCode/AgentShell/internal/event"
)

// Observe subscribes the metrics collector to the event bus, turning
// kernel and shortcut events into counters. Returns an unsubscribe
// function.
func Observe(m *Metrics, bus *event.Bus) func() {
	return bus.SubscribeAll(func(e event.Event) {
		switch e.Type {
		case event.NamespaceSet:
			m.NamespaceOps.WithLabelValues("set", "ok").Inc()
		case event.NamespaceDeleted:
			m.NamespaceOps.WithLabelValues("delete", "ok").Inc()
		case event.NamespaceDenied:
			m.NamespaceOps.WithLabelValues("set", "denied").Inc()
		case event.ShortcutCreated:
			m.ShortcutOps.WithLabelValues("create").Inc()
		case event.ShortcutRemoved:
			m.ShortcutOps.WithLabelValues("remove").Inc()
		case event.ShortcutInvoked:
			name := "unknown"
			if data, ok := e.Data.(map[string]any); ok {
				if n, ok := data["name"].(string); ok {
					name = n
				}
			}
			m.ShortcutCalls.WithLabelValues(name).Inc()
		case event.AICompletion:
			m.AICompletions.Inc()
		}
	})
}
