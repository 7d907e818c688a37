/*
Package monitoring provides Prometheus metrics for the shell: namespace
operations, shortcut invocations, script evaluation latency, bootstrap
outcomes, and the HTTP/WebSocket control plane.

Each Metrics instance owns a private registry, exposed via Registry()
for the /metrics endpoint. Observe wires the collector to the event bus
so kernel activity is counted without instrumenting the kernel itself.
*/
package monitoring
