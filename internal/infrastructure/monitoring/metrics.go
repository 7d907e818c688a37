package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the shell.
type Metrics struct {
	// Namespace kernel metrics
	NamespaceOps    *prometheus.CounterVec
	PropertiesBound prometheus.Gauge

	// Shortcut metrics
	ShortcutOps   *prometheus.CounterVec
	ShortcutCalls *prometheus.CounterVec

	// Script engine metrics
	EvalDuration prometheus.Histogram

	// Bootstrap metrics
	BootRestored *prometheus.GaugeVec
	BootSkipped  prometheus.Gauge

	// AI metrics
	AICompletions prometheus.Counter

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	registry *prometheus.Registry
}

// NewMetrics creates a metrics collector over its own registry, so
// repeated construction never trips duplicate registration.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	factory := promauto.With(registry)

	m := &Metrics{
		startTime: time.Now(),
		registry:  registry,

		NamespaceOps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shell_namespace_ops_total",
				Help: "Namespace operations by kind and outcome",
			},
			[]string{"op", "outcome"},
		),
		PropertiesBound: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "shell_namespace_properties",
				Help: "Custom properties currently bound",
			},
		),

		ShortcutOps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shell_shortcut_ops_total",
				Help: "Shortcut create and remove operations",
			},
			[]string{"op"},
		),
		ShortcutCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shell_shortcut_calls_total",
				Help: "Shortcut invocations by name",
			},
			[]string{"name"},
		),

		EvalDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "shell_eval_duration_seconds",
				Help:    "Script evaluation duration in seconds",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5, 30},
			},
		),

		BootRestored: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "shell_boot_restored",
				Help: "Rows restored at last bootstrap, by kind",
			},
			[]string{"kind"},
		),
		BootSkipped: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "shell_boot_skipped",
				Help: "Rows skipped as unreadable at last bootstrap",
			},
		),

		AICompletions: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "shell_ai_completions_total",
				Help: "Model completions served",
			},
		),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shell_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shell_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "shell_ws_connections",
				Help: "Active WebSocket stream clients",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shell_ws_messages_total",
				Help: "WebSocket messages by direction",
			},
			[]string{"direction"},
		),

		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "shell_uptime_seconds",
				Help: "Process uptime in seconds",
			},
		),
	}

	go m.updateUptime()
	return m
}

// Registry exposes the backing registry for the /metrics endpoint.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.Uptime.Set(time.Since(m.startTime).Seconds())
	}
}

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordEval records one script evaluation.
func (m *Metrics) RecordEval(duration time.Duration) {
	m.EvalDuration.Observe(duration.Seconds())
}

// RecordBoot records the outcome of a bootstrap run.
func (m *Metrics) RecordBoot(shortcuts, properties, skipped int) {
	m.BootRestored.WithLabelValues("shortcut").Set(float64(shortcuts))
	m.BootRestored.WithLabelValues("property").Set(float64(properties))
	m.BootSkipped.Set(float64(skipped))
}

// RecordWSMessage records a WebSocket message.
func (m *Metrics) RecordWSMessage(direction string) {
	m.WSMessages.WithLabelValues(direction).Inc()
}

// IncWSConnections increments the stream client gauge.
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
}

// DecWSConnections decrements the stream client gauge.
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
}
