package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "agentbuilder"

// Metrics holds the Prometheus collectors for the agent loop, tools and gateway.
// It satisfies agent.Observer and toolexecutor.Observer.
type Metrics struct {
	registry *prometheus.Registry

	ActsTotal   *prometheus.CounterVec
	ActDuration *prometheus.HistogramVec

	ToolExecutionsTotal   *prometheus.CounterVec
	ToolExecutionDuration *prometheus.HistogramVec

	MemoryTurns prometheus.Gauge

	GatewayRequestsTotal *prometheus.CounterVec
	GatewayConnections   prometheus.Gauge
}

// NewMetrics creates and registers all metrics on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		ActsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "acts_total",
				Help:      "Total number of agent acts by action variant and status.",
			},
			[]string{"variant", "status"},
		),
		ActDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "act_duration_seconds",
				Help:      "Duration of agent acts in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"variant"},
		),

		ToolExecutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tool_executions_total",
				Help:      "Total number of tool invocations by tool and status.",
			},
			[]string{"tool", "status"},
		),
		ToolExecutionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "tool_execution_duration_seconds",
				Help:      "Duration of tool invocations in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"tool"},
		),

		MemoryTurns: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "memory_turns",
				Help:      "Interactions currently held in agent memory.",
			},
		),

		GatewayRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "gateway_requests_total",
				Help:      "Total gateway requests by route and status code class.",
			},
			[]string{"route", "code"},
		),
		GatewayConnections: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "gateway_websocket_connections",
				Help:      "Open websocket connections.",
			},
		),
	}

	m.registry.MustRegister(
		m.ActsTotal,
		m.ActDuration,
		m.ToolExecutionsTotal,
		m.ToolExecutionDuration,
		m.MemoryTurns,
		m.GatewayRequestsTotal,
		m.GatewayConnections,
	)

	return m
}

// ObserveAct records one agent act.
func (m *Metrics) ObserveAct(variant, status string, duration time.Duration) {
	m.ActsTotal.WithLabelValues(variant, status).Inc()
	m.ActDuration.WithLabelValues(variant).Observe(duration.Seconds())
}

// ObserveTool records one tool invocation.
func (m *Metrics) ObserveTool(tool, status string, duration time.Duration) {
	m.ToolExecutionsTotal.WithLabelValues(tool, status).Inc()
	m.ToolExecutionDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// SetMemoryTurns records the current memory size.
func (m *Metrics) SetMemoryTurns(n int) {
	m.MemoryTurns.Set(float64(n))
}

// SetConnections records the open websocket count.
func (m *Metrics) SetConnections(n int) {
	m.GatewayConnections.Set(float64(n))
}

// ObserveRequest records one gateway request.
func (m *Metrics) ObserveRequest(route string, code int) {
	m.GatewayRequestsTotal.WithLabelValues(route, codeClass(code)).Inc()
}

func codeClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// Handler returns an HTTP handler for the metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
