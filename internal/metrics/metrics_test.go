package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(t *testing.T, c prometheus.Collector) float64 {
	t.Helper()
	ch := make(chan prometheus.Metric, 1)
	c.Collect(ch)
	close(ch)

	var out dto.Metric
	require.NoError(t, (<-ch).Write(&out))
	if out.Counter != nil {
		return out.Counter.GetValue()
	}
	return out.Gauge.GetValue()
}

func histogramCount(t *testing.T, m *Metrics, name, variant string) uint64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetValue() == variant {
					return metric.GetHistogram().GetSampleCount()
				}
			}
		}
	}
	return 0
}

func TestObserveAct(t *testing.T) {
	m := NewMetrics()

	m.ObserveAct("tool_invocation", "success", 20*time.Millisecond)
	m.ObserveAct("tool_invocation", "success", 10*time.Millisecond)
	m.ObserveAct("llm_response", "planning", time.Millisecond)

	assert.Equal(t, 2.0, value(t, m.ActsTotal.WithLabelValues("tool_invocation", "success")))
	assert.Equal(t, 1.0, value(t, m.ActsTotal.WithLabelValues("llm_response", "planning")))
	assert.Equal(t, uint64(2), histogramCount(t, m, "agentbuilder_act_duration_seconds", "tool_invocation"))
}

func TestObserveTool(t *testing.T) {
	m := NewMetrics()

	m.ObserveTool("echo", "success", time.Millisecond)
	m.ObserveTool("weather", "not_found", 0)

	assert.Equal(t, 1.0, value(t, m.ToolExecutionsTotal.WithLabelValues("echo", "success")))
	assert.Equal(t, 1.0, value(t, m.ToolExecutionsTotal.WithLabelValues("weather", "not_found")))
}

func TestGaugesAndRequests(t *testing.T) {
	m := NewMetrics()

	m.SetMemoryTurns(3)
	m.SetConnections(2)
	m.ObserveRequest("/act", http.StatusOK)
	m.ObserveRequest("/act", http.StatusBadRequest)
	m.ObserveRequest("/act", http.StatusBadRequest)

	assert.Equal(t, 3.0, value(t, m.MemoryTurns))
	assert.Equal(t, 2.0, value(t, m.GatewayConnections))
	assert.Equal(t, 1.0, value(t, m.GatewayRequestsTotal.WithLabelValues("/act", "2xx")))
	assert.Equal(t, 2.0, value(t, m.GatewayRequestsTotal.WithLabelValues("/act", "4xx")))
}

func TestCodeClass(t *testing.T) {
	tests := map[int]string{
		200: "2xx",
		204: "2xx",
		302: "3xx",
		404: "4xx",
		503: "5xx",
	}
	for code, want := range tests {
		assert.Equal(t, want, codeClass(code), "code %d", code)
	}
}

func TestHandler(t *testing.T) {
	m := NewMetrics()
	m.ObserveTool("echo", "success", time.Millisecond)

	server := httptest.NewServer(m.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `agentbuilder_tool_executions_total{status="success",tool="echo"} 1`)
}
