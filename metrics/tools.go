package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ToolMetrics instruments tool dispatch (C4).
type ToolMetrics struct {
	CallsTotal    *prometheus.CounterVec
	CallDuration  *prometheus.HistogramVec
}

// NewToolMetrics creates and registers tool dispatch metrics.
func NewToolMetrics() *ToolMetrics {
	m := &ToolMetrics{
		CallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "tool",
			Name:      "calls_total",
			Help:      "Total number of tool calls dispatched, by tool name and success flag.",
		}, []string{"tool", "success"}),

		CallDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "tool",
			Name:      "call_duration_seconds",
			Help:      "Histogram of tool call latencies in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30, 60},
		}, []string{"tool"}),
	}

	Registry.MustRegister(m.CallsTotal, m.CallDuration)
	return m
}

// Record logs one dispatch outcome.
func (m *ToolMetrics) Record(tool string, success bool, duration time.Duration) {
	status := "true"
	if !success {
		status = "false"
	}
	m.CallsTotal.WithLabelValues(tool, status).Inc()
	m.CallDuration.WithLabelValues(tool).Observe(duration.Seconds())
}
