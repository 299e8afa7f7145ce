package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AgentMetrics instruments the agent loop's termination and the LLM calls
// driving it (C5).
type AgentMetrics struct {
	StopReasonTotal *prometheus.CounterVec
	TurnsPerRequest prometheus.Histogram
	LLMRequests     *prometheus.CounterVec
	LLMDuration     *prometheus.HistogramVec
	LLMErrors       *prometheus.CounterVec
	FetchRedirects  prometheus.Histogram
}

// NewAgentMetrics creates and registers agent-loop and LLM-call metrics.
func NewAgentMetrics() *AgentMetrics {
	m := &AgentMetrics{
		StopReasonTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace, Subsystem: "agent", Name: "stop_reason_total",
			Help: "Total number of agent loop terminations by stop reason.",
		}, []string{"reason"}),

		TurnsPerRequest: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace, Subsystem: "agent", Name: "turns_per_request",
			Help:    "Number of THINK iterations per agent request.",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		}),

		LLMRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace, Subsystem: "llm", Name: "requests_total",
			Help: "Total number of LLM requests by provider, model, and status.",
		}, []string{"provider", "model", "status"}),

		LLMDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace, Subsystem: "llm", Name: "request_duration_seconds",
			Help:    "Histogram of LLM request latencies in seconds.",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"provider", "model"}),

		LLMErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace, Subsystem: "llm", Name: "errors_total",
			Help: "Total number of LLM errors by provider, model, and error class.",
		}, []string{"provider", "model", "error_type"}),

		FetchRedirects: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace, Subsystem: "fetch", Name: "redirects_followed",
			Help:    "Number of redirect hops followed per fetch call.",
			Buckets: prometheus.LinearBuckets(0, 1, 6),
		}),
	}

	Registry.MustRegister(
		m.StopReasonTotal, m.TurnsPerRequest,
		m.LLMRequests, m.LLMDuration, m.LLMErrors,
		m.FetchRedirects,
	)
	return m
}

// RecordStop logs one agent loop termination.
func (m *AgentMetrics) RecordStop(reason string, turns int) {
	m.StopReasonTotal.WithLabelValues(reason).Inc()
	m.TurnsPerRequest.Observe(float64(turns))
}

// RecordRequest implements llm.MetricsRecorder.
func (m *AgentMetrics) RecordRequest(provider, model, status string, duration time.Duration) {
	m.LLMRequests.WithLabelValues(provider, model, status).Inc()
	m.LLMDuration.WithLabelValues(provider, model).Observe(duration.Seconds())
}

// RecordError implements llm.MetricsRecorder.
func (m *AgentMetrics) RecordError(provider, model, errorType string) {
	m.LLMErrors.WithLabelValues(provider, model, errorType).Inc()
}
