package metrics

import "github.com/prometheus/client_golang/prometheus"

// SandboxMetrics instruments container lifecycle events (C2).
type SandboxMetrics struct {
	ContainersCreated   prometheus.Counter
	ContainersReused    prometheus.Counter
	ContainersDestroyed prometheus.Counter
	ContainersRecreated prometheus.Counter
}

// NewSandboxMetrics creates and registers sandbox lifecycle metrics.
func NewSandboxMetrics() *SandboxMetrics {
	m := &SandboxMetrics{
		ContainersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace, Subsystem: "sandbox", Name: "containers_created_total",
			Help: "Total number of sandbox containers created.",
		}),
		ContainersReused: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace, Subsystem: "sandbox", Name: "containers_reused_total",
			Help: "Total number of execs that reused an existing container.",
		}),
		ContainersDestroyed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace, Subsystem: "sandbox", Name: "containers_destroyed_total",
			Help: "Total number of sandbox containers destroyed.",
		}),
		ContainersRecreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace, Subsystem: "sandbox", Name: "containers_recreated_total",
			Help: "Total number of times a vanished container was transparently recreated.",
		}),
	}

	Registry.MustRegister(m.ContainersCreated, m.ContainersReused, m.ContainersDestroyed, m.ContainersRecreated)
	return m
}

// IncCreated implements sandbox.LifecycleMetrics.
func (m *SandboxMetrics) IncCreated() { m.ContainersCreated.Inc() }

// IncReused implements sandbox.LifecycleMetrics.
func (m *SandboxMetrics) IncReused() { m.ContainersReused.Inc() }

// IncDestroyed implements sandbox.LifecycleMetrics.
func (m *SandboxMetrics) IncDestroyed() { m.ContainersDestroyed.Inc() }

// IncRecreated implements sandbox.LifecycleMetrics.
func (m *SandboxMetrics) IncRecreated() { m.ContainersRecreated.Inc() }
