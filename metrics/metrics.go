// Package metrics exposes Prometheus instrumentation for the agent loop,
// the tool registry, the sandbox manager, and the fetcher.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Namespace is the Prometheus namespace for every metric below.
const Namespace = "sandboxagent"

// Registry is the custom registry every metric in this package registers
// onto, kept separate from the default global registry.
var Registry = prometheus.NewRegistry()
