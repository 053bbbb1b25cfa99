package metrics

import (
	"github.com/marmos91/ntstm/pkg/stream"
)

// NewStreamMetrics creates a new Prometheus-backed StreamMetrics instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called) or if
// no implementation has been registered. When nil is returned, callers
// should pass nil to the metered stream constructors, which then return
// the stream unwrapped.
//
// Example usage:
//
//	metrics.InitRegistry()
//	m := metrics.NewStreamMetrics()
//	r := stream.NewMeteredReader(stream.NewFileStream(fd), m)
func NewStreamMetrics() stream.StreamMetrics {
	if !IsEnabled() || newPrometheusStreamMetrics == nil {
		return nil
	}
	return newPrometheusStreamMetrics()
}

// newPrometheusStreamMetrics is implemented in pkg/metrics/prometheus.
// This indirection avoids import cycles while keeping the API clean.
var newPrometheusStreamMetrics func() stream.StreamMetrics

// RegisterStreamMetricsConstructor registers the Prometheus stream metrics
// constructor. Called by pkg/metrics/prometheus during package
// initialization.
func RegisterStreamMetricsConstructor(constructor func() stream.StreamMetrics) {
	newPrometheusStreamMetrics = constructor
}
