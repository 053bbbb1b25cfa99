// Package prometheus provides the Prometheus implementations of the
// metrics interfaces. Importing it registers the constructors with
// pkg/metrics.
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/marmos91/ntstm/pkg/metrics"
	"github.com/marmos91/ntstm/pkg/stream"
)

func init() {
	metrics.RegisterStreamMetricsConstructor(NewStreamMetrics)
}

// streamMetrics is the Prometheus implementation of stream.StreamMetrics.
type streamMetrics struct {
	operations *prometheus.CounterVec
	bytes      *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	transfer   *prometheus.HistogramVec
	failures   *prometheus.CounterVec
}

// NewStreamMetrics creates a new Prometheus-backed StreamMetrics instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewStreamMetrics() stream.StreamMetrics {
	if !metrics.IsEnabled() {
		return nil
	}

	reg := metrics.GetRegistry()

	return &streamMetrics{
		operations: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "ntstm_stream_operations_total",
				Help: "Total number of successful full transfers by operation",
			},
			[]string{"op"}, // "read", "write"
		),
		bytes: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "ntstm_stream_bytes_total",
				Help: "Total bytes moved by successful full transfers",
			},
			[]string{"op"},
		),
		duration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "ntstm_stream_duration_milliseconds",
				Help: "Duration of full transfers in milliseconds",
				Buckets: []float64{
					0.01, // 10us - buffer copies
					0.1,  // 100us
					1,    // 1ms
					10,   // 10ms - descriptor I/O
					100,  // 100ms
					1000, // 1s - slow pipes
				},
			},
			[]string{"op"},
		),
		transfer: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "ntstm_stream_transfer_bytes",
				Help: "Distribution of full transfer sizes",
				Buckets: []float64{
					8,       // scalar fields
					64,      // one growth step
					4096,    // 4KB
					65536,   // 64KB - pipe buffer
					1048576, // 1MB
				},
			},
			[]string{"op"},
		),
		failures: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "ntstm_stream_failures_total",
				Help: "Total number of failed transfers by operation and error kind",
			},
			[]string{"op", "kind"},
		),
	}
}

func (m *streamMetrics) ObserveRead(bytes int64, duration time.Duration) {
	m.observe(stream.OpRead, bytes, duration)
}

func (m *streamMetrics) ObserveWrite(bytes int64, duration time.Duration) {
	m.observe(stream.OpWrite, bytes, duration)
}

func (m *streamMetrics) observe(op string, bytes int64, duration time.Duration) {
	if m == nil {
		return
	}

	m.operations.WithLabelValues(op).Inc()
	m.duration.WithLabelValues(op).Observe(duration.Seconds() * 1000)

	if bytes > 0 {
		m.bytes.WithLabelValues(op).Add(float64(bytes))
		m.transfer.WithLabelValues(op).Observe(float64(bytes))
	}
}

func (m *streamMetrics) RecordFailure(op string, kind stream.ErrorKind) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(op, kind.String()).Inc()
}
