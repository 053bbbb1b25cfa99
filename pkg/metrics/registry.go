// Package metrics holds the process-wide Prometheus registry and the
// constructors for the metrics implementations used by ntstm components.
//
// Metrics are opt-in. Until InitRegistry is called every constructor in
// this package returns nil, and components given a nil metrics value skip
// instrumentation entirely.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	mu       sync.RWMutex
	registry *prometheus.Registry
)

// InitRegistry enables metrics collection with a fresh registry carrying
// the Go runtime and process collectors. Calling it again replaces the
// registry, dropping every previously registered collector.
func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	mu.Lock()
	registry = reg
	mu.Unlock()
	return reg
}

// IsEnabled reports whether InitRegistry has been called.
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return registry != nil
}

// GetRegistry returns the active registry, or nil when metrics are off.
func GetRegistry() *prometheus.Registry {
	mu.RLock()
	defer mu.RUnlock()
	return registry
}

// Disable turns metrics off again. Collectors created earlier keep
// working but are no longer exposed.
func Disable() {
	mu.Lock()
	registry = nil
	mu.Unlock()
}

// Handler returns an HTTP handler exposing the active registry in the
// Prometheus text format. When metrics are off it answers 404.
func Handler() http.Handler {
	reg := GetRegistry()
	if reg == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
