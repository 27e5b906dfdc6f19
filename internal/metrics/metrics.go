// Package metrics exposes Prometheus instrumentation for the simulation engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the engine's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Outcome metrics
	OutcomesTotal    *prometheus.CounterVec
	SimulatedLatency *prometheus.HistogramVec

	// Batch metrics
	OperationsTotal  *prometheus.CounterVec
	BatchSize        *prometheus.HistogramVec
	ValidationErrors *prometheus.CounterVec

	// Ledger metrics
	VolumeTotal *prometheus.CounterVec
}

// New creates metrics registered on a private registry under namespace.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		OutcomesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outcomes_total",
			Help:      "Simulated per-wallet outcomes by operation kind and status",
		}, []string{"kind", "status"}),
		SimulatedLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "simulated_latency_seconds",
			Help:      "Reported (not waited) per-item latency",
			Buckets:   []float64{.05, .1, .2, .5, 1, 2, 5},
		}, []string{"kind"}),
		OperationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Batch calls completed by kind",
		}, []string{"kind"}),
		BatchSize: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of wallets targeted per batch",
			Buckets:   []float64{1, 5, 10, 25, 50, 100},
		}, []string{"kind"}),
		ValidationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_errors_total",
			Help:      "Calls rejected before any simulation ran",
		}, []string{"kind"}),
		VolumeTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_volume_total",
			Help:      "Native units credited or debited by simulated operations",
		}, []string{"kind"}),
	}
}

// ObserveOutcome records one simulated item.
func (m *Metrics) ObserveOutcome(kind, status string, latencyMs int) {
	if m == nil {
		return
	}
	m.OutcomesTotal.WithLabelValues(kind, status).Inc()
	m.SimulatedLatency.WithLabelValues(kind).Observe(float64(latencyMs) / 1000)
}

// ObserveBatch records a completed batch call of the given size.
func (m *Metrics) ObserveBatch(kind string, size int) {
	if m == nil {
		return
	}
	m.OperationsTotal.WithLabelValues(kind).Inc()
	m.BatchSize.WithLabelValues(kind).Observe(float64(size))
}

// ObserveVolume adds moved funds for kind.
func (m *Metrics) ObserveVolume(kind string, amount float64) {
	if m == nil || amount <= 0 {
		return
	}
	m.VolumeTotal.WithLabelValues(kind).Add(amount)
}

// ValidationFailed counts a rejected call.
func (m *Metrics) ValidationFailed(kind string) {
	if m == nil {
		return
	}
	m.ValidationErrors.WithLabelValues(kind).Inc()
}

// Handler returns the HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
