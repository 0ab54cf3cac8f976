// Package metric provides Prometheus metrics for famcheck.
package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace is the metric namespace shared by all famcheck collectors.
const Namespace = "famcheck"

// OutcomeOK labels a request that completed and decoded successfully.
const OutcomeOK = "ok"

// ClientMetrics holds the network client collectors.
// A nil *ClientMetrics is valid and records nothing.
type ClientMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlight        prometheus.Gauge
}

// NewClientMetrics creates the client collectors and registers them with reg.
// A nil reg leaves the collectors unregistered, which is useful in tests.
func NewClientMetrics(reg prometheus.Registerer) *ClientMetrics {
	m := &ClientMetrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Requests dispatched by the network client, by outcome",
		}, []string{"method", "path", "outcome"}),

		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Round-trip latency of network client requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),

		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "client",
			Name:      "requests_in_flight",
			Help:      "Requests currently awaiting a response",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.RequestsTotal, m.RequestDuration, m.InFlight)
	}
	return m
}

// Start marks a request as in flight and returns a function that records
// its outcome and latency. The returned function must be called exactly once.
func (m *ClientMetrics) Start(method, path string) func(outcome string) {
	if m == nil {
		return func(string) {}
	}

	start := time.Now()
	m.InFlight.Inc()
	return func(outcome string) {
		m.InFlight.Dec()
		m.RequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		m.RequestsTotal.WithLabelValues(method, path, outcome).Inc()
	}
}
