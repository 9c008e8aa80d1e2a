// Package metrics exposes Prometheus instruments for menu operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Operation results
const (
	ResultOK        = "ok"
	ResultMalformed = "malformed"
	ResultError     = "error"
)

// Metrics holds the menu collectors
type Metrics struct {
	Operations *prometheus.CounterVec
	Products   prometheus.Gauge
}

// New creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "menu",
			Name:      "operations_total",
			Help:      "Menu operations by name and result.",
		}, []string{"operation", "result"}),
		Products: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "menu",
			Name:      "products",
			Help:      "Number of products currently on the menu.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.Operations, m.Products)
	}
	return m
}

// Observe counts one operation
func (m *Metrics) Observe(operation, result string) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(operation, result).Inc()
}

// SetProducts records the menu size
func (m *Metrics) SetProducts(n int) {
	if m == nil {
		return
	}
	m.Products.Set(float64(n))
}
