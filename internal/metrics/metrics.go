// Package metrics holds the Prometheus collectors for cart and kitchen views.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cart view sources.
const (
	SourceStored  = "stored"
	SourcePayload = "payload"
)

// Metrics is safe to use as a nil pointer; every recorder becomes a no-op.
type Metrics struct {
	cartsBuilt      *prometheus.CounterVec
	readyTickets    prometheus.Counter
	lineTransitions *prometheus.CounterVec
	cartLines       prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		cartsBuilt: f.NewCounterVec(prometheus.CounterOpts{
			Name: "orderview_carts_built_total",
			Help: "Cart views built, by input source.",
		}, []string{"source"}),
		readyTickets: f.NewCounter(prometheus.CounterOpts{
			Name: "orderview_ready_tickets_total",
			Help: "Ready tickets projected for kitchen displays.",
		}),
		lineTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "orderview_line_transitions_total",
			Help: "Order item records moved between statuses.",
		}, []string{"from", "to"}),
		cartLines: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "orderview_cart_lines",
			Help:    "Aggregated lines per cart view.",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
		}),
	}
}

func (m *Metrics) CartBuilt(source string, lines int) {
	if m == nil {
		return
	}
	m.cartsBuilt.WithLabelValues(source).Inc()
	m.cartLines.Observe(float64(lines))
}

func (m *Metrics) ReadyProjected(tickets int) {
	if m == nil {
		return
	}
	m.readyTickets.Add(float64(tickets))
}

func (m *Metrics) LinesTransitioned(from, to string, records int) {
	if m == nil {
		return
	}
	m.lineTransitions.WithLabelValues(from, to).Add(float64(records))
}
