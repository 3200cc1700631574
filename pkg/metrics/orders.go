package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// OrderMetrics records checkout and WhatsApp handoff activity per store.
type OrderMetrics struct {
	checkouts *prometheus.CounterVec
	failures  *prometheus.CounterVec
	totals    *prometheus.HistogramVec
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_handoffs",
		Help: "Checkouts that produced a WhatsApp handoff link.",
	}, []string{"store"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failures",
		Help: "Checkout attempts rejected before handoff.",
	}, []string{"store", "reason"})
	totals := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_total_brl",
		Help:    "Order totals at checkout, in BRL.",
		Buckets: []float64{10, 25, 50, 100, 200, 500, 1000},
	}, []string{"store"})
	reg.MustRegister(checkouts, failures, totals)
	return &OrderMetrics{
		checkouts: checkouts,
		failures:  failures,
		totals:    totals,
	}
}

// IncHandoff counts a successful checkout and records its total.
func (m *OrderMetrics) IncHandoff(store string, total decimal.Decimal) {
	if m == nil || m.checkouts == nil {
		return
	}
	m.checkouts.WithLabelValues(normalizeLabel(store)).Inc()
	f, _ := total.Float64()
	m.totals.WithLabelValues(normalizeLabel(store)).Observe(f)
}

// IncFailure counts a rejected checkout attempt.
func (m *OrderMetrics) IncFailure(store string, reason string) {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.WithLabelValues(normalizeLabel(store), normalizeLabel(reason)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
