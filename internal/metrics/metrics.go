package metrics

import "github.com/prometheus/client_golang/prometheus"

// OrderMetrics tracks the order intake path.
type OrderMetrics struct {
	placed    prometheus.Counter
	rejected  *prometheus.CounterVec
	rollbacks prometheus.Counter
}

// NewOrderMetrics registers the intake counters on the default registerer.
func NewOrderMetrics() *OrderMetrics {
	return NewOrderMetricsWith(prometheus.DefaultRegisterer)
}

// NewOrderMetricsWith registers on a caller-supplied registerer, which tests
// use to avoid duplicate-registration panics.
func NewOrderMetricsWith(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &OrderMetrics{
		placed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "covercart_orders_placed_total",
			Help: "Orders accepted and persisted",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "covercart_orders_rejected_total",
			Help: "Orders rejected before commit, by reason",
		}, []string{"reason"}),
		rollbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "covercart_stock_rollbacks_total",
			Help: "Compensating stock increments after a failed commit",
		}),
	}
	reg.MustRegister(m.placed, m.rejected, m.rollbacks)
	return m
}

func (m *OrderMetrics) OrderPlaced() {
	if m == nil {
		return
	}
	m.placed.Inc()
}

func (m *OrderMetrics) OrderRejected(reason string) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(reason).Inc()
}

func (m *OrderMetrics) StockRolledBack() {
	if m == nil {
		return
	}
	m.rollbacks.Inc()
}
