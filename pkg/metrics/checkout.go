package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records outcomes of the order pipeline, including the
// best-effort steps that run after the order row is persisted.
type CheckoutMetrics struct {
	duration          *prometheus.HistogramVec
	ordersCreated     *prometheus.CounterVec
	settlementFailure *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout pipeline runs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"order_type"})
	ordersCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_orders_created",
		Help: "Orders persisted by the checkout pipeline.",
	}, []string{"order_type"})
	settlementFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_settlement_failure",
		Help: "Failed best-effort settlement steps after order persistence.",
	}, []string{"step"})
	reg.MustRegister(duration, ordersCreated, settlementFailure)
	return &CheckoutMetrics{
		duration:          duration,
		ordersCreated:     ordersCreated,
		settlementFailure: settlementFailure,
	}
}

// ObserveDuration records the duration of one checkout run.
func (c *CheckoutMetrics) ObserveDuration(orderType string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(orderType)).Observe(duration.Seconds())
}

// IncOrderCreated increments the created-order counter.
func (c *CheckoutMetrics) IncOrderCreated(orderType string) {
	if c == nil || c.ordersCreated == nil {
		return
	}
	c.ordersCreated.WithLabelValues(normalizeLabel(orderType)).Inc()
}

// IncSettlementFailure increments the failure counter for a settlement step
// such as stock deduction, promo usage, or cart cleanup.
func (c *CheckoutMetrics) IncSettlementFailure(step string) {
	if c == nil || c.settlementFailure == nil {
		return
	}
	c.settlementFailure.WithLabelValues(normalizeLabel(step)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
