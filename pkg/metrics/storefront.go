package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// StorefrontMetrics records cart and checkout activity.
type StorefrontMetrics struct {
	cartOps        *prometheus.CounterVec
	checkoutsDone  prometheus.Counter
	orderTotal     prometheus.Histogram
	requestLatency *prometheus.HistogramVec
}

// NewStorefrontMetrics registers the storefront metrics on the provided
// registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	cartOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart mutations by operation.",
	}, []string{"op"})
	checkoutsDone := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkouts_completed_total",
		Help: "Successfully completed checkouts.",
	})
	orderTotal := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_total",
		Help:    "Grand total of completed orders.",
		Buckets: prometheus.ExponentialBuckets(10, 2, 10),
	})
	requestLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	reg.MustRegister(cartOps, checkoutsDone, orderTotal, requestLatency)
	return &StorefrontMetrics{
		cartOps:        cartOps,
		checkoutsDone:  checkoutsDone,
		orderTotal:     orderTotal,
		requestLatency: requestLatency,
	}
}

// IncCartOp increments the counter for the named cart operation.
func (m *StorefrontMetrics) IncCartOp(op string) {
	if m == nil || m.cartOps == nil {
		return
	}
	m.cartOps.WithLabelValues(normalizeLabel(op)).Inc()
}

// ObserveCheckout records a completed checkout and its grand total.
func (m *StorefrontMetrics) ObserveCheckout(total decimal.Decimal) {
	if m == nil || m.checkoutsDone == nil {
		return
	}
	m.checkoutsDone.Inc()
	m.orderTotal.Observe(total.InexactFloat64())
}

// ObserveRequest records the duration of an HTTP request.
func (m *StorefrontMetrics) ObserveRequest(route string, duration time.Duration) {
	if m == nil || m.requestLatency == nil {
		return
	}
	m.requestLatency.WithLabelValues(normalizeLabel(route)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
