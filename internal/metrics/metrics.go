package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "storefront"

// Metrics groups the storefront's Prometheus collectors.
type Metrics struct {
	Registry *prometheus.Registry

	OrdersPlaced       prometheus.Counter
	ValidationFailures *prometheus.CounterVec
	PersistFailures    prometheus.Counter
	OrderTotal         prometheus.Histogram
	RequestDuration    *prometheus.HistogramVec
}

// New creates the collectors on a dedicated registry, together with the Go runtime
// and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,
		OrdersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Orders that passed validation and were priced.",
		}),
		ValidationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_validation_failures_total",
			Help:      "Field validation failures by form field.",
		}, []string{"field"}),
		PersistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_persist_failures_total",
			Help:      "Orders whose receipt was shown but could not be stored.",
		}),
		OrderTotal: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_total_dollars",
			Help:      "Order totals including tax.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500},
		}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.OrdersPlaced,
		m.ValidationFailures,
		m.PersistFailures,
		m.OrderTotal,
		m.RequestDuration,
	)

	return m
}
