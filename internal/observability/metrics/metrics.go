// Package metrics exposes the application's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MovementOperations counts completed movement lifecycle operations,
	// labelled by operation name.
	MovementOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "almox_movement_operations_total",
		Help: "Completed stock movement lifecycle operations.",
	}, []string{"operation"})

	// StockClamps counts entry reversals truncated at zero stock. A nonzero
	// rate means movement history and product stock have diverged.
	StockClamps = promauto.NewCounter(prometheus.CounterOpts{
		Name: "almox_stock_clamps_total",
		Help: "Stock reversals clamped at zero during movement reconciliation.",
	})

	// HTTPRequests counts handled HTTP requests by method, route and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "almox_http_requests_total",
		Help: "Handled HTTP requests.",
	}, []string{"method", "route", "status"})

	// HTTPDuration observes request latency by route.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "almox_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)
