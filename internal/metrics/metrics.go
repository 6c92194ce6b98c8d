package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Alturino/storefront/internal/constants"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: constants.APP_STOREFRONT,
			Name:      "http_requests_total",
			Help:      "Number of HTTP requests by route, method and status code.",
		},
		[]string{"route", "method", "code"},
	)
	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: constants.APP_STOREFRONT,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of HTTP requests by route and method.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	OrdersPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: constants.APP_STOREFRONT,
		Name:      "orders_placed_total",
		Help:      "Number of orders placed.",
	})
	OrdersCanceledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: constants.APP_STOREFRONT,
		Name:      "orders_canceled_total",
		Help:      "Number of orders canceled.",
	})
	CartConflictRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: constants.APP_STOREFRONT,
			Name:      "cart_conflict_retries_total",
			Help:      "Number of cart mutations retried after an optimistic concurrency conflict.",
		},
		[]string{"operation"},
	)
)
