// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ResolveTotal counts resolve requests by outcome.
	ResolveTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spherecast_resolve_total",
		Help: "Total number of stream resolve requests by result",
	}, []string{"result"})

	// ResolveDuration tracks how long resolution took, extraction included.
	ResolveDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "spherecast_resolve_duration_seconds",
		Help:    "Time taken to resolve a stream URL",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"result"})

	// StorageOperations counts key-value storage calls by backend, operation and outcome.
	StorageOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spherecast_storage_operations_total",
		Help: "Total number of key-value storage operations",
	}, []string{"backend", "op", "result"})

	// RateLimited counts requests rejected by the rate limiter.
	RateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spherecast_rate_limited_total",
		Help: "Total number of requests rejected by the rate limiter",
	}, []string{"limiter"})
)

// ObserveResolve records one resolve outcome.
func ObserveResolve(result string, duration time.Duration) {
	ResolveTotal.WithLabelValues(result).Inc()
	ResolveDuration.WithLabelValues(result).Observe(duration.Seconds())
}

// ObserveStorage records one storage operation.
func ObserveStorage(backend, op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	StorageOperations.WithLabelValues(backend, op, result).Inc()
}
