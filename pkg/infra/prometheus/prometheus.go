package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	RequestsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "scamshield_requests_total",
			Help: "Total number of requests processed by the defense pipeline",
		},
		[]string{"route_class", "method", "status"},
	)

	BlockedTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "scamshield_blocked_total",
			Help: "Requests rejected by the pipeline, by guard and route class",
		},
		[]string{"route_class", "guard"},
	)

	RateLimitRetryAfter = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scamshield_retry_after_seconds",
			Help:    "Retry-after delays handed to rate limited callers",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"route_class"},
	)
)

// Handler serves the registry for the standalone metrics listener.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
