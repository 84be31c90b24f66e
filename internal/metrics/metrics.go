package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "microblog_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "microblog_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	PageCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "microblog_page_cache_hits_total",
		Help: "Pages served from the page cache",
	})

	PageCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "microblog_page_cache_misses_total",
		Help: "Pages rendered because the page cache had no entry",
	})

	RedisErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "microblog_redis_errors_total",
			Help: "Redis command errors",
		},
		[]string{"command"},
	)

	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "microblog_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	})
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
