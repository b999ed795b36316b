package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "founder_dashboard_api_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "founder_dashboard_api_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Response cache metrics
	cacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "founder_dashboard_api_cache_requests_total",
			Help: "Response cache lookups by outcome",
		},
		[]string{"cache", "outcome"},
	)

	// Template matching metrics
	templateMatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "founder_dashboard_api_template_matches_total",
			Help: "Template match outcomes by kind",
		},
		[]string{"kind"},
	)
)

// RecordHTTPRequest records an HTTP request
func RecordHTTPRequest(method, endpoint string, statusCode int, durationSeconds float64) {
	status := "unknown"
	if statusCode >= 200 && statusCode < 300 {
		status = "2xx"
	} else if statusCode >= 300 && statusCode < 400 {
		status = "3xx"
	} else if statusCode >= 400 && statusCode < 500 {
		status = "4xx"
	} else if statusCode >= 500 {
		status = "5xx"
	}

	httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint).Observe(durationSeconds)
}

// RecordCacheLookup records a response-cache lookup outcome
func RecordCacheLookup(cacheName string, hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	cacheRequestsTotal.WithLabelValues(cacheName, outcome).Inc()
}

// RecordTemplateMatches records template match outcomes by kind
// ("exact", "containment", "overlap", "none")
func RecordTemplateMatches(kind string, count int) {
	if count > 0 {
		templateMatchesTotal.WithLabelValues(kind).Add(float64(count))
	}
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
