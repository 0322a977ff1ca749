package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPMetrics exposes request-level prometheus instruments.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inflight prometheus.Gauge
}

// NewHTTPMetrics registers the HTTP instruments on the default registry.
func NewHTTPMetrics() *HTTPMetrics {
	return &HTTPMetrics{
		requests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "gelia_http_requests_total",
			Help: "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status_code"}),
		duration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gelia_http_request_duration_seconds",
			Help:    "HTTP request latency by route and method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		inflight: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "gelia_http_requests_in_flight",
			Help: "HTTP requests currently being served.",
		}),
	}
}

// AuthMetrics counts authentication outcomes for observability; failure
// kinds are distinguished here, never in client-visible responses.
type AuthMetrics struct {
	logins        *prometheus.CounterVec
	tokenFailures *prometheus.CounterVec
}

// NewAuthMetrics registers the auth instruments on the default registry.
func NewAuthMetrics() *AuthMetrics {
	return &AuthMetrics{
		logins: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "gelia_logins_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		tokenFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "gelia_token_failures_total",
			Help: "Token verification failures by kind.",
		}, []string{"kind"}),
	}
}

// RecordLogin counts one login attempt.
func (m *AuthMetrics) RecordLogin(outcome string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(strings.TrimSpace(outcome)).Inc()
}

// RecordTokenFailure counts one token verification failure.
func (m *AuthMetrics) RecordTokenFailure(kind string) {
	if m == nil {
		return
	}
	m.tokenFailures.WithLabelValues(strings.TrimSpace(kind)).Inc()
}

// GinMiddleware instruments inbound HTTP requests.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		m.inflight.Inc()
		c.Next()
		m.inflight.Dec()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		method := c.Request.Method
		m.requests.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}
