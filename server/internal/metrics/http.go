package metrics

import (
	"net/http"
	"strconv"

	"github.com/felixge/httpsnoop"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTP counts and times requests per route pattern.
type HTTP struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTP registers the HTTP request collectors on reg.
func NewHTTP(reg prometheus.Registerer) *HTTP {
	return &HTTP{
		requests: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "responder_http_requests_total",
			Help: "HTTP requests served, by route pattern, method and status code.",
		}, []string{"route", "method", "code"})),
		duration: register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "responder_http_request_duration_seconds",
			Help:    "Time spent serving HTTP requests, by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"})),
	}
}

// Instrument wraps next so every request served under route is counted.
// Its signature matches api.WithInstrumentation.
func (m *HTTP) Instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snoop := httpsnoop.CaptureMetrics(next, w, r)
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(snoop.Code)).Inc()
		m.duration.WithLabelValues(route).Observe(snoop.Duration.Seconds())
	})
}
