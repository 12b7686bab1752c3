package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bloglist_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bloglist_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bloglist_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// normalizePath folds blog ids into one label value so the series count stays bounded.
func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/blogs/"):
		return "/api/blogs/:id"
	case path == "/api/blogs", path == "/api/users", path == "/api/login", path == "/api/healthcheck", path == "/metrics":
		return path
	default:
		return "other"
	}
}

func (app *application) metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		statusClass := fmt.Sprintf("%dxx", rec.status/100)

		httpRequestsTotal.WithLabelValues(r.Method, path, statusClass).Inc()
		httpRequestDurationSeconds.WithLabelValues(r.Method, path, statusClass).Observe(time.Since(start).Seconds())
	})
}
