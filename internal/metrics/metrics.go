// Package metrics exposes Prometheus instrumentation for the API and the
// notification path. Notification outcomes are observable here and in logs
// only; they never surface in API responses.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// NotificationsSent counts order notifications accepted by the SMS gateway.
	NotificationsSent = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "orderdesk",
		Subsystem: "notifications",
		Name:      "sent_total",
		Help:      "Total order notifications delivered to the SMS gateway.",
	})

	// NotificationsFailed counts order notifications that could not be delivered.
	NotificationsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "orderdesk",
		Subsystem: "notifications",
		Name:      "failed_total",
		Help:      "Total order notifications that failed (invalid phone, gateway error, timeout).",
	})

	requestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orderdesk",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "orderdesk",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "status"})
)

// Handler returns the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and latencies.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		status := strconv.Itoa(rec.status)
		requestTotal.WithLabelValues(r.Method, status).Inc()
		requestDuration.WithLabelValues(r.Method, status).Observe(time.Since(start).Seconds())
	})
}
