package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadsCaptured = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_captured_total",
			Help: "Total number of leads captured",
		},
		[]string{"service"},
	)

	paymentsVerified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_verified_total",
			Help: "Total number of payment verification attempts",
		},
		[]string{"gateway", "status"},
	)

	rateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rate_limited_total",
			Help: "Total number of rate-limited requests",
		},
	)

	notificationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_errors_total",
			Help: "Total number of notification dispatch errors",
		},
		[]string{"channel"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
	})
}

func RecordLeadCaptured(service string) {
	leadsCaptured.WithLabelValues(service).Inc()
}

func RecordPaymentVerified(gateway, status string) {
	paymentsVerified.WithLabelValues(gateway, status).Inc()
}

func RecordRateLimited() {
	rateLimited.Inc()
}

func RecordNotificationError(channel string) {
	notificationErrors.WithLabelValues(channel).Inc()
}
