package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Metrics holds the prometheus collectors of the console
type Metrics struct {
	Registry *prometheus.Registry

	requests           *prometheus.CounterVec
	duration           *prometheus.HistogramVec
	countdownRemaining *prometheus.GaugeVec
	countdownExpiries  *prometheus.CounterVec
}

// NewMetrics registers the console collectors on a fresh registry
func NewMetrics() *Metrics {
	m := &Metrics{Registry: prometheus.NewRegistry()}
	m.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dispatch",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status",
	}, []string{"method", "route", "status"})
	m.duration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "dispatch",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
	m.countdownRemaining = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "dispatch",
		Name:      "countdown_remaining_seconds",
		Help:      "Time left on each countdown",
	}, []string{"key"})
	m.countdownExpiries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dispatch",
		Name:      "countdown_expiries_total",
		Help:      "Countdowns that reached their end time",
	}, []string{"key"})

	m.Registry.MustRegister(m.requests, m.duration, m.countdownRemaining, m.countdownExpiries)
	return m
}

// Handler serves the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// ObserveCountdown records the remaining time of a countdown
func (m *Metrics) ObserveCountdown(key string, remaining time.Duration) {
	m.countdownRemaining.WithLabelValues(key).Set(remaining.Seconds())
}

// CountdownExpired counts one expiry of key
func (m *Metrics) CountdownExpired(key string) {
	m.countdownExpiries.WithLabelValues(key).Inc()
}

// Gauge registers a gauge whose value is read from fn at scrape time
func (m *Metrics) Gauge(name, help string, labels prometheus.Labels, fn func() float64) {
	m.Registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace:   "dispatch",
		Name:        name,
		Help:        help,
		ConstLabels: labels,
	}, fn))
}

// Middleware tracks request counts and timing per route
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path == "/metrics" || path == "/health" || path == "/ws" {
			next.ServeHTTP(w, r)
			return
		}

		startTime := time.Now()
		requestID := uuid.New().String()
		w.Header().Set("X-Request-ID", requestID)

		wrappedWriter := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(wrappedWriter, r)
		totalDuration := time.Since(startTime)

		route := path
		if cr := mux.CurrentRoute(r); cr != nil {
			if tmpl, err := cr.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(wrappedWriter.statusCode)).Inc()
		m.duration.WithLabelValues(r.Method, route).Observe(totalDuration.Seconds())

		if totalDuration > 1*time.Second {
			zap.S().Warnw("Slow request detected",
				"requestId", requestID,
				"method", r.Method,
				"path", path,
				"duration", totalDuration,
				"status", wrappedWriter.statusCode,
			)
		}
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
