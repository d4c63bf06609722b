// Package observability collects the console's Prometheus metrics.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics aggregates the console's Prometheus collectors.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	loginAttempts   *prometheus.CounterVec
	guardVerdicts   *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
}

// NewMetrics initialises the registry and base collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "telaradmin_http_requests_total",
		Help: "HTTP requests served, by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "telaradmin_http_request_duration_seconds",
		Help:    "HTTP request duration per route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	logins := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "telaradmin_login_attempts_total",
		Help: "Interactive login attempts by outcome.",
	}, []string{"outcome"})
	verdicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "telaradmin_guard_verdicts_total",
		Help: "Route guard decisions by verdict.",
	}, []string{"verdict"})
	upstream := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "telaradmin_upstream_request_duration_seconds",
		Help:    "ERP backend call duration per endpoint and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint", "code"})
	registry.MustRegister(requests, duration, logins, verdicts, upstream)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		loginAttempts:   logins,
		guardVerdicts:   verdicts,
		upstreamLatency: upstream,
	}
}

// Handler returns the http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records request counts and durations.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// ObserveLogin records one interactive login attempt.
func (m *Metrics) ObserveLogin(outcome string) {
	if m != nil {
		m.loginAttempts.WithLabelValues(outcome).Inc()
	}
}

// ObserveVerdict records one route guard decision.
func (m *Metrics) ObserveVerdict(verdict string) {
	if m != nil {
		m.guardVerdicts.WithLabelValues(verdict).Inc()
	}
}

// ObserveUpstream records one ERP backend call.
func (m *Metrics) ObserveUpstream(endpoint string, status int, elapsed time.Duration) {
	if m != nil {
		m.upstreamLatency.WithLabelValues(endpoint, strconv.Itoa(status)).Observe(elapsed.Seconds())
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
