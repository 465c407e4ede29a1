package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stockwatch",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stockwatch",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "stockwatch",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	// Sweep metrics
	sweepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stockwatch",
			Subsystem: "sweep",
			Name:      "runs_total",
			Help:      "Total number of workspace inventory sweeps",
		},
		[]string{"result"},
	)

	sweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "stockwatch",
			Subsystem: "sweep",
			Name:      "duration_seconds",
			Help:      "Duration of a single workspace sweep in seconds",
			Buckets:   []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60},
		},
	)

	alertsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stockwatch",
			Subsystem: "alerts",
			Name:      "created_total",
			Help:      "Total number of alerts created by sweeps",
		},
		[]string{"type"},
	)

	alertsClosedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "stockwatch",
			Subsystem: "alerts",
			Name:      "closed_total",
			Help:      "Total number of alerts auto-closed by sweeps",
		},
	)

	// Scheduler metrics
	schedulerRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stockwatch",
			Subsystem: "scheduler",
			Name:      "runs_total",
			Help:      "Total number of scheduler runs",
		},
		[]string{"trigger"},
	)

	schedulerWorkspacesChecked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stockwatch",
			Subsystem: "scheduler",
			Name:      "workspaces_checked_total",
			Help:      "Total number of per-workspace checks performed by the scheduler",
		},
		[]string{"result"},
	)
)

// RecordSweep records the outcome and duration of a workspace sweep
func RecordSweep(success bool, duration time.Duration) {
	result := "success"
	if !success {
		result = "failure"
	}
	sweepsTotal.WithLabelValues(result).Inc()
	sweepDuration.Observe(duration.Seconds())
}

// RecordAlertCreated increments the created-alert counter for a type
func RecordAlertCreated(alertType string) {
	alertsCreatedTotal.WithLabelValues(alertType).Inc()
}

// RecordAlertsClosed adds to the closed-alert counter
func RecordAlertsClosed(n int) {
	alertsClosedTotal.Add(float64(n))
}

// RecordSchedulerRun records a completed scheduler run
func RecordSchedulerRun(trigger string, successful, failed int) {
	schedulerRunsTotal.WithLabelValues(trigger).Inc()
	schedulerWorkspacesChecked.WithLabelValues("success").Add(float64(successful))
	schedulerWorkspacesChecked.WithLabelValues("failure").Add(float64(failed))
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware returns a chi middleware that records HTTP metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)

		// Use the route pattern rather than the raw path to bound cardinality
		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		status := strconv.Itoa(ww.status)
		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
