package metrics

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ErlanBelekov/admin-shell/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Session metrics

	LoginsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "admin",
		Name:      "logins_total",
		Help:      "Total completed logins.",
	})

	LogoutsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "admin",
		Name:      "logouts_total",
		Help:      "Total logouts, by what triggered them.",
	}, []string{"reason"})

	SessionLoggedIn = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "admin",
		Name:      "session_logged_in",
		Help:      "1 while a user is logged in, 0 otherwise.",
	})

	// Outbound API client

	APIClientErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "admin",
		Name:      "api_client_errors_total",
		Help:      "Failed backend requests seen by the error interceptor, by status code (0 = transport error).",
	}, []string{"status"})

	// Error sink

	UncaughtErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "admin",
		Name:      "uncaught_errors_total",
		Help:      "Errors that reached the global error handler.",
	})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "admin",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "admin",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

// Register adds every collector above to reg.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		LoginsTotal,
		LogoutsTotal,
		SessionLoggedIn,
		APIClientErrorsTotal,
		UncaughtErrorsTotal,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

// Prober is satisfied by *health.Checker.
type Prober interface {
	Liveness(ctx context.Context) health.HealthResult
	Readiness(ctx context.Context) health.HealthResult
}

// NewServer serves /metrics from gatherer plus liveness and readiness probes.
func NewServer(addr string, gatherer prometheus.Gatherer, prober Prober) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, prober.Liveness(r.Context()))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, prober.Readiness(r.Context()))
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeHealth(w http.ResponseWriter, result health.HealthResult) {
	w.Header().Set("Content-Type", "application/json")
	if result.Status != health.StatusUp {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(result)
}
