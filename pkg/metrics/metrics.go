// Package metrics exports solver, cache and HTTP events as Prometheus
// metrics. [Metrics] implements the observability hook interfaces, so the API
// server registers it once at startup and every solve is counted.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/wellpos/pkg/observability"
)

// Metrics holds the collectors.
type Metrics struct {
	gatherer prometheus.Gatherer

	SolvesTotal       *prometheus.CounterVec
	SolveDuration     prometheus.Histogram
	SolutionsReturned prometheus.Histogram
	Violations        prometheus.Counter
	EdgesTotal        prometheus.Counter
	Branches          prometheus.Counter
	Contradictions    prometheus.Counter

	CacheRequests *prometheus.CounterVec
	CacheBytes    *prometheus.CounterVec

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPInFlight        prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		gatherer: reg,

		SolvesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wellpos_solves_total",
			Help: "Completed solves, labeled by outcome",
		}, []string{"outcome"}),
		SolveDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "wellpos_solve_duration_seconds",
			Help:    "Wall time of a full solve",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}),
		SolutionsReturned: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "wellpos_solutions_returned",
			Help:    "Distinct solutions per successful solve",
			Buckets: []float64{0, 1, 2, 4, 8, 16, 64, 256},
		}),
		Violations: f.NewCounter(prometheus.CounterOpts{
			Name: "wellpos_triangle_violations_total",
			Help: "Triangle inequality violations found during validation",
		}),
		EdgesTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "wellpos_starting_edges_total",
			Help: "Starting edges searched",
		}),
		Branches: f.NewCounter(prometheus.CounterOpts{
			Name: "wellpos_placements_total",
			Help: "Successful point placements",
		}),
		Contradictions: f.NewCounter(prometheus.CounterOpts{
			Name: "wellpos_contradictions_total",
			Help: "Partial placements pruned by a contradiction",
		}),

		CacheRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wellpos_cache_requests_total",
			Help: "Cache lookups, labeled by key type and result",
		}, []string{"type", "result"}),
		CacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wellpos_cache_written_bytes_total",
			Help: "Bytes written to the cache",
		}, []string{"type"}),

		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wellpos_http_requests_total",
			Help: "Total number of HTTP requests processed",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wellpos_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}, []string{"method", "path"}),
		HTTPInFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "wellpos_http_requests_in_flight",
			Help: "Requests currently being served",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Register installs m as the solver, cache and HTTP hooks.
func (m *Metrics) Register() {
	observability.SetSolverHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

// Solver hooks

func (m *Metrics) OnValidate(_ context.Context, _ int, violations int) {
	m.Violations.Add(float64(violations))
}

func (m *Metrics) OnEdgeStart(context.Context, int, int) {
	m.EdgesTotal.Inc()
}

func (m *Metrics) OnEdgeComplete(context.Context, int, int, int, time.Duration) {}

func (m *Metrics) OnContradiction(context.Context, int, int, int) {
	m.Contradictions.Inc()
}

func (m *Metrics) OnBranch(context.Context, int, int) {
	m.Branches.Inc()
}

func (m *Metrics) OnSolveComplete(_ context.Context, solutions int, d time.Duration, err error) {
	if err != nil {
		m.SolvesTotal.WithLabelValues("error").Inc()
		return
	}
	outcome := "solved"
	if solutions == 0 {
		outcome = "empty"
	}
	m.SolvesTotal.WithLabelValues(outcome).Inc()
	m.SolveDuration.Observe(d.Seconds())
	m.SolutionsReturned.Observe(float64(solutions))
}

// Cache hooks

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.CacheRequests.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.CacheRequests.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.CacheBytes.WithLabelValues(keyType).Add(float64(size))
}

// HTTP hooks

func (m *Metrics) OnRequest(context.Context, string, string) {
	m.HTTPInFlight.Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	m.HTTPInFlight.Dec()
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

var (
	_ observability.SolverHooks = (*Metrics)(nil)
	_ observability.CacheHooks  = (*Metrics)(nil)
	_ observability.HTTPHooks   = (*Metrics)(nil)
)
