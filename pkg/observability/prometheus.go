package observability

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "colortrade"

// Metrics implements every hook interface on a private Prometheus registry.
// The CLI writes it to a node_exporter textfile after a run; the API server
// exposes it on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	solveRuns     *prometheus.CounterVec
	solveDuration *prometheus.HistogramVec
	solutions     prometheus.Counter
	searchNodes   prometheus.Gauge
	tradeDuration prometheus.Histogram
	trades        prometheus.Counter
	components    prometheus.Gauge
	cacheRequests *prometheus.CounterVec
	cacheWrites   *prometheus.CounterVec
	cacheBytes    *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	httpErrors    *prometheus.CounterVec
	httpInFlight  prometheus.Gauge
}

// NewMetrics creates the collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		// solveRuns counts enumerations by outcome (ok, error, canceled).
		solveRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solve",
			Name:      "runs_total",
			Help:      "Edge-coloring enumerations by outcome",
		}, []string{"status"}),

		solveDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solve",
			Name:      "duration_seconds",
			Help:      "Time spent enumerating colorings",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"status"}),

		solutions: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solve",
			Name:      "solutions_total",
			Help:      "Colorings found across all enumerations",
		}),

		// searchNodes is the node count of the most recent progress report.
		searchNodes: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "solve",
			Name:      "search_nodes",
			Help:      "Search nodes visited by the running or last enumeration",
		}),

		tradeDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "trade",
			Name:      "duration_seconds",
			Help:      "Time spent building and analyzing trade graphs",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),

		trades: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trade",
			Name:      "edges_total",
			Help:      "Trade graph edges built across all runs",
		}),

		components: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "trade",
			Name:      "components",
			Help:      "Connected components of the last trade graph",
		}),

		cacheRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "requests_total",
			Help:      "Cache lookups by stage and result",
		}, []string{"stage", "result"}),

		cacheWrites: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "writes_total",
			Help:      "Cache writes by stage",
		}, []string{"stage"}),

		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "write_bytes_total",
			Help:      "Bytes written to the cache by stage",
		}, []string{"stage"}),

		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "API requests by method, route and status code",
		}, []string{"method", "route", "code"}),

		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "API request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),

		httpErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "errors_total",
			Help:      "API errors by error code",
		}, []string{"route", "code"}),

		httpInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "API requests currently being served",
		}),
	}
}

// Register installs m as the solve, trade, cache and HTTP hooks.
func (m *Metrics) Register() {
	SetSolveHooks(m)
	SetTradeHooks(m)
	SetCacheHooks(m)
	SetHTTPHooks(m)
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WriteTextfile writes the current metrics for the node_exporter textfile
// collector. The write is atomic.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

func (m *Metrics) OnSolveStart(context.Context, string, int, int) {
	m.searchNodes.Set(0)
}

func (m *Metrics) OnSolveProgress(_ context.Context, _ string, nodes uint64, _ int64) {
	m.searchNodes.Set(float64(nodes))
}

func (m *Metrics) OnSolveComplete(_ context.Context, _ string, solutions int, d time.Duration, err error) {
	status := statusOf(err)
	m.solveRuns.WithLabelValues(status).Inc()
	m.solveDuration.WithLabelValues(status).Observe(d.Seconds())
	if err == nil {
		m.solutions.Add(float64(solutions))
	}
}

func (m *Metrics) OnTradeStart(context.Context, int) {}

func (m *Metrics) OnTradeComplete(_ context.Context, _ int, trades, components int, d time.Duration, err error) {
	m.tradeDuration.Observe(d.Seconds())
	if err != nil {
		return
	}
	m.trades.Add(float64(trades))
	m.components.Set(float64(components))
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheRequests.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheRequests.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheWrites.WithLabelValues(keyType).Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {
	m.httpInFlight.Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.httpInFlight.Dec()
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) OnError(_ context.Context, _ string, route, code string) {
	m.httpErrors.WithLabelValues(route, code).Inc()
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}

var (
	_ SolveHooks = (*Metrics)(nil)
	_ TradeHooks = (*Metrics)(nil)
	_ CacheHooks = (*Metrics)(nil)
	_ HTTPHooks  = (*Metrics)(nil)
)
