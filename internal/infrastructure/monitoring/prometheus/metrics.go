// Package prometheus exposes the platform's operational metrics on a
// dedicated registry served at /metrics.
package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "patint"

// ─────────────────────────────────────────────────────────────────────────────
// Metrics
// ─────────────────────────────────────────────────────────────────────────────

// Metrics holds every instrument the platform records. All collectors are
// registered on a private registry so tests never fight over the default one.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInFlight        prometheus.Gauge

	searchRequestsTotal *prometheus.CounterVec
	searchDuration      *prometheus.HistogramVec
	cacheLookupsTotal   *prometheus.CounterVec

	citationTraversalDuration prometheus.Histogram
	citationNodesVisited      prometheus.Histogram

	trendReportDuration prometheus.Histogram

	embeddingRequestsTotal *prometheus.CounterVec

	consumerEventsTotal *prometheus.CounterVec

	dbQueryDuration *prometheus.HistogramVec
}

// Search outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeFallback = "fallback"
)

// Cache result labels.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// NewMetrics builds and registers the full metric set.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),

		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"}),

		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "HTTP requests currently being served.",
		}),

		searchRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Search requests by mode and outcome.",
		}, []string{"mode", "outcome"}),

		searchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "End-to-end search latency by mode.",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"mode"}),

		cacheLookupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Search cache lookups by result.",
		}, []string{"result"}),

		citationTraversalDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "citation_traversal_duration_seconds",
			Help:      "Citation network traversal latency.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),

		citationNodesVisited: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "citation_nodes_visited",
			Help:      "Nodes visited per citation traversal.",
			Buckets:   []float64{1, 10, 50, 100, 250, 500, 1000},
		}),

		trendReportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "trend_report_duration_seconds",
			Help:      "Trend report generation latency.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),

		embeddingRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_requests_total",
			Help:      "Embedding provider calls by outcome.",
		}, []string{"outcome"}),

		consumerEventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "consumer_events_total",
			Help:      "Kafka change events by action and outcome.",
		}, []string{"action", "outcome"}),

		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "db_query_duration_seconds",
			Help:      "Database query latency by operation.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"operation"}),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.httpInFlight,
		m.searchRequestsTotal,
		m.searchDuration,
		m.cacheLookupsTotal,
		m.citationTraversalDuration,
		m.citationNodesVisited,
		m.trendReportDuration,
		m.embeddingRequestsTotal,
		m.consumerEventsTotal,
		m.dbQueryDuration,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ─────────────────────────────────────────────────────────────────────────────
// Recording helpers
// ─────────────────────────────────────────────────────────────────────────────

func (m *Metrics) ObserveHTTPRequest(method, route string, status int, dur time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(dur.Seconds())
}

func (m *Metrics) HTTPRequestStarted()  { m.httpInFlight.Inc() }
func (m *Metrics) HTTPRequestFinished() { m.httpInFlight.Dec() }

func (m *Metrics) ObserveSearch(mode, outcome string, dur time.Duration) {
	m.searchRequestsTotal.WithLabelValues(mode, outcome).Inc()
	m.searchDuration.WithLabelValues(mode).Observe(dur.Seconds())
}

func (m *Metrics) RecordCacheLookup(hit bool) {
	result := CacheMiss
	if hit {
		result = CacheHit
	}
	m.cacheLookupsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveCitationTraversal(nodes int, dur time.Duration) {
	m.citationTraversalDuration.Observe(dur.Seconds())
	m.citationNodesVisited.Observe(float64(nodes))
}

func (m *Metrics) ObserveTrendReport(dur time.Duration) {
	m.trendReportDuration.Observe(dur.Seconds())
}

func (m *Metrics) RecordEmbeddingRequest(err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.embeddingRequestsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordConsumerEvent(action string, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.consumerEventsTotal.WithLabelValues(action, outcome).Inc()
}

func (m *Metrics) ObserveDBQuery(operation string, dur time.Duration) {
	m.dbQueryDuration.WithLabelValues(operation).Observe(dur.Seconds())
}
