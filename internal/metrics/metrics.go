// Package metrics holds the prometheus collectors for the HTTP surface and the
// search, generation and seed import paths.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metric names.
const (
	MetricHTTPRequestsTotal   = "moyu_http_requests_total"
	MetricHTTPRequestDuration = "moyu_http_request_duration_seconds"
	MetricSearchRequests      = "moyu_search_requests_total"
	MetricSearchResults       = "moyu_search_results"
	MetricSearchFetchDuration = "moyu_search_fetch_duration_seconds"
	MetricLLMRequests         = "moyu_llm_requests_total"
	MetricLLMDuration         = "moyu_llm_request_duration_seconds"
	MetricSeedImports         = "moyu_seed_imports_total"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
	OutcomeSkipped = "skipped"
)

// Metrics contains every collector the service exposes. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	searchRequests      *prometheus.CounterVec
	searchResults       prometheus.Histogram
	searchFetchDuration *prometheus.HistogramVec
	llmRequests         *prometheus.CounterVec
	llmDuration         *prometheus.HistogramVec
	seedImports         *prometheus.CounterVec
}

// New creates the collectors. They are not registered; call Register.
func New() *Metrics {
	return &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricHTTPRequestsTotal,
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricHTTPRequestDuration,
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 15},
			},
			[]string{"method", "path", "status"},
		),
		searchRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricSearchRequests,
				Help: "Total number of search requests by outcome",
			},
			[]string{"outcome"},
		),
		searchResults: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    MetricSearchResults,
				Help:    "Number of ranked results returned per search",
				Buckets: []float64{0, 1, 2, 3, 5, 10, 20, 50},
			},
		),
		searchFetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricSearchFetchDuration,
				Help:    "Record source fetch duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		llmRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricLLMRequests,
				Help: "Total number of generation attempts by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
		llmDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricLLMDuration,
				Help:    "Generation provider call duration in seconds",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"provider"},
		),
		seedImports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricSeedImports,
				Help: "Total number of seed file imports by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// Collectors returns every collector.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.searchRequests,
		m.searchResults,
		m.searchFetchDuration,
		m.llmRequests,
		m.llmDuration,
		m.seedImports,
	}
}

// Register registers all collectors with reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Handler returns the exposition handler for reg.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// ObserveHTTPRequest records one served request.
func (m *Metrics) ObserveHTTPRequest(method, path, status string, seconds float64) {
	if m == nil {
		return
	}
	labels := prometheus.Labels{"method": method, "path": path, "status": status}
	m.httpRequestsTotal.With(labels).Inc()
	m.httpRequestDuration.With(labels).Observe(seconds)
}

// ObserveSearch records a search outcome and, on success, the result count.
func (m *Metrics) ObserveSearch(outcome string, results int) {
	if m == nil {
		return
	}
	m.searchRequests.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSuccess {
		m.searchResults.Observe(float64(results))
	}
}

// ObserveFetch records how long a record source fetch took.
func (m *Metrics) ObserveFetch(source string, seconds float64) {
	if m == nil {
		return
	}
	m.searchFetchDuration.WithLabelValues(source).Observe(seconds)
}

// ObserveGeneration records one provider attempt.
func (m *Metrics) ObserveGeneration(provider, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.llmRequests.WithLabelValues(provider, outcome).Inc()
	if outcome != OutcomeSkipped {
		m.llmDuration.WithLabelValues(provider).Observe(seconds)
	}
}

// IncSeedImport records a seed file import outcome.
func (m *Metrics) IncSeedImport(outcome string) {
	if m == nil {
		return
	}
	m.seedImports.WithLabelValues(outcome).Inc()
}
