package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search and entity-source Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ecomap",
			Name:      "search_requests_total",
			Help:      "Total number of search requests",
		},
		[]string{"mode", "status"}, // mode: text / tags / empty
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ecomap",
			Name:      "search_duration_seconds",
			Help:      "Search duration in seconds, including entity fetches",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"mode"},
	)

	SearchResultsTotal = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ecomap",
			Name:      "search_results_total",
			Help:      "Number of matching documents per search, before pagination",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100, 250, 500},
		},
	)

	EntityCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ecomap",
			Name:      "entity_cache_total",
			Help:      "Entity list cache hits and misses",
		},
		[]string{"kind", "result"}, // result: hit / miss
	)

	UpstreamErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ecomap",
			Name:      "upstream_errors_total",
			Help:      "Entity list fetch failures seen by the search and catalog services",
		},
		[]string{"kind"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers search and entity-source metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchResultsTotal)
	prometheus.MustRegister(EntityCacheTotal)
	prometheus.MustRegister(UpstreamErrorsTotal)
	searchMetricsRegistered = true
}
