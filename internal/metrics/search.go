package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search and feedback Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "adaptrank",
			Name:      "search_requests_total",
			Help:      "Total number of search requests",
		},
		[]string{"strategy", "status"},
	)

	RerankDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "adaptrank",
			Name:      "rerank_duration_seconds",
			Help:      "Retrieval and rerank duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"strategy"},
	)

	FeedbackDegradedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "adaptrank",
			Name:      "feedback_degraded_total",
			Help:      "Searches served without feedback aggregation",
		},
	)

	FeedbackEventsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "adaptrank",
			Name:      "feedback_events_total",
			Help:      "Total feedback events recorded",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(RerankDuration)
	prometheus.MustRegister(FeedbackDegradedTotal)
	prometheus.MustRegister(FeedbackEventsTotal)
	searchMetricsRegistered = true
}
