package metrics

import "github.com/prometheus/client_golang/prometheus"

// MovieBot Prometheus metrics.
var (
	IntentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "moviebot",
			Name:      "intents_total",
			Help:      "Total number of classified messages by intent and classifier stage",
		},
		[]string{"intent", "source"},
	)

	MessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "moviebot",
			Name:      "messages_total",
			Help:      "Total number of handled messages by route and outcome",
		},
		[]string{"route", "status"},
	)

	CompletionRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "moviebot",
			Name:      "completion_requests_total",
			Help:      "Total number of text-completion backend requests",
		},
		[]string{"model", "status"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "moviebot",
			Name:      "search_duration_seconds",
			Help:      "Similarity search duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"mode"},
	)

	CatalogRows = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "moviebot",
			Name:      "catalog_rows",
			Help:      "Number of indexed catalog rows",
		},
	)
)

func init() {
	prometheus.MustRegister(IntentsTotal)
	prometheus.MustRegister(MessagesTotal)
	prometheus.MustRegister(CompletionRequestsTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(CatalogRows)
}
