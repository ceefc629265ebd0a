// Package metrics declares the prometheus collectors of the service.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// HTTPTotalDurations is a summary metric of the durations of http requests,
// labelled by method and status code
var HTTPTotalDurations = prometheus.NewSummaryVec(
	prometheus.SummaryOpts{
		Namespace: "http",
		Subsystem: "all",
		Name:      "total_duration",

		Help: "Durations of http requests, labelled by method and status code",

		Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
	},
	[]string{"method", "code"},
)

// RenderDurations observes the time spent compositing a card, by preset and
// outcome ("ok" or an error kind).
var RenderDurations = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "cardcomposer",
		Subsystem: "render",
		Name:      "duration_seconds",

		Help: "Durations of card renders, labelled by preset and outcome",

		Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	},
	[]string{"preset", "outcome"},
)

// StoredImages counts images put in the output cache.
var StoredImages = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: "cardcomposer",
		Subsystem: "store",
		Name:      "images_total",

		Help: "Number of rendered images stored for later retrieval",
	},
)

func init() {
	prometheus.MustRegister(HTTPTotalDurations, RenderDurations, StoredImages)
}
