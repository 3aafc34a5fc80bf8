package source

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "webpack_source_read_duration_seconds",
		Help:    "Duration of manifest and asset reads by source kind",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"kind"}) // "http", "file"

	upstreamUnavailable = promauto.NewCounter(prometheus.CounterOpts{
		Name: "webpack_upstream_unavailable_total",
		Help: "Total number of reads that failed because the dev server was not reachable",
	})
)
