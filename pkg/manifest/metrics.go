package manifest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	manifestFetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webpack_manifest_fetches_total",
		Help: "Total manifest fetches by mode and result",
	}, []string{"mode", "result"}) // result: "ok", "error", "malformed"

	manifestFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "webpack_manifest_fetch_duration_seconds",
		Help:    "Manifest fetch and parse duration in seconds by mode",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"mode"})

	bundleLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webpack_bundle_lookups_total",
		Help: "Total bundle lookups by result",
	}, []string{"result"}) // "found", "not_found"
)
