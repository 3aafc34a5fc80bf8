package assets

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bundleResolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webpack_bundle_resolutions_total",
		Help: "Total bundle resolutions by tag kind and outcome",
	}, []string{"tag", "result"}) // result: "found", "fallback", "not_found", "empty", "error"

	warmDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "webpack_warm_duration_seconds",
		Help:    "Duration of cache warm-up runs",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
	})
)
