package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by cache name
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webpack_cache_hits_total",
			Help: "Total number of asset cache hits",
		},
		[]string{"cache"}, // "manifest", "style"
	)

	// CacheMisses tracks cache misses by cache name
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webpack_cache_misses_total",
			Help: "Total number of asset cache misses",
		},
		[]string{"cache"},
	)

	// CacheEntries tracks the number of stored entries by cache name
	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "webpack_cache_entries",
			Help: "Current number of entries held by asset caches",
		},
		[]string{"cache"},
	)
)
