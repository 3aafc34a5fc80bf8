// Package metrics provides the Prometheus registry and HTTP handler for the
// asset service. Metrics are defined in their respective packages (cache,
// manifest, source, assets) to keep those packages self-contained.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry used by the asset service.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Handler serves the metrics in Registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Metrics Documentation
//
// Manifest Metrics (pkg/manifest):
//   - webpack_manifest_fetches_total{mode, result} (Counter): Manifest fetches (ok, error, malformed)
//   - webpack_manifest_fetch_duration_seconds{mode} (Histogram): Fetch and parse duration
//   - webpack_bundle_lookups_total{result} (Counter): Manifest lookups, fallbacks included (found, not_found)
//
// Cache Metrics (pkg/cache):
//   - webpack_cache_hits_total{cache} (Counter): Hits for the manifest and style caches
//   - webpack_cache_misses_total{cache} (Counter): Misses for the manifest and style caches
//   - webpack_cache_entries{cache} (Gauge): Stored entries
//
// Source Metrics (pkg/source):
//   - webpack_source_read_duration_seconds{kind} (Histogram): Read duration for http and file sources
//   - webpack_upstream_unavailable_total (Counter): Reads that failed because the dev server was down
//
// Service Metrics (pkg/assets):
//   - webpack_bundle_resolutions_total{tag, result} (Counter): Tag requests by outcome
//   - webpack_warm_duration_seconds (Histogram): Cache warm-up duration
//
// Example Prometheus Queries:
//
//   # Style Cache Hit Rate
//   sum(rate(webpack_cache_hits_total{cache="style"}[5m])) /
//   (sum(rate(webpack_cache_hits_total{cache="style"}[5m])) + sum(rate(webpack_cache_misses_total{cache="style"}[5m])))
//
//   # Missing Bundles
//   rate(webpack_bundle_resolutions_total{result="not_found"}[5m])
//
//   # Dev Server Down
//   increase(webpack_upstream_unavailable_total[1m]) > 0
