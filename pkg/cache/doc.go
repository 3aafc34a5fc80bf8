// Package cache provides the in-process caches used by the asset service.
//
// Two shapes are offered:
//
//   - Slot holds at most one value (the parsed manifest).
//   - Map holds one value per key (rendered inline style tags).
//
// Both are written through a single get-or-populate operation and neither
// ever evicts or refreshes a stored value. Restarting the process is the
// only way to invalidate them.
//
// # Basic Usage
//
//	manifests := cache.NewSlot[manifest.Manifest]("manifest")
//
//	m, err := manifests.GetOrPopulate(ctx, func(ctx context.Context) (manifest.Manifest, error) {
//		return load(ctx)
//	})
//
// # Concurrency
//
// No lock is held while populating. Two goroutines that miss at the same
// time both run their populate function; the first successful store wins
// and the other caller receives the stored value. This is fine because
// every populate for a given key derives from the same immutable build
// output. A populate that fails, or whose context was cancelled, stores
// nothing.
//
// # Metrics
//
//   - webpack_cache_hits_total{cache} - Cache hits
//   - webpack_cache_misses_total{cache} - Cache misses
//   - webpack_cache_entries{cache} - Stored entries
package cache
