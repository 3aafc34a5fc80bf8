package cache

import (
	"context"
	"sync"
	"sync/atomic"
)

// PopulateFunc produces a value on a cache miss.
type PopulateFunc[V any] func(ctx context.Context) (V, error)

// Slot caches a single value for the lifetime of the process.
type Slot[V any] struct {
	name  string
	value atomic.Pointer[V]
}

// NewSlot creates an empty slot. name labels the slot's metrics.
func NewSlot[V any](name string) *Slot[V] {
	return &Slot[V]{name: name}
}

// Get returns the stored value, if any.
func (s *Slot[V]) Get() (V, bool) {
	if p := s.value.Load(); p != nil {
		return *p, true
	}
	var zero V
	return zero, false
}

// GetOrPopulate returns the stored value or runs populate and stores its
// result. Errors are returned as-is and leave the slot empty.
func (s *Slot[V]) GetOrPopulate(ctx context.Context, populate PopulateFunc[V]) (V, error) {
	if p := s.value.Load(); p != nil {
		CacheHits.WithLabelValues(s.name).Inc()
		return *p, nil
	}
	CacheMisses.WithLabelValues(s.name).Inc()

	v, err := populate(ctx)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		var zero V
		return zero, err
	}

	if !s.value.CompareAndSwap(nil, &v) {
		// Lost the race, hand out the winner.
		return *s.value.Load(), nil
	}
	CacheEntries.WithLabelValues(s.name).Set(1)
	return v, nil
}

// Map caches one value per key for the lifetime of the process.
type Map[K comparable, V any] struct {
	name    string
	entries sync.Map
	size    atomic.Int64
}

// NewMap creates an empty map. name labels the map's metrics.
func NewMap[K comparable, V any](name string) *Map[K, V] {
	return &Map[K, V]{name: name}
}

// Get returns the value stored under key, if any.
func (m *Map[K, V]) Get(key K) (V, bool) {
	if v, ok := m.entries.Load(key); ok {
		return v.(V), true
	}
	var zero V
	return zero, false
}

// Len returns the number of stored entries.
func (m *Map[K, V]) Len() int {
	return int(m.size.Load())
}

// GetOrPopulate returns the value stored under key or runs populate and
// stores its result. The first successful store for a key wins.
func (m *Map[K, V]) GetOrPopulate(ctx context.Context, key K, populate PopulateFunc[V]) (V, error) {
	if v, ok := m.entries.Load(key); ok {
		CacheHits.WithLabelValues(m.name).Inc()
		return v.(V), nil
	}
	CacheMisses.WithLabelValues(m.name).Inc()

	v, err := populate(ctx)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		var zero V
		return zero, err
	}

	actual, loaded := m.entries.LoadOrStore(key, v)
	if !loaded {
		CacheEntries.WithLabelValues(m.name).Set(float64(m.size.Add(1)))
	}
	return actual.(V), nil
}
