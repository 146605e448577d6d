// Package memory implements an in-memory metadata cache backend.
package memory

import (
	"sync/atomic"

	"github.com/tabcheck/tabcheck/internal/stats"
	"github.com/tabcheck/tabcheck/internal/store/cachedstore"
	"github.com/tabcheck/tabcheck/internal/store/cachedstore/cachestrategy"
)

// Compile-time check that Backend implements cachedstore.Backend.
var _ cachedstore.Backend = (*Backend)(nil)

// Backend is an in-memory cache backend. It is safe for concurrent use
// when the strategy is.
type Backend struct {
	strategy  cachestrategy.Strategy[string, int64]
	collector stats.Collector

	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a new memory backend with the given eviction strategy.
// The collector is optional; if nil, a no-op collector is used.
func New(strategy cachestrategy.Strategy[string, int64], collector stats.Collector) *Backend {
	if collector == nil {
		collector = stats.NewNoop()
	}
	return &Backend{
		strategy:  strategy,
		collector: collector,
	}
}

// Get retrieves a cached file length.
func (b *Backend) Get(name string) (int64, bool) {
	n, ok := b.strategy.Get(name)
	if ok {
		b.hits.Add(1)
		b.collector.IncCounter(stats.MetricCacheHits, 1)
		return n, true
	}
	b.misses.Add(1)
	b.collector.IncCounter(stats.MetricCacheMisses, 1)
	return 0, false
}

// Set stores a file length.
func (b *Backend) Set(name string, length int64) {
	b.strategy.Add(name, length)
	b.collector.SetGauge(stats.MetricCacheSize, int64(b.strategy.Len()))
}

// Remove forgets a file.
func (b *Backend) Remove(name string) {
	if b.strategy.Remove(name) {
		b.collector.SetGauge(stats.MetricCacheSize, int64(b.strategy.Len()))
	}
}

// Stats returns current cache statistics.
func (b *Backend) Stats() cachedstore.Stats {
	return cachedstore.Stats{
		Hits:   b.hits.Load(),
		Misses: b.misses.Load(),
		Size:   b.strategy.Len(),
	}
}
