// Package cachedstore provides a Store wrapper that caches file metadata.
//
// Job output files are immutable once written, so the size of a file that
// exists can be remembered. Missing files are never cached because they
// may appear later.
package cachedstore

// Backend defines the interface for metadata cache backends.
// Implementations handle storage and eviction strategy (LRU).
type Backend interface {
	// Get retrieves the cached length of a file. Returns 0, false if not found.
	Get(name string) (int64, bool)

	// Set stores the length of a file.
	Set(name string, length int64)

	// Remove forgets a file.
	Remove(name string)

	// Stats returns cache statistics.
	Stats() Stats
}

// Stats contains cache statistics.
type Stats struct {
	Hits   int64
	Misses int64
	Size   int // Current number of entries
}

// HitRate returns the cache hit rate as a percentage.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}
