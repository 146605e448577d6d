// Package stats provides a unified interface for collecting metrics.
package stats

// Metric names used throughout the library.
const (
	// Opener metrics.
	MetricOpens           = "tabcheck_opens_total"
	MetricOpensCompressed = "tabcheck_opens_compressed_total"
	MetricOpenErrors      = "tabcheck_open_errors_total"

	// Decompressor pool metrics.
	MetricDecompressorsAcquired    = "tabcheck_decompressors_acquired_total"
	MetricDecompressorsCreated     = "tabcheck_decompressors_created_total"
	MetricDecompressorsReleased    = "tabcheck_decompressors_released_total"
	MetricDecompressorsOutstanding = "tabcheck_decompressors_outstanding"

	// Decoder metrics.
	MetricRowsDecoded = "tabcheck_rows_decoded_total"

	// Metadata cache metrics.
	MetricCacheHits   = "tabcheck_metadata_cache_hits_total"
	MetricCacheMisses = "tabcheck_metadata_cache_misses_total"
	MetricCacheSize   = "tabcheck_metadata_cache_size"
)

// Collector defines the interface for collecting metrics.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}
