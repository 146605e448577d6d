// Package cachestrategy defines cache eviction strategy interfaces.
package cachestrategy

// Strategy defines the interface for cache eviction strategies.
type Strategy[K comparable, V any] interface {
	Get(key K) (V, bool)
	Add(key K, value V) bool
	Remove(key K) bool
	Len() int
}
