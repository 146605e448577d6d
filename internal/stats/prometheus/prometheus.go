// Package prometheus provides a Prometheus-based stats collector.
package prometheus

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/tabcheck/tabcheck/internal/stats"
)

// Collector implements stats.Collector using Prometheus metrics.
// Metrics are created and registered on first use.
type Collector struct {
	registry   prometheus.Registerer
	counters   *metricSet[prometheus.Counter]
	gauges     *metricSet[prometheus.Gauge]
	histograms *metricSet[prometheus.Histogram]
}

// Compile-time check that Collector implements stats.Collector.
var _ stats.Collector = (*Collector)(nil)

// New creates a new Prometheus collector.
// If registry is nil, prometheus.DefaultRegisterer is used.
func New(registry prometheus.Registerer) *Collector {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	return &Collector{
		registry: registry,
		counters: newMetricSet(registry, func(name string) prometheus.Counter {
			return prometheus.NewCounter(prometheus.CounterOpts{Name: name, Help: name})
		}),
		gauges: newMetricSet(registry, func(name string) prometheus.Gauge {
			return prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: name})
		}),
		histograms: newMetricSet(registry, func(name string) prometheus.Histogram {
			return prometheus.NewHistogram(prometheus.HistogramOpts{
				Name:    name,
				Help:    name,
				Buckets: prometheus.DefBuckets,
			})
		}),
	}
}

// IncCounter increments a counter metric.
func (c *Collector) IncCounter(name string, delta int64) {
	c.counters.get(name).Add(float64(delta))
}

// SetGauge sets a gauge metric.
func (c *Collector) SetGauge(name string, value int64) {
	c.gauges.get(name).Set(float64(value))
}

// ObserveHistogram records a value in a histogram.
func (c *Collector) ObserveHistogram(name string, value float64) {
	c.histograms.get(name).Observe(value)
}

// WriteText writes every metric gathered from g in the Prometheus text
// exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("writing %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// metricSet lazily creates and registers metrics of one type by name.
type metricSet[M prometheus.Collector] struct {
	registry prometheus.Registerer
	create   func(name string) M

	mu      sync.RWMutex
	metrics map[string]M
}

func newMetricSet[M prometheus.Collector](registry prometheus.Registerer, create func(string) M) *metricSet[M] {
	return &metricSet[M]{
		registry: registry,
		create:   create,
		metrics:  make(map[string]M),
	}
}

func (s *metricSet[M]) get(name string) M {
	s.mu.RLock()
	m, ok := s.metrics[name]
	s.mu.RUnlock()
	if ok {
		return m
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if m, ok = s.metrics[name]; ok {
		return m
	}

	m = s.create(name)
	if err := s.registry.Register(m); err != nil {
		// Reuse a metric registered under the same name by someone else.
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(M); ok {
				m = existing
			}
		}
	}
	s.metrics[name] = m
	return m
}
