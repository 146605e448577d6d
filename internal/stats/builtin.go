package stats

import "sync"

// Noop is a no-op collector that discards all metrics.
type Noop struct{}

// Compile-time check that Noop implements Collector.
var _ Collector = (*Noop)(nil)

// NewNoop creates a new no-op collector.
func NewNoop() *Noop {
	return &Noop{}
}

func (n *Noop) IncCounter(name string, delta int64)         {}
func (n *Noop) SetGauge(name string, value int64)           {}
func (n *Noop) ObserveHistogram(name string, value float64) {}

// Recorder keeps metrics in memory so tests and the CLI can read them back.
// A Recorder is safe for concurrent use.
type Recorder struct {
	mu           sync.Mutex
	counters     map[string]int64
	gauges       map[string]int64
	observations map[string][]float64
}

// Compile-time check that Recorder implements Collector.
var _ Collector = (*Recorder)(nil)

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		counters:     make(map[string]int64),
		gauges:       make(map[string]int64),
		observations: make(map[string][]float64),
	}
}

func (r *Recorder) IncCounter(name string, delta int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters[name] += delta
}

func (r *Recorder) SetGauge(name string, value int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gauges[name] = value
}

func (r *Recorder) ObserveHistogram(name string, value float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observations[name] = append(r.observations[name], value)
}

// Counter returns the current total of a counter.
func (r *Recorder) Counter(name string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counters[name]
}

// Gauge returns the last value set on a gauge.
func (r *Recorder) Gauge(name string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gauges[name]
}

// Observations returns a copy of the values recorded for a histogram.
func (r *Recorder) Observations(name string) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]float64(nil), r.observations[name]...)
}
