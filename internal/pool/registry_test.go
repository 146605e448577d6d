package pool

import (
	"errors"
	"testing"

	"github.com/tabcheck/tabcheck/internal/stats"
)

func TestRegistry_ReleaseAll(t *testing.T) {
	p := New()
	r := NewRegistry(p)
	c := &fakeCodec{name: "fake"}

	for i := 0; i < 3; i++ {
		if _, err := r.Acquire(c); err != nil {
			t.Fatalf("Acquire() error = %v", err)
		}
	}
	if got := r.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}

	if err := r.ReleaseAll(); err != nil {
		t.Fatalf("ReleaseAll() error = %v", err)
	}
	if got := p.Outstanding(); got != 0 {
		t.Errorf("Outstanding() = %d, want 0", got)
	}
	if got := r.Len(); got != 0 {
		t.Errorf("Len() after ReleaseAll = %d, want 0", got)
	}
}

func TestRegistry_ReleaseAllIdempotent(t *testing.T) {
	p := New()
	r := NewRegistry(p)
	h, _ := r.Acquire(&fakeCodec{name: "fake"})

	if err := r.ReleaseAll(); err != nil {
		t.Fatalf("first ReleaseAll() error = %v", err)
	}
	if err := r.ReleaseAll(); err != nil {
		t.Errorf("second ReleaseAll() error = %v", err)
	}
	if !h.Released() {
		t.Error("handle should be released")
	}
	if got := p.Idle("fake"); got != 1 {
		t.Errorf("Idle() = %d, want 1 (no double free)", got)
	}
}

func TestRegistry_SkipsNilAndReleased(t *testing.T) {
	p := New()
	r := NewRegistry(p)
	c := &fakeCodec{name: "fake"}

	released, _ := r.Acquire(c)
	kept, _ := r.Acquire(c)
	r.Track(nil)
	if err := p.Release(released); err != nil {
		t.Fatalf("Release() error = %v", err)
	}

	if err := r.ReleaseAll(); err != nil {
		t.Errorf("ReleaseAll() error = %v, want nil for nil and released handles", err)
	}
	if !kept.Released() {
		t.Error("remaining handle should be released")
	}
}

func TestRegistry_ReleaseAllAfterFailedAcquire(t *testing.T) {
	r := NewRegistry(New())
	if _, err := r.Acquire(&fakeCodec{name: "fake", fail: true}); err == nil {
		t.Fatal("Acquire() expected error")
	}
	if got := r.Len(); got != 0 {
		t.Errorf("Len() = %d, want 0", got)
	}
	if err := r.ReleaseAll(); err != nil {
		t.Errorf("ReleaseAll() error = %v", err)
	}
}

func TestRegistry_ReleaseAllReportsForeign(t *testing.T) {
	other := New()
	h, _ := other.Acquire(&fakeCodec{name: "fake"})
	defer other.Release(h)

	r := NewRegistry(New())
	r.Track(h)
	if err := r.ReleaseAll(); !errors.Is(err, ErrForeignHandle) {
		t.Errorf("ReleaseAll() error = %v, want ErrForeignHandle", err)
	}
}

func TestRegistry_Close(t *testing.T) {
	p := New()
	r := NewRegistry(p)
	c := &fakeCodec{name: "fake"}
	if _, err := r.Acquire(c); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := r.Acquire(c); !errors.Is(err, ErrRegistryClosed) {
		t.Errorf("Acquire() after Close error = %v, want ErrRegistryClosed", err)
	}
	if got := p.Outstanding(); got != 0 {
		t.Errorf("Outstanding() = %d, want 0", got)
	}
}

func TestRegistry_TrackAfterClose(t *testing.T) {
	p := New()
	r := NewRegistry(p)
	r.Close()

	h, err := p.Acquire(&fakeCodec{name: "fake"})
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if err := r.Track(h); !errors.Is(err, ErrRegistryClosed) {
		t.Errorf("Track() after Close error = %v, want ErrRegistryClosed", err)
	}
	if !h.Released() {
		t.Error("handle tracked after Close should be released")
	}
	if got := r.Len(); got != 0 {
		t.Errorf("Len() = %d, want 0", got)
	}
}

func TestRegistry_Stats(t *testing.T) {
	rec := stats.NewRecorder()
	p := New()
	r := NewRegistry(p, WithRegistryStats(rec))
	c := &fakeCodec{name: "fake"}

	for i := 0; i < 2; i++ {
		if _, err := r.Acquire(c); err != nil {
			t.Fatalf("Acquire() error = %v", err)
		}
	}
	if got := rec.Gauge(stats.MetricDecompressorsOutstanding); got != 2 {
		t.Errorf("%s = %d, want 2", stats.MetricDecompressorsOutstanding, got)
	}
	if err := r.ReleaseAll(); err != nil {
		t.Fatalf("ReleaseAll() error = %v", err)
	}
	if _, err := r.Acquire(c); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	tests := []struct {
		name string
		want int64
	}{
		{stats.MetricDecompressorsAcquired, 3},
		{stats.MetricDecompressorsCreated, 2},
		{stats.MetricDecompressorsReleased, 2},
	}
	for _, tt := range tests {
		if got := rec.Counter(tt.name); got != tt.want {
			t.Errorf("%s = %d, want %d", tt.name, got, tt.want)
		}
	}
	if got := rec.Gauge(stats.MetricDecompressorsOutstanding); got != 1 {
		t.Errorf("%s = %d, want 1", stats.MetricDecompressorsOutstanding, got)
	}
}
