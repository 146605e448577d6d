package pool

import (
	"bytes"
	"io"
	"testing"

	"github.com/tabcheck/tabcheck/internal/codec/gzipcodec"
)

// corrupt acquires a gzip handle through r and fails its first read.
func corrupt(t *testing.T, r *Registry) {
	t.Helper()
	h, err := r.Acquire(gzipcodec.New())
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if err := h.Reset(bytes.NewReader([]byte("not gzip at all"))); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if _, err := io.ReadAll(h); err == nil {
		t.Fatal("ReadAll() expected error for a corrupt stream, got nil")
	}
}

func TestPool_CloseAfterCorruptStream(t *testing.T) {
	p := New()
	r := NewRegistry(p)
	corrupt(t, r)

	if err := r.ReleaseAll(); err != nil {
		t.Fatalf("ReleaseAll() error = %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestPool_EvictAfterCorruptStream(t *testing.T) {
	p := New(WithMaxIdle(0))
	r := NewRegistry(p)
	corrupt(t, r)

	if err := r.ReleaseAll(); err != nil {
		t.Errorf("ReleaseAll() error = %v", err)
	}
	if got := p.Outstanding(); got != 0 {
		t.Errorf("Outstanding() = %d, want 0", got)
	}
}
