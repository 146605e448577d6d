package zstdcodec

import (
	"testing"

	"github.com/tabcheck/tabcheck/internal/codec/codectest"
)

func TestCodec_Extension(t *testing.T) {
	c := New()
	if got := c.Extension(); got != "zst" {
		t.Errorf("Extension() = %q, want %q", got, "zst")
	}
	if got := c.Name(); got != "zstd" {
		t.Errorf("Name() = %q, want %q", got, "zstd")
	}
}

func TestCodec_Conformance(t *testing.T) {
	codectest.Run(t, New())
}
