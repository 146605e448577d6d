package lz4codec

import (
	"testing"

	"github.com/tabcheck/tabcheck/internal/codec/codectest"
)

func TestCodec_Extension(t *testing.T) {
	if got := New().Extension(); got != "lz4" {
		t.Errorf("Extension() = %q, want %q", got, "lz4")
	}
}

func TestCodec_Conformance(t *testing.T) {
	codectest.Run(t, New())
}
