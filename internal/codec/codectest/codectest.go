// Package codectest provides conformance checks shared by codec implementations.
package codectest

import (
	"bytes"
	"io"
	"testing"

	"github.com/tabcheck/tabcheck/internal/codec"
)

// Compress compresses data with c and fails the test on error.
func Compress(t testing.TB, c codec.Codec, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := c.Writer(&buf)
	if err != nil {
		t.Fatalf("Writer() error = %v", err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return buf.Bytes()
}

// Decompress reads all of compressed through d after resetting it.
func Decompress(t testing.TB, d codec.Decompressor, compressed []byte) []byte {
	t.Helper()
	if err := d.Reset(bytes.NewReader(compressed)); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	got, err := io.ReadAll(d)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	return got
}

// Run exercises round trips and decompressor reuse for c.
func Run(t *testing.T, c codec.Codec) {
	t.Run("RoundTrip", func(t *testing.T) {
		original := []byte("1,2,3,4\ntest1,test2,test3,test4\n")
		d := newDecompressor(t, c)
		defer d.Close()

		if got := Decompress(t, d, Compress(t, c, original)); !bytes.Equal(got, original) {
			t.Errorf("round-trip = %q, want %q", got, original)
		}
	})

	t.Run("LargeData", func(t *testing.T) {
		original := bytes.Repeat([]byte("ABCDEFGHIJ"), 10000)
		compressed := Compress(t, c, original)
		if len(compressed) >= len(original) {
			t.Errorf("expected compression, got %d bytes from %d bytes", len(compressed), len(original))
		}

		d := newDecompressor(t, c)
		defer d.Close()
		if got := Decompress(t, d, compressed); !bytes.Equal(got, original) {
			t.Error("round-trip failed for large data")
		}
	})

	t.Run("EmptyData", func(t *testing.T) {
		d := newDecompressor(t, c)
		defer d.Close()
		if got := Decompress(t, d, Compress(t, c, nil)); len(got) != 0 {
			t.Errorf("round-trip of empty data = %q", got)
		}
	})

	t.Run("ResetReuse", func(t *testing.T) {
		first := []byte("first stream")
		second := []byte("second, somewhat longer stream")
		d := newDecompressor(t, c)
		defer d.Close()

		if got := Decompress(t, d, Compress(t, c, first)); !bytes.Equal(got, first) {
			t.Errorf("first stream = %q, want %q", got, first)
		}
		if got := Decompress(t, d, Compress(t, c, second)); !bytes.Equal(got, second) {
			t.Errorf("second stream after Reset = %q, want %q", got, second)
		}
	})

	t.Run("InvalidData", func(t *testing.T) {
		d := newDecompressor(t, c)
		defer d.Close()
		if err := d.Reset(bytes.NewReader([]byte("definitely not compressed data"))); err != nil {
			return
		}
		if _, err := io.ReadAll(d); err == nil {
			t.Error("ReadAll() expected error for invalid data, got nil")
		}
	})
}

func newDecompressor(t *testing.T, c codec.Codec) codec.Decompressor {
	t.Helper()
	d, err := c.NewDecompressor()
	if err != nil {
		t.Fatalf("NewDecompressor() error = %v", err)
	}
	return d
}
