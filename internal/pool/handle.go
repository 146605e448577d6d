package pool

import (
	"io"
	"sync/atomic"

	"github.com/tabcheck/tabcheck/internal/codec"
)

// Handle is one checked-out decompressor. It is owned by a single caller
// from Acquire until Release and must not be used afterwards.
type Handle struct {
	id       uint64
	codec    codec.Codec
	d        codec.Decompressor
	released atomic.Bool
	// created is set when the decompressor was built for this handle
	// rather than reused.
	created bool
}

// Compile-time check that Handle implements codec.Decompressor.
var _ codec.Decompressor = (*Handle)(nil)

// ID returns the pool-unique handle id.
func (h *Handle) ID() uint64 { return h.id }

// Codec returns the codec the decompressor belongs to.
func (h *Handle) Codec() codec.Codec { return h.codec }

// Released reports whether the handle has been returned to its pool.
func (h *Handle) Released() bool { return h.released.Load() }

// Reset binds the decompressor to a new compressed source.
func (h *Handle) Reset(r io.Reader) error {
	if h.released.Load() {
		return ErrReleased
	}
	return h.d.Reset(r)
}

// Read reads decompressed bytes.
func (h *Handle) Read(p []byte) (int, error) {
	if h.released.Load() {
		return 0, ErrReleased
	}
	return h.d.Read(p)
}

// Close is a no-op. Decompressors go back to the pool through Release.
func (h *Handle) Close() error { return nil }
