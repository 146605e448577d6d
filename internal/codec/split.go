package codec

import "io"

// ReadMode selects how a split reader treats the end of its range.
type ReadMode int

const (
	// ReadModeContinuous decodes one unbroken logical segment starting at
	// the range start and running to the end of the compressed stream.
	ReadModeContinuous ReadMode = iota
	// ReadModeByBlock stops at the first block boundary past the range end.
	// Used by parallel readers, each owning one range.
	ReadModeByBlock
)

// String returns the lower-case name of the mode.
func (m ReadMode) String() string {
	switch m {
	case ReadModeContinuous:
		return "continuous"
	case ReadModeByBlock:
		return "byblock"
	default:
		return "unknown"
	}
}

// SplitReader reads the decompressed content of one range of a splittable
// stream.
type SplitReader struct {
	d     Decompressor
	start int64
	end   int64
	mode  ReadMode
}

// NewSplitReader returns a SplitReader reading from d, which must already be
// bound to the compressed source. Codec implementations call this once they
// have aligned start and end to their own boundaries.
func NewSplitReader(d Decompressor, start, end int64, mode ReadMode) *SplitReader {
	return &SplitReader{d: d, start: start, end: end, mode: mode}
}

// Read reads decompressed bytes.
func (s *SplitReader) Read(p []byte) (int, error) {
	return s.d.Read(p)
}

// AdjustedStart returns the compressed offset decoding actually started at.
func (s *SplitReader) AdjustedStart() int64 { return s.start }

// AdjustedEnd returns the compressed offset the range was aligned to.
func (s *SplitReader) AdjustedEnd() int64 { return s.end }

// Mode returns the read mode.
func (s *SplitReader) Mode() ReadMode { return s.mode }

// Compile-time check that SplitReader implements io.Reader.
var _ io.Reader = (*SplitReader)(nil)
