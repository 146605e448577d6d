package decoder

import (
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownFormat is returned by Formats.Open for unregistered formats.
var ErrUnknownFormat = errors.New("decoder: unknown format")

// Config holds options shared by all formats. Formats ignore fields that
// do not apply to them.
type Config struct {
	// Sheet selects a spreadsheet sheet by name. Empty means the first.
	Sheet string
	// Comma is the field delimiter of delimited text. Zero means the
	// format's own delimiter: ',' for csv, '\t' for tsv.
	Comma rune
	// RawValues asks spreadsheet decoders for typed raw values in addition
	// to formatted ones.
	RawValues bool
	// TempDir is where formats needing random access buffer the stream.
	TempDir string
	// MaxLineSize bounds a single line of line-oriented formats.
	MaxLineSize int
}

// DefaultMaxLineSize is the default bound for a single line.
const DefaultMaxLineSize = 1 << 20

// Option configures a Config.
type Option func(*Config)

// WithSheet selects a spreadsheet sheet.
func WithSheet(name string) Option {
	return func(c *Config) { c.Sheet = name }
}

// WithComma sets the field delimiter.
func WithComma(r rune) Option {
	return func(c *Config) { c.Comma = r }
}

// WithRawValues enables typed raw values.
func WithRawValues() Option {
	return func(c *Config) { c.RawValues = true }
}

// WithTempDir sets the directory for temporary buffers.
func WithTempDir(dir string) Option {
	return func(c *Config) { c.TempDir = dir }
}

// WithMaxLineSize bounds line length.
func WithMaxLineSize(n int) Option {
	return func(c *Config) { c.MaxLineSize = n }
}

// NewConfig returns a Config with opts applied over the defaults.
func NewConfig(opts ...Option) Config {
	cfg := Config{MaxLineSize: DefaultMaxLineSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Factory builds a decoder reading r.
type Factory func(r io.Reader, cfg Config) (Decoder, error)

// Format describes a registered format.
type Format struct {
	Name       string
	Extensions []string
	Factory    Factory
}

// Formats maps format names and file extensions to factories.
// A Formats is safe for concurrent use.
type Formats struct {
	mu       sync.RWMutex
	byName   map[string]Format
	byExt    map[string]string
	fallback string
}

// NewFormats returns an empty format registry.
func NewFormats() *Formats {
	return &Formats{
		byName: make(map[string]Format),
		byExt:  make(map[string]string),
	}
}

// Register adds a format under its name and extensions (without dot).
func (f *Formats) Register(format Format) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byName[format.Name] = format
	for _, ext := range format.Extensions {
		f.byExt[strings.ToLower(strings.TrimPrefix(ext, "."))] = format.Name
	}
}

// SetFallback names the format used for file names without a registered
// extension.
func (f *Formats) SetFallback(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fallback = name
}

// FormatFor picks the format of a file name that has already had its codec
// suffix removed.
func (f *Formats) FormatFor(name string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	if format, ok := f.byExt[ext]; ok && ext != "" {
		return format, true
	}
	if f.fallback != "" {
		return f.fallback, true
	}
	return "", false
}

// Names returns the registered format names in sorted order.
func (f *Formats) Names() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.byName))
	for name := range f.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open builds a decoder for format reading r.
func (f *Formats) Open(format string, r io.Reader, opts ...Option) (Decoder, error) {
	f.mu.RLock()
	entry, ok := f.byName[format]
	f.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return entry.Factory(r, NewConfig(opts...))
}
