// Package alldecoders assembles the default format registry.
package alldecoders

import (
	"github.com/tabcheck/tabcheck/internal/decoder"
	"github.com/tabcheck/tabcheck/internal/decoder/csvdecoder"
	"github.com/tabcheck/tabcheck/internal/decoder/linedecoder"
	"github.com/tabcheck/tabcheck/internal/decoder/parquetdecoder"
	"github.com/tabcheck/tabcheck/internal/decoder/xlsxdecoder"
)

// NewFormats returns a registry holding every built-in format. File names
// without a known extension, such as part-r-00000, decode as lines.
func NewFormats() *decoder.Formats {
	f := decoder.NewFormats()
	f.Register(xlsxdecoder.Format())
	f.Register(csvdecoder.Format())
	f.Register(csvdecoder.TSVFormat())
	f.Register(linedecoder.Format())
	f.Register(parquetdecoder.Format())
	f.SetFallback(linedecoder.Name)
	return f
}
