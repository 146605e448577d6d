// Package allcodecs assembles the default suffix to codec registry.
package allcodecs

import (
	"github.com/tabcheck/tabcheck/internal/codec"
	"github.com/tabcheck/tabcheck/internal/codec/bzip2codec"
	"github.com/tabcheck/tabcheck/internal/codec/deflatecodec"
	"github.com/tabcheck/tabcheck/internal/codec/gzipcodec"
	"github.com/tabcheck/tabcheck/internal/codec/lz4codec"
	"github.com/tabcheck/tabcheck/internal/codec/snappycodec"
	"github.com/tabcheck/tabcheck/internal/codec/zstdcodec"
)

// Codecs returns one instance of every built-in codec.
func Codecs() []codec.Codec {
	return []codec.Codec{
		gzipcodec.New(),
		zstdcodec.New(),
		snappycodec.New(),
		lz4codec.New(),
		deflatecodec.New(),
		bzip2codec.New(),
	}
}

// NewRegistry returns a registry holding every built-in codec under its
// default extension, plus the common "zstd" alias.
func NewRegistry() *codec.Registry {
	r := codec.NewRegistry(Codecs()...)
	if zst, ok := r.Lookup("zstd"); ok {
		r.RegisterExtension("zstd", zst)
	}
	return r
}
