package tabcheck

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tabcheck/tabcheck/internal/codec"
	"github.com/tabcheck/tabcheck/internal/codec/allcodecs"
	"github.com/tabcheck/tabcheck/internal/decoder"
	"github.com/tabcheck/tabcheck/internal/decoder/alldecoders"
	"github.com/tabcheck/tabcheck/internal/pool"
	"github.com/tabcheck/tabcheck/internal/stats"
	"github.com/tabcheck/tabcheck/internal/store"
	"github.com/tabcheck/tabcheck/internal/store/cachedstore"
	"github.com/tabcheck/tabcheck/internal/store/cachedstore/cachestrategy/lru"
	"github.com/tabcheck/tabcheck/internal/store/cachedstore/memory"
	"github.com/tabcheck/tabcheck/internal/store/diskstore"
	"github.com/tabcheck/tabcheck/internal/store/gcsstore"
	"github.com/tabcheck/tabcheck/internal/store/hdfsstore"
	"github.com/tabcheck/tabcheck/internal/store/s3store"
)

// Option configures a Session.
type Option interface {
	apply(*options)
}

type mount struct {
	scheme, host string
	store        store.Store
}

type extension struct {
	ext   string
	codec codec.Codec
}

// options holds the session configuration.
type options struct {
	mounts      []mount
	resolvers   map[string]store.Resolver
	cacheSize   int
	codecs      *codec.Registry
	extensions  []extension
	formats     *decoder.Formats
	pool        *pool.Pool
	decoderOpts []decoder.Option
	stats       stats.Collector
	logger      *zap.Logger

	// mux is built from the fields above by build.
	mux *store.Mux
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		resolvers: map[string]store.Resolver{
			s3store.Scheme:   s3store.Resolver(),
			gcsstore.Scheme:  gcsstore.Resolver(),
			hdfsstore.Scheme: hdfsstore.Resolver(),
		},
		codecs:  allcodecs.NewRegistry(),
		formats: alldecoders.NewFormats(),
		pool:    pool.Default(),
		stats:   stats.NewNoop(),
		logger:  zap.NewNop(),
	}
}

// build assembles the store mux and codec registry from the options.
func (o *options) build() error {
	mux := store.NewMux()
	if o.cacheSize != 0 {
		// Each store gets its own cache; validate the size once here.
		if _, err := lru.New[string, int64](o.cacheSize); err != nil {
			return fmt.Errorf("creating metadata cache: %w", err)
		}
		collector := o.stats
		size := o.cacheSize
		mux.Use(func(s store.Store) store.Store {
			strategy, err := lru.New[string, int64](size)
			if err != nil {
				return s
			}
			return cachedstore.New(s, memory.New(strategy, collector))
		})
	}

	hasFile := false
	for _, m := range o.mounts {
		mux.Mount(m.scheme, m.host, m.store)
		hasFile = hasFile || (m.scheme == store.SchemeFile && m.host == "")
	}
	if !hasFile {
		disk, err := diskstore.New("/")
		if err != nil {
			return fmt.Errorf("creating disk store: %w", err)
		}
		mux.Mount(store.SchemeFile, "", disk)
	}
	for scheme, r := range o.resolvers {
		mux.Handle(scheme, r)
	}
	o.mux = mux

	// Extra extensions go into a copy so a registry shared through
	// WithCodecs is left as the caller built it.
	if len(o.extensions) > 0 {
		o.codecs = o.codecs.Clone()
	}
	for _, e := range o.extensions {
		o.codecs.RegisterExtension(e.ext, e.codec)
	}
	return nil
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithStore serves every path of scheme and host from s. Use an empty
// host for the file scheme. The session closes s when it is closed.
func WithStore(scheme, host string, s store.Store) Option {
	return optionFunc(func(o *options) {
		o.mounts = append(o.mounts, mount{scheme: scheme, host: host, store: s})
	})
}

// WithResolver sets how stores for a scheme are created, replacing the
// default resolver for that scheme if any.
func WithResolver(scheme string, r store.Resolver) Option {
	return optionFunc(func(o *options) {
		o.resolvers[scheme] = r
	})
}

// WithMetadataCache caches the existence and size of up to size files per
// store. Zero disables the cache and a negative size is an error.
func WithMetadataCache(size int) Option {
	return optionFunc(func(o *options) {
		o.cacheSize = size
	})
}

// WithCodecs sets the suffix to codec registry.
// If not set, every built-in codec is registered.
func WithCodecs(r *codec.Registry) Option {
	return optionFunc(func(o *options) {
		o.codecs = r
	})
}

// WithCodec maps an additional file extension to c.
func WithCodec(ext string, c codec.Codec) Option {
	return optionFunc(func(o *options) {
		o.extensions = append(o.extensions, extension{ext: ext, codec: c})
	})
}

// WithFormats sets the row format registry.
// If not set, every built-in format is registered.
func WithFormats(f *decoder.Formats) Option {
	return optionFunc(func(o *options) {
		o.formats = f
	})
}

// WithPool sets the decompressor pool.
// If not set, the process-wide pool is shared.
func WithPool(p *pool.Pool) Option {
	return optionFunc(func(o *options) {
		o.pool = p
	})
}

// WithDecoderOptions sets options applied to every decoder the session
// creates.
func WithDecoderOptions(opts ...decoder.Option) Option {
	return optionFunc(func(o *options) {
		o.decoderOpts = append(o.decoderOpts, opts...)
	})
}

// WithStats sets the stats collector.
// If not set, a no-op collector is used.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		o.stats = c
	})
}

// WithLogger sets the logger.
// If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		o.logger = l
	})
}
