package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/tabcheck/tabcheck"
	"github.com/tabcheck/tabcheck/internal/codec"
	"github.com/tabcheck/tabcheck/internal/codec/allcodecs"
	promstats "github.com/tabcheck/tabcheck/internal/stats/prometheus"
	"github.com/tabcheck/tabcheck/internal/store/hdfsstore"
	"github.com/tabcheck/tabcheck/internal/store/s3store"
)

// openSession builds a session from the global flags. The returned close
// function closes the session and prints metrics if requested.
func openSession() (*tabcheck.Session, func() error, error) {
	logger := zap.NewNop()
	if verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return nil, nil, fmt.Errorf("creating logger: %w", err)
		}
		logger = l
	}

	codecs := allcodecs.NewRegistry()
	extra, err := parseCodecFlags(codecs, codecFlags)
	if err != nil {
		return nil, nil, err
	}

	var s3opts []s3store.Option
	if s3Region != "" {
		s3opts = append(s3opts, s3store.WithRegion(s3Region))
	}
	if s3Endpoint != "" {
		s3opts = append(s3opts, s3store.WithEndpoint(s3Endpoint))
	}
	var hdfsOpts []hdfsstore.Option
	if hdfsUser != "" {
		hdfsOpts = append(hdfsOpts, hdfsstore.WithUser(hdfsUser))
	}

	registry := prometheus.NewRegistry()
	opts := []tabcheck.Option{
		tabcheck.WithCodecs(codecs),
		tabcheck.WithResolver(s3store.Scheme, s3store.Resolver(s3opts...)),
		tabcheck.WithResolver(hdfsstore.Scheme, hdfsstore.Resolver(hdfsOpts...)),
		tabcheck.WithMetadataCache(cacheSize),
		tabcheck.WithStats(promstats.New(registry)),
		tabcheck.WithLogger(logger),
	}
	for ext, c := range extra {
		opts = append(opts, tabcheck.WithCodec(ext, c))
	}

	session, err := tabcheck.New(opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("creating session: %w", err)
	}

	closeFn := func() error {
		err := session.Close()
		if showMetrics {
			err = multierr.Append(err, promstats.WriteText(os.Stderr, registry))
		}
		logger.Sync()
		return err
	}
	return session, closeFn, nil
}

// parseCodecFlags turns ext=codec flags into suffix mappings, looking
// codecs up by name in codecs.
func parseCodecFlags(codecs *codec.Registry, flags []string) (map[string]codec.Codec, error) {
	out := make(map[string]codec.Codec, len(flags))
	for _, f := range flags {
		ext, name, ok := strings.Cut(f, "=")
		if !ok || ext == "" || name == "" {
			return nil, fmt.Errorf("invalid --codec %q: want ext=codec", f)
		}
		c, ok := codecs.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("invalid --codec %q: unknown codec %q", f, name)
		}
		out[ext] = c
	}
	return out, nil
}
