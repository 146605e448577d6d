// Package tabcheckfx provides an fx module for a tabcheck session reading
// local and remote job output.
package tabcheckfx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tabcheck/tabcheck"
	"github.com/tabcheck/tabcheck/internal/stats"
	"github.com/tabcheck/tabcheck/internal/stats/logger"
	"github.com/tabcheck/tabcheck/internal/store/hdfsstore"
	"github.com/tabcheck/tabcheck/internal/store/s3store"
)

// Config holds configuration for the session.
type Config struct {
	// S3Region and S3Endpoint configure s3:// paths. An endpoint selects
	// path-style addressing, as used by MinIO.
	S3Region   string
	S3Endpoint string

	// HDFSUser is the user hdfs:// paths are read as.
	HDFSUser string

	// CacheSize is the number of file lengths to cache.
	// Default is 1024. A negative value disables the cache.
	CacheSize int
}

// Module provides a *tabcheck.Session closed when the app stops.
// Requires a Config and a *zap.Logger to be provided.
var Module = fx.Module("tabcheck",
	fx.Provide(
		newStatsCollector,
		newSession,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("tabcheck.stats"))
}

// Params holds dependencies for creating the session.
type Params struct {
	fx.In

	Config    Config
	Logger    *zap.Logger
	Collector stats.Collector
	Lifecycle fx.Lifecycle
}

// Result holds the provided session.
type Result struct {
	fx.Out

	Session *tabcheck.Session
}

func newSession(p Params) (Result, error) {
	cacheSize := p.Config.CacheSize
	switch {
	case cacheSize == 0:
		cacheSize = 1024
	case cacheSize < 0:
		cacheSize = 0
	}

	var s3opts []s3store.Option
	if p.Config.S3Region != "" {
		s3opts = append(s3opts, s3store.WithRegion(p.Config.S3Region))
	}
	if p.Config.S3Endpoint != "" {
		s3opts = append(s3opts, s3store.WithEndpoint(p.Config.S3Endpoint))
	}
	var hdfsOpts []hdfsstore.Option
	if p.Config.HDFSUser != "" {
		hdfsOpts = append(hdfsOpts, hdfsstore.WithUser(p.Config.HDFSUser))
	}

	session, err := tabcheck.New(
		tabcheck.WithResolver(s3store.Scheme, s3store.Resolver(s3opts...)),
		tabcheck.WithResolver(hdfsstore.Scheme, hdfsstore.Resolver(hdfsOpts...)),
		tabcheck.WithMetadataCache(cacheSize),
		tabcheck.WithStats(p.Collector),
		tabcheck.WithLogger(p.Logger.Named("tabcheck")),
	)
	if err != nil {
		return Result{}, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return session.Close()
		},
	})

	return Result{Session: session}, nil
}
