// Package memorytabcheckfx provides an fx module for a tabcheck session
// reading from memory. Useful for testing.
package memorytabcheckfx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/tabcheck/tabcheck"
	"github.com/tabcheck/tabcheck/internal/pool"
	"github.com/tabcheck/tabcheck/internal/stats"
	"github.com/tabcheck/tabcheck/internal/stats/logger"
	"github.com/tabcheck/tabcheck/internal/store/memstore"
)

// Host is the host the memory store is mounted at: files put in the
// store are read as mem://out/<name>.
const Host = "out"

// Module provides an in-memory session for testing.
// Requires a *zap.Logger to be provided.
var Module = fx.Module("memorytabcheck",
	fx.Provide(
		newStatsCollector,
		newMemStore,
		newSession,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("tabcheck.stats"))
}

func newMemStore() *memstore.Store {
	return memstore.New()
}

// Params holds dependencies for creating the session.
type Params struct {
	fx.In

	Logger    *zap.Logger
	Collector stats.Collector
	Store     *memstore.Store
	Lifecycle fx.Lifecycle
}

// Result holds the provided session and store.
type Result struct {
	fx.Out

	Session *tabcheck.Session
	Pool    *pool.Pool      // Exposed for leak checks
	Store   *memstore.Store // Exposed for test setup
}

func newSession(p Params) (Result, error) {
	// Decompressor metrics are reported per session through WithStats.
	decompressors := pool.New(
		pool.WithLogger(p.Logger.Named("pool")),
	)
	session, err := tabcheck.New(
		tabcheck.WithStore(memstore.Scheme, Host, p.Store),
		tabcheck.WithPool(decompressors),
		tabcheck.WithStats(p.Collector),
		tabcheck.WithLogger(p.Logger.Named("tabcheck")),
	)
	if err != nil {
		return Result{}, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return multierr.Append(session.Close(), decompressors.Close())
		},
	})

	return Result{Session: session, Pool: decompressors, Store: p.Store}, nil
}
