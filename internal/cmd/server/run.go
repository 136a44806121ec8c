package serverrun

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/sync/errgroup"

	cfgpkg "github.com/JosiasAurel/scrapbook-v2/internal/config"
	"github.com/JosiasAurel/scrapbook-v2/internal/runtime"
	httpserver "github.com/JosiasAurel/scrapbook-v2/internal/server/http"
	pebblestore "github.com/JosiasAurel/scrapbook-v2/internal/storage/pebble"
	logpkg "github.com/JosiasAurel/scrapbook-v2/pkg/log"
)

type Options struct {
	DataDir  string
	HTTPAddr string
	Fsync    pebblestore.FsyncMode
	Config   cfgpkg.Config
}

// Run starts the HTTP server and plugin dispatcher and blocks until ctx is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	// Layer a local signal context over the provided one so callers that
	// don't pass a signal-aware context still shut down cleanly.
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.DataDir == "" {
		opts.DataDir = cfgpkg.DefaultDataDir()
	}
	storeDir := filepath.Join(opts.DataDir, "store")

	logger, err := logpkg.New(logpkg.Options{
		Level:  opts.Config.Log.Level,
		Format: opts.Config.Log.Format,
	})
	if err != nil {
		return err
	}

	rt, err := runtime.Open(sctx, runtime.Options{
		DataDir: storeDir,
		Fsync:   opts.Fsync,
		Config:  opts.Config,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	defer rt.Close()

	logger.Info().
		Str("http", opts.HTTPAddr).
		Str("dataDir", opts.DataDir).
		Int("plugins", len(opts.Config.Plugins.Registry)).
		Msg("starting scrapbook server")

	hsrv := httpserver.New(rt)
	g, gctx := errgroup.WithContext(sctx)
	g.Go(func() error {
		return hsrv.ListenAndServe(gctx, opts.HTTPAddr)
	})
	g.Go(func() error {
		return rt.Dispatcher().Run(gctx)
	})

	err = g.Wait()
	hsrv.Close()
	if sctx.Err() != nil {
		return nil
	}
	return err
}
