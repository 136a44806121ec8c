package runtime

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/JosiasAurel/scrapbook-v2/internal/attach"
	"github.com/JosiasAurel/scrapbook-v2/internal/auth"
	"github.com/JosiasAurel/scrapbook-v2/internal/bus"
	cfgpkg "github.com/JosiasAurel/scrapbook-v2/internal/config"
	"github.com/JosiasAurel/scrapbook-v2/internal/notify"
	feedsvc "github.com/JosiasAurel/scrapbook-v2/internal/services/feed"
	"github.com/JosiasAurel/scrapbook-v2/internal/services/plugins"
	pebblestore "github.com/JosiasAurel/scrapbook-v2/internal/storage/pebble"
	"github.com/JosiasAurel/scrapbook-v2/internal/store"
)

// Options for building the Runtime.
type Options struct {
	DataDir string
	Fsync   pebblestore.FsyncMode
	Config  cfgpkg.Config
	Logger  zerolog.Logger
}

// Runtime wires storage, the event bus, and the services for a single-node
// instance.
type Runtime struct {
	db     *pebblestore.DB
	store  *store.Store
	bus    *bus.Bus
	config cfgpkg.Config

	feed       *feedsvc.Service
	auth       *auth.Service
	dispatcher *plugins.Dispatcher
}

// Open initializes storage and wires the services. Missing S3 or email
// configuration degrades gracefully: uploads are disabled and magic links go
// to the log instead of out by mail.
func Open(ctx context.Context, opts Options) (*Runtime, error) {
	db, err := pebblestore.Open(pebblestore.Options{DataDir: opts.DataDir, Fsync: opts.Fsync})
	if err != nil {
		return nil, err
	}
	st := store.Open(db)
	b := bus.New()
	cfg := opts.Config
	logger := opts.Logger

	var uploader attach.Uploader = attach.Disabled{}
	if cfg.S3.Bucket != "" {
		s3up, err := attach.NewS3(ctx, cfg.S3.Region, cfg.S3.Bucket)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		uploader = s3up
	}

	var mailer notify.Mailer = notify.LogMailer{Logger: logger}
	if cfg.Email.APIKey != "" {
		mailer = notify.NewHTTPMailer(cfg.Email.Endpoint, cfg.Email.APIKey, cfg.Email.From)
	}

	rt := &Runtime{
		db:     db,
		store:  st,
		bus:    b,
		config: cfg,
		feed:   feedsvc.New(st, b, uploader, logger),
		auth: auth.New(st, mailer, auth.Options{
			BaseURL:       cfg.Auth.BaseURL,
			LoginTokenTTL: time.Duration(cfg.Auth.LoginTokenTTLMs) * time.Millisecond,
			SessionTTL:    time.Duration(cfg.Auth.SessionTTLMs) * time.Millisecond,
		}, logger),
		dispatcher: plugins.New(b, cfg.Plugins, logger),
	}
	return rt, nil
}

// Close closes underlying resources.
func (r *Runtime) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// CheckHealth performs a simple health check.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if r.db == nil {
		return errors.New("db not open")
	}
	it, err := r.db.NewIter(nil)
	if err != nil {
		return err
	}
	it.Close()
	return nil
}

// Feed returns the feed service.
func (r *Runtime) Feed() *feedsvc.Service { return r.feed }

// Auth returns the auth service.
func (r *Runtime) Auth() *auth.Service { return r.auth }

// Dispatcher returns the plugin dispatcher; the caller owns its Run loop.
func (r *Runtime) Dispatcher() *plugins.Dispatcher { return r.dispatcher }

// Bus returns the shared event bus.
func (r *Runtime) Bus() *bus.Bus { return r.bus }

// Store returns the durable store.
func (r *Runtime) Store() *store.Store { return r.store }

// DB exposes the underlying DB for advanced operations (internal use only).
func (r *Runtime) DB() *pebblestore.DB { return r.db }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }
