package runtime

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/JosiasAurel/scrapbook-v2/internal/auth"
	cfgpkg "github.com/JosiasAurel/scrapbook-v2/internal/config"
	feedsvc "github.com/JosiasAurel/scrapbook-v2/internal/services/feed"
	pebblestore "github.com/JosiasAurel/scrapbook-v2/internal/storage/pebble"
)

func openRuntime(t *testing.T) *Runtime {
	t.Helper()
	rt, err := Open(context.Background(), Options{
		DataDir: t.TempDir(),
		Fsync:   pebblestore.FsyncModeAlways,
		Config:  cfgpkg.Default(),
		Logger:  zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("open runtime: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })
	return rt
}

func TestOpenCloseHealth(t *testing.T) {
	rt := openRuntime(t)
	if err := rt.CheckHealth(context.Background()); err != nil {
		t.Fatalf("health: %v", err)
	}
}

func TestServicesShareOneStore(t *testing.T) {
	rt := openRuntime(t)
	ctx := context.Background()

	p, err := rt.Feed().CreatePost(ctx, auth.Identity{UserID: "u1"}, feedsvc.CreatePostInput{Text: "hi", Source: "WEB"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := rt.Store().GetPost(p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Text != "hi" {
		t.Fatalf("store and feed disagree: %+v", got)
	}
}
