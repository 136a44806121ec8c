package feedsvc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/JosiasAurel/scrapbook-v2/internal/auth"
	"github.com/JosiasAurel/scrapbook-v2/internal/bus"
	pebblestore "github.com/JosiasAurel/scrapbook-v2/internal/storage/pebble"
	"github.com/JosiasAurel/scrapbook-v2/internal/store"
	"github.com/JosiasAurel/scrapbook-v2/pkg/id"
)

func newService(t *testing.T) *Service {
	t.Helper()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: t.TempDir(), Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return New(store.Open(db), bus.New(), nil, zerolog.Nop())
}

func mustNext[T any](t *testing.T, st *Stream[T]) Item[T] {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	item, err := st.Next(ctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	return item
}

func TestCreatePostRequiresIdentity(t *testing.T) {
	s := newService(t)
	_, err := s.CreatePost(context.Background(), auth.Identity{}, CreatePostInput{Text: "x"})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestCreatePostPublishesOncePerInsert(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	sub := s.bus.Subscribe(EventCreatePost)
	defer sub.Close()

	in := CreatePostInput{IDBase: "C123-1700000000.000100", Text: "hi", Source: "SLACK"}
	p, err := s.CreatePost(ctx, auth.Identity{UserID: "u1"}, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID != id.FromExternal(in.IDBase) {
		t.Fatalf("id not derived from external key: %s", p.ID)
	}

	// Upstream re-delivery of the same external key must not publish again.
	if _, err := s.CreatePost(ctx, auth.Identity{UserID: "u1"}, in); err != nil {
		t.Fatalf("redeliver: %v", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	evt, err := sub.Next(waitCtx)
	if err != nil {
		t.Fatalf("first event: %v", err)
	}
	if evt.Key != p.ID {
		t.Fatalf("wrong event key: %s", evt.Key)
	}

	dupCtx, cancel2 := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel2()
	if evt, err := sub.Next(dupCtx); err == nil {
		t.Fatalf("duplicate publish for re-delivered post: %+v", evt)
	}
}

type failingUploader struct{}

func (failingUploader) Upload(context.Context, []byte, string) (string, error) {
	return "", errors.New("bucket unreachable")
}

func (failingUploader) PresignPut(context.Context, string, string) (string, string, error) {
	return "", "", errors.New("bucket unreachable")
}

func TestCreatePostOmitsFailedAttachments(t *testing.T) {
	db, err := pebblestore.Open(pebblestore.Options{DataDir: t.TempDir(), Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	s := New(store.Open(db), bus.New(), failingUploader{}, zerolog.Nop())

	p, err := s.CreatePost(context.Background(), auth.Identity{UserID: "u1"}, CreatePostInput{
		Text:        "hi",
		Source:      "WEB",
		Attachments: []AttachmentUpload{{Data: []byte{1}, ContentType: "image/png"}},
	})
	if err != nil {
		t.Fatalf("create should survive upload failure: %v", err)
	}
	if len(p.Attachments) != 0 {
		t.Fatalf("failed attachment not omitted: %v", p.Attachments)
	}
}

func TestEditAndDeleteEnforceOwnership(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	p, err := s.CreatePost(ctx, auth.Identity{UserID: "owner"}, CreatePostInput{Text: "mine", Source: "WEB"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := s.EditPost(ctx, auth.Identity{UserID: "intruder"}, PostRef{ID: p.ID}, "stolen"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("edit by non-owner: %v", err)
	}
	if err := s.DeletePost(ctx, auth.Identity{UserID: "intruder"}, PostRef{ID: p.ID}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("delete by non-owner: %v", err)
	}

	up, err := s.EditPost(ctx, auth.Identity{UserID: "owner"}, PostRef{ID: p.ID}, "edited")
	if err != nil {
		t.Fatalf("edit by owner: %v", err)
	}
	if up.Text != "edited" || up.PostTime != p.PostTime {
		t.Fatalf("edit changed ordering key: %+v", up)
	}
	if err := s.DeletePost(ctx, auth.Identity{UserID: "owner"}, PostRef{ID: p.ID}); err != nil {
		t.Fatalf("delete by owner: %v", err)
	}
	if _, err := s.EditPost(ctx, auth.Identity{UserID: "owner"}, PostRef{ID: p.ID}, "gone"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("edit after delete: %v", err)
	}
}

func TestReactToMissingPost(t *testing.T) {
	s := newService(t)
	_, err := s.ReactToPost(context.Background(), auth.Identity{UserID: "u1"}, ReactInput{PostID: "nope", Kind: "fire"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReactPublishesOnlyFreshInserts(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	p, err := s.CreatePost(ctx, auth.Identity{UserID: "u1"}, CreatePostInput{Text: "x", Source: "WEB"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	sub := s.bus.Subscribe(EventReactToPost)
	defer sub.Close()

	in := ReactInput{PostID: p.ID, Kind: "fire", Payload: "🔥"}
	r1, err := s.ReactToPost(ctx, auth.Identity{UserID: "u2"}, in)
	if err != nil {
		t.Fatalf("react: %v", err)
	}
	r2, err := s.ReactToPost(ctx, auth.Identity{UserID: "u2"}, in)
	if err != nil {
		t.Fatalf("repeat react: %v", err)
	}
	if r2.ID != r1.ID {
		t.Fatalf("repeat react created a new reaction")
	}

	waitCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if _, err := sub.Next(waitCtx); err != nil {
		t.Fatalf("first event: %v", err)
	}
	dupCtx, cancel2 := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel2()
	if evt, err := sub.Next(dupCtx); err == nil {
		t.Fatalf("duplicate publish for repeated reaction: %+v", evt)
	}

	if err := s.UnreactToPost(ctx, auth.Identity{UserID: "u2"}, p.ID, "fire"); err != nil {
		t.Fatalf("unreact: %v", err)
	}
	if err := s.UnreactToPost(ctx, auth.Identity{UserID: "u2"}, p.ID, "fire"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second unreact: %v", err)
	}
}
