package store

import (
	"context"
	"sync"
	"testing"

	pebblestore "github.com/JosiasAurel/scrapbook-v2/internal/storage/pebble"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: t.TempDir(), Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return Open(db)
}

func TestInsertAssignsStrictlyIncreasingOrderingKeys(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	var last int64
	for i := 0; i < 50; i++ {
		p, _, err := s.InsertPost(ctx, Post{UserID: "u1", Text: "x", Source: "TEST"})
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		if p.PostTime <= last {
			t.Fatalf("ordering key regressed: %d after %d", p.PostTime, last)
		}
		last = p.PostTime
	}
}

func TestInsertWithExistingIDIsIdempotent(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	p1, _, err := s.InsertPost(ctx, Post{ID: "ext-1", UserID: "u1", Text: "first", Source: "SLACK"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	p2, _, err := s.InsertPost(ctx, Post{ID: "ext-1", UserID: "u1", Text: "redelivered", Source: "SLACK"})
	if err != nil {
		t.Fatalf("reinsert: %v", err)
	}
	if p2.Text != "first" || p2.PostTime != p1.PostTime {
		t.Fatalf("re-delivery mutated stored post: %+v", p2)
	}
	if max, _ := s.MaxPostTime(); max != p1.PostTime {
		t.Fatalf("duplicate index entry: max=%d want %d", max, p1.PostTime)
	}
}

func TestInsertHookRunsInOrderingKeyOrder(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	// The hook runs under the write mutex, so invocations are serialized and
	// must observe strictly increasing ordering keys even when inserts race.
	var seen []int64
	s.OnPostInsert(func(p Post) { seen = append(seen, p.PostTime) })

	const n = 32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := s.InsertPost(ctx, Post{UserID: "u1", Text: "x", Source: "TEST"}); err != nil {
				t.Errorf("insert: %v", err)
			}
		}()
	}
	wg.Wait()

	if len(seen) != n {
		t.Fatalf("hook ran %d times, want %d", len(seen), n)
	}
	for i := 1; i < len(seen); i++ {
		if seen[i] <= seen[i-1] {
			t.Fatalf("hook observed inverted ordering keys: %d after %d", seen[i], seen[i-1])
		}
	}
}

func TestScanPostsAfterIsStrict(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	var posts []Post
	for i := 0; i < 3; i++ {
		p, _, err := s.InsertPost(ctx, Post{UserID: "u1", Text: "x", Source: "TEST"})
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		posts = append(posts, p)
	}

	got, err := s.ScanPostsAfter(posts[0].PostTime, 0)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(got) != 2 || got[0].ID != posts[1].ID || got[1].ID != posts[2].ID {
		t.Fatalf("wrong scan result: %+v", got)
	}

	all, err := s.ScanPostsAfter(0, 0)
	if err != nil {
		t.Fatalf("scan all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 posts, got %d", len(all))
	}
}

func TestMaxPostTimeEmptyStore(t *testing.T) {
	s := newStore(t)
	max, err := s.MaxPostTime()
	if err != nil {
		t.Fatalf("max: %v", err)
	}
	if max != 0 {
		t.Fatalf("expected empty sentinel 0, got %d", max)
	}
}

func TestUpdatePostKeepsOrderingKey(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	p, _, err := s.InsertPost(ctx, Post{UserID: "u1", Text: "before", Source: "TEST"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	up, err := s.UpdatePost(ctx, p.ID, "after", nil)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if up.Text != "after" || up.PostTime != p.PostTime {
		t.Fatalf("update changed ordering key: %+v", up)
	}
}

func TestDeletePostCascadesReactions(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	p, _, err := s.InsertPost(ctx, Post{UserID: "u1", Text: "x", Source: "TEST"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	r, inserted, err := s.InsertReaction(ctx, Reaction{UpdateID: p.ID, UserID: "u2", Kind: "fire", Payload: "🔥"})
	if err != nil || !inserted {
		t.Fatalf("react: %v inserted=%v", err, inserted)
	}
	if err := s.DeletePost(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetPost(p.ID); err != ErrNotFound {
		t.Fatalf("post survived delete: %v", err)
	}
	if _, err := s.GetReaction(r.ID); err != ErrNotFound {
		t.Fatalf("reaction survived cascade: %v", err)
	}
	if max, _ := s.MaxReactionTime(); max != 0 {
		t.Fatalf("reaction index survived cascade")
	}
}
