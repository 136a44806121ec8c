package store

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/pebble"

	pebblestore "github.com/JosiasAurel/scrapbook-v2/internal/storage/pebble"
	"github.com/JosiasAurel/scrapbook-v2/pkg/id"
)

// Post is a feed update. PostTime is the ordering key; it is assigned by the
// store at commit and never changes afterwards.
type Post struct {
	ID          string   `json:"id"`
	UserID      string   `json:"userId"`
	PostTime    int64    `json:"postTime"`
	Text        string   `json:"text"`
	Attachments []string `json:"attachments,omitempty"`
	Source      string   `json:"source"`
}

// InsertPost commits p, assigning its id (when empty) and its ordering key.
// Re-inserting an existing id (idempotent upstream re-delivery) returns the
// stored post unchanged with inserted=false.
func (s *Store) InsertPost(ctx context.Context, p Post) (Post, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = id.New()
	} else if existing, err := s.getPost(p.ID); err == nil {
		return existing, false, nil
	}
	p.PostTime = s.clock.next()

	val, err := json.Marshal(p)
	if err != nil {
		return Post{}, false, err
	}
	b := s.db.NewBatch()
	defer b.Close()
	if err := b.Set(keyPostByID(p.ID), val, nil); err != nil {
		return Post{}, false, err
	}
	if err := b.Set(keyPostByTime(p.PostTime), []byte(p.ID), nil); err != nil {
		return Post{}, false, err
	}
	if err := s.db.CommitBatch(ctx, b); err != nil {
		return Post{}, false, err
	}
	if s.onPostInsert != nil {
		s.onPostInsert(p)
	}
	return p, true, nil
}

// GetPost looks up a post by id.
func (s *Store) GetPost(id string) (Post, error) {
	return s.getPost(id)
}

func (s *Store) getPost(id string) (Post, error) {
	raw, err := s.db.Get(keyPostByID(id))
	if err != nil {
		if pebblestore.IsNotFound(err) {
			return Post{}, ErrNotFound
		}
		return Post{}, err
	}
	var p Post
	if err := json.Unmarshal(raw, &p); err != nil {
		return Post{}, err
	}
	return p, nil
}

// UpdatePost replaces the text and attachments of an existing post. Identity
// and ordering key are immutable.
func (s *Store) UpdatePost(ctx context.Context, postID, text string, attachments []string) (Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.getPost(postID)
	if err != nil {
		return Post{}, err
	}
	p.Text = text
	if attachments != nil {
		p.Attachments = attachments
	}
	val, err := json.Marshal(p)
	if err != nil {
		return Post{}, err
	}
	if err := s.db.Set(keyPostByID(p.ID), val); err != nil {
		return Post{}, err
	}
	return p, nil
}

// DeletePost removes a post, its ordering index entry, and its reactions in
// one batch.
func (s *Store) DeletePost(ctx context.Context, postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.getPost(postID)
	if err != nil {
		return err
	}
	b := s.db.NewBatch()
	defer b.Close()
	if err := b.Delete(keyPostByID(p.ID), nil); err != nil {
		return err
	}
	if err := b.Delete(keyPostByTime(p.PostTime), nil); err != nil {
		return err
	}
	if err := s.cascadeReactions(b, p.ID); err != nil {
		return err
	}
	return s.db.CommitBatch(ctx, b)
}

// ScanPostsAfter returns posts whose ordering key is strictly greater than
// after, in ascending ordering-key order. limit <= 0 means no limit.
func (s *Store) ScanPostsAfter(after int64, limit int) ([]Post, error) {
	low := keyPostByTime(after + 1)
	hi := prefixEnd([]byte("post/ts/"))
	iter, err := s.db.NewIter(&pebble.IterOptions{LowerBound: low, UpperBound: hi})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []Post
	for ok := iter.First(); ok && (limit <= 0 || len(out) < limit); ok = iter.Next() {
		p, err := s.getPost(string(iter.Value()))
		if err != nil {
			if err == ErrNotFound {
				continue
			}
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// MaxPostTime returns the highest ordering key currently stored, or 0 when
// the store holds no posts.
func (s *Store) MaxPostTime() (int64, error) {
	return s.maxIndexed([]byte("post/ts/"))
}

// RecentPosts returns up to limit posts newest first.
func (s *Store) RecentPosts(limit int) ([]Post, error) {
	low := []byte("post/ts/")
	iter, err := s.db.NewIter(&pebble.IterOptions{LowerBound: low, UpperBound: prefixEnd(low)})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []Post
	for ok := iter.Last(); ok && (limit <= 0 || len(out) < limit); ok = iter.Prev() {
		p, err := s.getPost(string(iter.Value()))
		if err != nil {
			if err == ErrNotFound {
				continue
			}
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Store) maxIndexed(prefix []byte) (int64, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{LowerBound: prefix, UpperBound: prefixEnd(prefix)})
	if err != nil {
		return 0, err
	}
	defer iter.Close()
	if !iter.Last() {
		return 0, nil
	}
	key := iter.Key()
	var ts int64
	for _, c := range key[len(prefix):] {
		ts = ts<<8 | int64(c)
	}
	return ts, nil
}
