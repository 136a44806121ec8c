package store

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/pebble"

	pebblestore "github.com/JosiasAurel/scrapbook-v2/internal/storage/pebble"
	"github.com/JosiasAurel/scrapbook-v2/pkg/id"
)

// Reaction records one user's reaction of a given kind on one post.
// ReactionTime is the ordering key, same contract as Post.PostTime.
type Reaction struct {
	ID           string `json:"id"`
	UpdateID     string `json:"updateId"`
	UserID       string `json:"userId"`
	Kind         string `json:"kind"`
	Payload      string `json:"payload"`
	ReactionTime int64  `json:"reactionTime"`
}

// InsertReaction commits r unless a reaction of the same kind by the same
// user on the same update already exists. The uniqueness check and the
// insert happen under the store's write mutex, so concurrent identical
// requests store exactly one reaction. The second return reports whether a
// new reaction was inserted.
func (s *Store) InsertReaction(ctx context.Context, r Reaction) (Reaction, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pairKey := keyReactionPair(r.UpdateID, r.UserID, r.Kind)
	if existingID, err := s.db.Get(pairKey); err == nil {
		existing, err := s.getReaction(string(existingID))
		if err != nil {
			return Reaction{}, false, err
		}
		return existing, false, nil
	} else if !pebblestore.IsNotFound(err) {
		return Reaction{}, false, err
	}

	if r.ID == "" {
		r.ID = id.New()
	}
	r.ReactionTime = s.clock.next()

	val, err := json.Marshal(r)
	if err != nil {
		return Reaction{}, false, err
	}
	b := s.db.NewBatch()
	defer b.Close()
	if err := b.Set(keyReactionByID(r.ID), val, nil); err != nil {
		return Reaction{}, false, err
	}
	if err := b.Set(keyReactionByTime(r.ReactionTime), []byte(r.ID), nil); err != nil {
		return Reaction{}, false, err
	}
	if err := b.Set(pairKey, []byte(r.ID), nil); err != nil {
		return Reaction{}, false, err
	}
	if err := s.db.CommitBatch(ctx, b); err != nil {
		return Reaction{}, false, err
	}
	if s.onReactionInsert != nil {
		s.onReactionInsert(r)
	}
	return r, true, nil
}

// RemoveReaction deletes the (update, user, kind) reaction if present.
func (s *Store) RemoveReaction(ctx context.Context, updateID, userID, kind string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pairKey := keyReactionPair(updateID, userID, kind)
	reactionID, err := s.db.Get(pairKey)
	if err != nil {
		if pebblestore.IsNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	r, err := s.getReaction(string(reactionID))
	if err != nil {
		return err
	}
	b := s.db.NewBatch()
	defer b.Close()
	if err := b.Delete(keyReactionByID(r.ID), nil); err != nil {
		return err
	}
	if err := b.Delete(keyReactionByTime(r.ReactionTime), nil); err != nil {
		return err
	}
	if err := b.Delete(pairKey, nil); err != nil {
		return err
	}
	return s.db.CommitBatch(ctx, b)
}

// GetReaction looks up a reaction by id.
func (s *Store) GetReaction(id string) (Reaction, error) {
	return s.getReaction(id)
}

func (s *Store) getReaction(id string) (Reaction, error) {
	raw, err := s.db.Get(keyReactionByID(id))
	if err != nil {
		if pebblestore.IsNotFound(err) {
			return Reaction{}, ErrNotFound
		}
		return Reaction{}, err
	}
	var r Reaction
	if err := json.Unmarshal(raw, &r); err != nil {
		return Reaction{}, err
	}
	return r, nil
}

// ScanReactionsAfter returns reactions with ordering key strictly greater
// than after, ascending. limit <= 0 means no limit.
func (s *Store) ScanReactionsAfter(after int64, limit int) ([]Reaction, error) {
	low := keyReactionByTime(after + 1)
	hi := prefixEnd([]byte("react/ts/"))
	iter, err := s.db.NewIter(&pebble.IterOptions{LowerBound: low, UpperBound: hi})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []Reaction
	for ok := iter.First(); ok && (limit <= 0 || len(out) < limit); ok = iter.Next() {
		r, err := s.getReaction(string(iter.Value()))
		if err != nil {
			if err == ErrNotFound {
				continue
			}
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// MaxReactionTime returns the highest reaction ordering key, or 0 when none.
func (s *Store) MaxReactionTime() (int64, error) {
	return s.maxIndexed([]byte("react/ts/"))
}

// cascadeReactions queues deletion of every reaction on updateID into b.
// Caller holds the store mutex.
func (s *Store) cascadeReactions(b *pebble.Batch, updateID string) error {
	prefix := keyReactionPairPrefix(updateID)
	iter, err := s.db.NewIter(&pebble.IterOptions{LowerBound: prefix, UpperBound: prefixEnd(prefix)})
	if err != nil {
		return err
	}
	defer iter.Close()
	for ok := iter.First(); ok; ok = iter.Next() {
		r, err := s.getReaction(string(iter.Value()))
		if err != nil {
			if err == ErrNotFound {
				continue
			}
			return err
		}
		if err := b.Delete(keyReactionByID(r.ID), nil); err != nil {
			return err
		}
		if err := b.Delete(keyReactionByTime(r.ReactionTime), nil); err != nil {
			return err
		}
		if err := b.Delete(append([]byte(nil), iter.Key()...), nil); err != nil {
			return err
		}
	}
	return nil
}
