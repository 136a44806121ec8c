package store

import (
	"errors"
	"sync"
	"time"

	pebblestore "github.com/JosiasAurel/scrapbook-v2/internal/storage/pebble"
)

// ErrNotFound is returned when the referenced entity does not exist.
var ErrNotFound = errors.New("store: not found")

// Store is the durable store for posts, reactions, users, and sessions.
type Store struct {
	db *pebblestore.DB

	// mu serializes all writes; see the package doc for why.
	mu    sync.Mutex
	clock orderingClock

	onPostInsert     func(Post)
	onReactionInsert func(Reaction)
}

// Open wraps an opened database.
func Open(db *pebblestore.DB) *Store {
	return &Store{db: db}
}

// OnPostInsert registers fn to run after each fresh post commit, while the
// write mutex is still held. Listeners therefore observe inserts in
// ordering-key order; a later commit cannot announce itself before an
// earlier one. fn must not block and must not call back into the store.
func (s *Store) OnPostInsert(fn func(Post)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onPostInsert = fn
}

// OnReactionInsert is the reaction counterpart of OnPostInsert.
func (s *Store) OnReactionInsert(fn func(Reaction)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onReactionInsert = fn
}

// orderingClock hands out strictly increasing millisecond timestamps. If the
// wall clock regresses or repeats within a millisecond, it pins to the last
// value plus one. Callers must hold the store mutex.
type orderingClock struct {
	lastMs int64
}

func (c *orderingClock) next() int64 {
	now := time.Now().UnixMilli()
	if now <= c.lastMs {
		c.lastMs++
	} else {
		c.lastMs = now
	}
	return c.lastMs
}
