package store

import (
	"context"
	"encoding/json"
	"time"

	pebblestore "github.com/JosiasAurel/scrapbook-v2/internal/storage/pebble"
	"github.com/JosiasAurel/scrapbook-v2/pkg/id"
)

// User is an account. Email is unique.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}

// EnsureUser returns the user for email, creating one if absent.
func (s *Store) EnsureUser(ctx context.Context, email, name string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existingID, err := s.db.Get(keyUserByEmail(email)); err == nil {
		return s.getUser(string(existingID))
	} else if !pebblestore.IsNotFound(err) {
		return User{}, err
	}

	u := User{ID: id.New(), Email: email, Name: name, CreatedAt: time.Now().UnixMilli()}
	val, err := json.Marshal(u)
	if err != nil {
		return User{}, err
	}
	b := s.db.NewBatch()
	defer b.Close()
	if err := b.Set(keyUserByID(u.ID), val, nil); err != nil {
		return User{}, err
	}
	if err := b.Set(keyUserByEmail(u.Email), []byte(u.ID), nil); err != nil {
		return User{}, err
	}
	if err := s.db.CommitBatch(ctx, b); err != nil {
		return User{}, err
	}
	return u, nil
}

// GetUser looks up a user by id.
func (s *Store) GetUser(id string) (User, error) {
	return s.getUser(id)
}

func (s *Store) getUser(id string) (User, error) {
	raw, err := s.db.Get(keyUserByID(id))
	if err != nil {
		if pebblestore.IsNotFound(err) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	var u User
	if err := json.Unmarshal(raw, &u); err != nil {
		return User{}, err
	}
	return u, nil
}
