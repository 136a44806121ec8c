package store

import (
	"encoding/json"

	pebblestore "github.com/JosiasAurel/scrapbook-v2/internal/storage/pebble"
)

// Session maps a bearer token to a user until ExpiresAt (ms).
type Session struct {
	Token     string `json:"token"`
	UserID    string `json:"userId"`
	ExpiresAt int64  `json:"expiresAt"`
}

// Verification is a pending magic-link login token.
type Verification struct {
	Token     string `json:"token"`
	Email     string `json:"email"`
	ExpiresAt int64  `json:"expiresAt"`
}

// PutSession stores a session.
func (s *Store) PutSession(sess Session) error {
	val, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.db.Set(keySession(sess.Token), val)
}

// GetSession looks up a session by token.
func (s *Store) GetSession(token string) (Session, error) {
	raw, err := s.db.Get(keySession(token))
	if err != nil {
		if pebblestore.IsNotFound(err) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// DeleteSession removes a session token.
func (s *Store) DeleteSession(token string) error {
	return s.db.Delete(keySession(token))
}

// PutVerification stores a pending magic-link token.
func (s *Store) PutVerification(v Verification) error {
	val, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Set(keyVerification(v.Token), val)
}

// TakeVerification claims a magic-link token: it is returned once and
// deleted in the same critical section, so a token cannot be redeemed twice.
func (s *Store) TakeVerification(token string) (Verification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.db.Get(keyVerification(token))
	if err != nil {
		if pebblestore.IsNotFound(err) {
			return Verification{}, ErrNotFound
		}
		return Verification{}, err
	}
	var v Verification
	if err := json.Unmarshal(raw, &v); err != nil {
		return Verification{}, err
	}
	if err := s.db.Delete(keyVerification(token)); err != nil {
		return Verification{}, err
	}
	return v, nil
}
