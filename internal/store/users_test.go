package store

import (
	"context"
	"testing"
	"time"
)

func TestEnsureUserIsIdempotentByEmail(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	u1, err := s.EnsureUser(ctx, "a@example.com", "A")
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	u2, err := s.EnsureUser(ctx, "a@example.com", "other name")
	if err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	if u1.ID != u2.ID {
		t.Fatalf("same email produced two users")
	}
}

func TestVerificationSingleUse(t *testing.T) {
	s := newStore(t)
	v := Verification{Token: "tok", Email: "a@example.com", ExpiresAt: time.Now().Add(time.Minute).UnixMilli()}
	if err := s.PutVerification(v); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := s.TakeVerification("tok")
	if err != nil || got.Email != v.Email {
		t.Fatalf("take: %+v %v", got, err)
	}
	if _, err := s.TakeVerification("tok"); err != ErrNotFound {
		t.Fatalf("token redeemable twice: %v", err)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	s := newStore(t)
	sess := Session{Token: "t1", UserID: "u1", ExpiresAt: time.Now().Add(time.Hour).UnixMilli()}
	if err := s.PutSession(sess); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := s.GetSession("t1")
	if err != nil || got.UserID != "u1" {
		t.Fatalf("get: %+v %v", got, err)
	}
	if err := s.DeleteSession("t1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetSession("t1"); err != ErrNotFound {
		t.Fatalf("session survived delete: %v", err)
	}
}
