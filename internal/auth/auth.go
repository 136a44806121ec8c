package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/JosiasAurel/scrapbook-v2/internal/notify"
	"github.com/JosiasAurel/scrapbook-v2/internal/store"
	"github.com/JosiasAurel/scrapbook-v2/pkg/id"
)

// ErrUnauthorized means the request carried no valid credential.
var ErrUnauthorized = errors.New("auth: unauthorized")

// Identity is the resolved caller.
type Identity struct {
	UserID string
}

// Options tunes token lifetimes and link construction.
type Options struct {
	BaseURL       string
	LoginTokenTTL time.Duration
	SessionTTL    time.Duration
}

// Service implements the magic-link login flow over the store.
type Service struct {
	store  *store.Store
	mailer notify.Mailer
	opts   Options
	logger zerolog.Logger
}

// New wires the auth service.
func New(st *store.Store, mailer notify.Mailer, opts Options, logger zerolog.Logger) *Service {
	if opts.LoginTokenTTL <= 0 {
		opts.LoginTokenTTL = 15 * time.Minute
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 30 * 24 * time.Hour
	}
	return &Service{store: st, mailer: mailer, opts: opts, logger: logger}
}

// RequestLogin ensures the account exists, mints a single-use token, and
// mails the verification link.
func (s *Service) RequestLogin(ctx context.Context, email string) error {
	if _, err := s.store.EnsureUser(ctx, email, ""); err != nil {
		return err
	}
	token := id.New()
	v := store.Verification{
		Token:     token,
		Email:     email,
		ExpiresAt: time.Now().Add(s.opts.LoginTokenTTL).UnixMilli(),
	}
	if err := s.store.PutVerification(v); err != nil {
		return err
	}
	link := fmt.Sprintf("%s/v1/auth/verify?token=%s", s.opts.BaseURL, token)
	if err := s.mailer.Send(ctx, email, "Log into scrapbook", fmt.Sprintf("Click the link to log in: %s", link)); err != nil {
		// Mail delivery is a side effect; the token stays valid so the user
		// can retry.
		s.logger.Error().Err(err).Str("email", email).Msg("send magic link failed")
	}
	return nil
}

// Verify redeems a magic-link token and returns a session bearer token.
func (s *Service) Verify(ctx context.Context, token string) (string, error) {
	v, err := s.store.TakeVerification(token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrUnauthorized
		}
		return "", err
	}
	if time.Now().UnixMilli() > v.ExpiresAt {
		return "", ErrUnauthorized
	}
	u, err := s.store.EnsureUser(ctx, v.Email, "")
	if err != nil {
		return "", err
	}
	sess := store.Session{
		Token:     id.New(),
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(s.opts.SessionTTL).UnixMilli(),
	}
	if err := s.store.PutSession(sess); err != nil {
		return "", err
	}
	return sess.Token, nil
}

// Resolve maps a bearer token to an identity. Expired sessions are removed.
func (s *Service) Resolve(ctx context.Context, bearer string) (Identity, error) {
	if bearer == "" {
		return Identity{}, ErrUnauthorized
	}
	sess, err := s.store.GetSession(bearer)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Identity{}, ErrUnauthorized
		}
		return Identity{}, err
	}
	if time.Now().UnixMilli() > sess.ExpiresAt {
		_ = s.store.DeleteSession(bearer)
		return Identity{}, ErrUnauthorized
	}
	return Identity{UserID: sess.UserID}, nil
}
