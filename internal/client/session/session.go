// Package session owns the bearer token. A Session is created once per
// process and injected into the remote client; it persists the token in the
// local key-value store so a restart keeps the user signed in.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/fridgekeeper/internal/client/repositories/kv"
	"github.com/golang-jwt/jwt/v5"
)

const (
	KeyAccessToken = "access_token"
	KeyLoggedIn    = "is_logged_in"
)

// ErrUnauthenticated is returned when no usable token is present.
var ErrUnauthenticated = errors.New("unauthenticated")

type Session struct {
	store kv.Store
	now   func() time.Time

	mu     sync.RWMutex
	token  string
	loaded bool
}

func New(store kv.Store) *Session {
	return &Session{store: store, now: time.Now}
}

// Token returns the current token. A missing token, or a JWT whose exp claim
// has passed, yields ErrUnauthenticated. Tokens that are not JWTs are treated
// as opaque and never expire client-side.
func (s *Session) Token(ctx context.Context) (string, error) {
	tok, err := s.current(ctx)
	if err != nil {
		return "", err
	}
	if tok == "" {
		return "", ErrUnauthenticated
	}
	if exp, ok := expiry(tok); ok && !s.now().Before(exp) {
		return "", fmt.Errorf("%w: token expired at %s", ErrUnauthenticated, exp.Format(time.RFC3339))
	}
	return tok, nil
}

// LoggedIn reports whether a non-expired token is held.
func (s *Session) LoggedIn(ctx context.Context) bool {
	_, err := s.Token(ctx)
	return err == nil
}

// Set stores a new token, replacing any previous one.
func (s *Session) Set(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("%w: empty token", ErrUnauthenticated)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Set(ctx, KeyAccessToken, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	if err := s.store.Set(ctx, KeyLoggedIn, "1"); err != nil {
		return fmt.Errorf("failed to save session flag: %w", err)
	}
	s.token, s.loaded = token, true
	return nil
}

// Clear drops the token from memory and storage. The in-memory copy is
// cleared even if storage fails, so later calls fail fast.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token, s.loaded = "", true
	if err := s.store.DeleteMany(ctx, KeyLoggedIn, KeyAccessToken); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (s *Session) current(ctx context.Context) (string, error) {
	s.mu.RLock()
	if s.loaded {
		tok := s.token
		s.mu.RUnlock()
		return tok, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.token, nil
	}
	tok, _, err := s.store.Get(ctx, KeyAccessToken)
	if err != nil {
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	s.token, s.loaded = tok, true
	return tok, nil
}

// expiry reads the exp claim without verifying the signature; the backend
// remains the authority, this only avoids calls that are bound to fail.
func expiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
