// Package session holds the credentials of the signed-in account, or the
// guest identity when none are stored.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pomovity/internal/model"
)

const (
	tokenKey = "token"
	userKey  = "user"
)

// Storage is the device storage the session persists its credentials in.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// Session holds the signed-in credentials. A session without a token is a
// guest session.
type Session struct {
	storage Storage

	mu    sync.RWMutex
	token string
	user  model.User
}

// Load restores persisted credentials. Without a stored token the session
// starts in guest mode.
func Load(ctx context.Context, storage Storage) (*Session, error) {
	s := &Session{storage: storage, user: model.GuestUser}

	token, ok, err := storage.Get(ctx, tokenKey)
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	if !ok || token == "" {
		return s, nil
	}
	s.token = token

	raw, ok, err := storage.Get(ctx, userKey)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	s.user = model.User{}
	if ok {
		if err := json.Unmarshal([]byte(raw), &s.user); err != nil {
			log.Printf("[warn] stored user is malformed: %v", err)
		}
	}

	if exp, ok := s.ExpiresAt(); ok && time.Now().After(exp) {
		log.Printf("[warn] stored token expired at %s, log in again", exp.Format(time.RFC3339))
	}
	return s, nil
}

// IsGuest reports whether no auth token is present.
func (s *Session) IsGuest() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token == ""
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) User() model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Login stores fresh credentials and leaves guest mode.
func (s *Session) Login(ctx context.Context, token string, user model.User) error {
	if token == "" {
		return fmt.Errorf("login: empty token")
	}
	user.IsGuest = false
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.storage.Set(ctx, tokenKey, token); err != nil {
		return err
	}
	if err := s.storage.Set(ctx, userKey, string(raw)); err != nil {
		return err
	}

	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()
	return nil
}

// UpdateUser replaces the cached profile of a signed-in account.
func (s *Session) UpdateUser(ctx context.Context, user model.User) error {
	if s.IsGuest() {
		return fmt.Errorf("update user: not signed in")
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.storage.Set(ctx, userKey, string(raw)); err != nil {
		return err
	}
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	return nil
}

// Logout clears the credentials and reverts to the guest identity.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.user = model.GuestUser
	s.mu.Unlock()

	if err := s.storage.Delete(ctx, tokenKey, userKey); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// ExpiresAt reads the exp claim of the stored token without verifying its
// signature; only the server can do that.
func (s *Session) ExpiresAt() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
