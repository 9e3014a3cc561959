// Package session holds the cached credential and identity of the signed-in
// user and drives login, logout and registration against the API.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/innkeep/innkeep/pkg/domain"
)

// ErrNotAuthenticated is returned by operations that need a signed-in user.
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrSessionChanged is returned when a write was tied to a credential that
// is no longer the current one.
var ErrSessionChanged = errors.New("session changed")

// Store is the single source of truth for the credential. It satisfies
// client.CredentialSource, so the dispatcher reads the token from here on
// every call.
type Store struct {
	backend Backend

	mu    sync.RWMutex
	state State
}

// Open loads persisted state from backend. A state without a token is
// normalized to anonymous.
func Open(backend Backend) (*Store, error) {
	st, err := backend.Load()
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	if st.Token == "" {
		st = State{}
	}
	return &Store{backend: backend, state: st}, nil
}

// Credential returns the cached token, or "" when anonymous.
func (s *Store) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

// Identity returns the cached identity. UserID may be empty until resolved.
func (s *Store) Identity() (domain.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.Token == "" {
		return domain.Identity{}, false
	}
	return domain.Identity{Username: s.state.Username, UserID: s.state.UserID}, true
}

// snapshot returns the token and identity as one consistent read.
func (s *Store) snapshot() (string, domain.Identity) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token, domain.Identity{Username: s.state.Username, UserID: s.state.UserID}
}

// Authenticated reports whether a credential is cached.
func (s *Store) Authenticated() bool {
	return s.Credential() != ""
}

// Set replaces credential and identity together. Memory is only updated
// once the backend has accepted the new state.
func (s *Store) Set(token string, id domain.Identity) error {
	if token == "" {
		return errors.New("session: empty token")
	}
	next := State{Token: token, Username: id.Username, UserID: id.UserID}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.Save(next); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	s.state = next
	return nil
}

// SetUserID fills in the user id of the current session.
func (s *Store) SetUserID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Token == "" {
		return ErrNotAuthenticated
	}
	return s.saveUserID(id)
}

// SetUserIDIf fills in the user id only while token is still the cached
// credential. The check and the write happen under one lock.
func (s *Store) SetUserIDIf(token, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Token == "" {
		return ErrNotAuthenticated
	}
	if s.state.Token != token {
		return ErrSessionChanged
	}
	return s.saveUserID(id)
}

// saveUserID must be called with mu held.
func (s *Store) saveUserID(id string) error {
	next := s.state
	next.UserID = id
	if err := s.backend.Save(next); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	s.state = next
	return nil
}

// Clear drops credential and identity. Memory is cleared even when the
// backend fails, so a logout always takes effect for this process.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{}
	if err := s.backend.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
