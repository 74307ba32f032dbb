// Package session tracks the single authenticated identity of the
// process. This is a one-operator terminal, not a multi-tenant server:
// exactly one session exists, holding zero or one logged-in user.
package session

import (
	"sync"

	"github.com/shashiranjanraj/bazaar/app/models"
)

// Session is the mutable login slot. Construct with New and inject it
// wherever the current identity is needed.
type Session struct {
	mu      sync.RWMutex
	current *models.User
}

func New() *Session {
	return &Session{}
}

// Login replaces the current identity unconditionally. Credentials must
// already have been verified by the caller.
func (s *Session) Login(u models.User) {
	s.mu.Lock()
	s.current = &u
	s.mu.Unlock()
}

// Logout clears the current identity.
func (s *Session) Logout() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

// Current returns the logged-in user, if any.
func (s *Session) Current() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return models.User{}, false
	}
	return *s.current, true
}

// IsAuthenticated reports whether a user is logged in.
func (s *Session) IsAuthenticated() bool {
	_, ok := s.Current()
	return ok
}

// IsBanned reports whether the logged-in user is banned. It is false
// when nobody is logged in.
func (s *Session) IsBanned() bool {
	u, ok := s.Current()
	return ok && u.Banned
}
