// ABOUTME: Session carries the authenticated identity for one CLI or MCP run.
// ABOUTME: Stores branch into guest (local-only) mode when no user is present.
package session

import (
	"errors"
	"sync"
)

// ErrGuest is returned by write operations that require an authenticated user.
var ErrGuest = errors.New("not signed in: guest mode is local-only")

// Identity supplies the current user id, or false when running as a guest.
type Identity interface {
	UserID() (string, bool)
}

// Session is created at startup and ended on shutdown.
// An ended session reports guest mode.
type Session struct {
	mu     sync.RWMutex
	userID string
	ended  bool
}

// New creates a session for the given user. An empty id means guest.
func New(userID string) *Session {
	return &Session{userID: userID}
}

// Guest creates a session with no authenticated identity.
func Guest() *Session {
	return &Session{}
}

// UserID returns the signed-in user's id, or false for guests.
func (s *Session) UserID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ended || s.userID == "" {
		return "", false
	}
	return s.userID, true
}

// IsGuest reports whether the session has no authenticated identity.
func (s *Session) IsGuest() bool {
	_, ok := s.UserID()
	return !ok
}

// End disposes of the session. Further calls see a guest.
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ended = true
}
