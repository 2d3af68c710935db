// Package session holds the bearer credential for the current console session.
package session

import "sync"

// Session keeps at most one bearer credential. It is injected into every
// gateway client instead of living in a package-level variable, so concurrent
// calls read the token through a lock and logout never races a half-written
// string. No local expiry check is performed: an expired credential is only
// detected when the server rejects a call.
type Session struct {
	mu    sync.RWMutex
	token string
}

// New returns an empty session.
func New() *Session {
	return &Session{}
}

// Store replaces the held credential.
func (s *Session) Store(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// Token returns the held credential and whether one is present.
func (s *Session) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// IsAuthenticated reports whether a credential is held.
func (s *Session) IsAuthenticated() bool {
	_, ok := s.Token()
	return ok
}

// Clear removes the credential. Calls already in flight keep the token they
// attached at dispatch time.
func (s *Session) Clear() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}
