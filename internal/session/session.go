// Package session holds server-side login sessions in memory. Tokens are
// opaque UUIDs handed to clients in a cookie; a process restart logs
// everyone out. The Manager implements cache.Cleaner so the shared sweep
// loop drops expired sessions.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is one server-side login session.
type Session struct {
	Token     string
	UserID    int64
	ExpiresAt time.Time
}

type Manager struct {
	mu       sync.RWMutex
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time
}

func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create starts a session for the user.
func (m *Manager) Create(userID int64) Session {
	s := Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: m.now().Add(m.ttl),
	}

	m.mu.Lock()
	m.sessions[s.Token] = s
	m.mu.Unlock()

	return s
}

// Lookup resolves a token. Expired sessions are dropped on sight.
func (m *Manager) Lookup(token string) (Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[token]
	m.mu.RUnlock()

	if !ok {
		return Session{}, false
	}
	if m.now().After(s.ExpiresAt) {
		m.Destroy(token)
		return Session{}, false
	}
	return s, true
}

// Destroy invalidates a token server-side.
func (m *Manager) Destroy(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

// CleanExpired implements cache.Cleaner.
func (m *Manager) CleanExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for token, s := range m.sessions {
		if now.After(s.ExpiresAt) {
			delete(m.sessions, token)
			removed++
		}
	}
	return removed
}

// Count returns the number of sessions currently held, swept or not.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
