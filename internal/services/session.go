package services

import (
	"sync"

	"github.com/Ananth-NQI/medeasy-backend/internal/models"
)

// SessionStore keeps in-progress collection sessions by session key
type SessionStore interface {
	Get(key string) (*models.Session, bool)
	Set(session *models.Session)
	Delete(key string)
	Count() int
}

// SessionManager is the in-memory SessionStore.
// Sessions live until completed or the process restarts; there is no expiry.
type SessionManager struct {
	sessions map[string]*models.Session
	mu       sync.RWMutex
}

// NewSessionManager creates a new session manager
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*models.Session),
	}
}

// Get returns a copy of the session for key
func (sm *SessionManager) Get(key string) (*models.Session, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.sessions[key]
	if !exists {
		return nil, false
	}
	return session.Clone(), true
}

// Set stores a session, replacing whatever was there for the same key.
// A session that is not mid-collection is removed instead of stored.
// Two racing writers for one key: last write wins.
func (sm *SessionManager) Set(session *models.Session) {
	if session == nil {
		return
	}
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !session.Step.Collecting() {
		delete(sm.sessions, session.Key)
		return
	}
	sm.sessions[session.Key] = session.Clone()
}

// Delete removes the session for key, if any
func (sm *SessionManager) Delete(key string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.sessions, key)
}

// Count returns the number of sessions currently mid-collection
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return len(sm.sessions)
}
