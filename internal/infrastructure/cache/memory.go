package cache

import (
	"sync"
	"time"

	"github.com/prasetyadev/notulen-assistant/internal/domain/entities"
)

// SessionStore is an in-memory store for session snapshots with expiration.
// Sessions live only here; nothing is persisted across restarts.
type SessionStore struct {
	mu    sync.RWMutex
	ttl   time.Duration
	items map[string]*sessionItem
}

type sessionItem struct {
	session    *entities.MinutesSession
	expireTime time.Time
}

// NewSessionStore creates a new in-memory session store
func NewSessionStore(ttl time.Duration) *SessionStore {
	store := &SessionStore{
		ttl:   ttl,
		items: make(map[string]*sessionItem),
	}

	// Start cleanup goroutine to remove expired sessions
	go store.cleanupExpired()

	return store
}

// Put stores a session snapshot, refreshing its expiry
func (ss *SessionStore) Put(session *entities.MinutesSession) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	ss.items[session.ID.String()] = &sessionItem{
		session:    session,
		expireTime: time.Now().Add(ss.ttl),
	}
}

// Get retrieves a session by ID (misses on unknown or expired sessions)
func (ss *SessionStore) Get(id string) (*entities.MinutesSession, bool) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	item, exists := ss.items[id]
	if !exists {
		return nil, false
	}

	if time.Now().After(item.expireTime) {
		return nil, false
	}

	return item.session, true
}

// Delete removes a session
func (ss *SessionStore) Delete(id string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	delete(ss.items, id)
}

// Len reports the number of live (unexpired) sessions
func (ss *SessionStore) Len() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	now := time.Now()
	n := 0
	for _, item := range ss.items {
		if now.Before(item.expireTime) {
			n++
		}
	}
	return n
}

// cleanupExpired periodically removes expired sessions
func (ss *SessionStore) cleanupExpired() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		ss.mu.Lock()
		now := time.Now()
		for id, item := range ss.items {
			if now.After(item.expireTime) {
				delete(ss.items, id)
			}
		}
		ss.mu.Unlock()
	}
}
