package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/matst80/slask-storefront/pkg/browse"
	"github.com/matst80/slask-storefront/pkg/common"
)

type session struct {
	page     *browse.Page
	lastSeen time.Time
}

// SessionStore keeps browse pages in memory until they have been idle for
// longer than the ttl.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *SessionStore) Add(id string, page *browse.Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		activeSessions.Inc()
	}
	s.sessions[id] = &session{page: page, lastSeen: s.now()}
}

// Get returns the page for id and marks it as used.
func (s *SessionStore) Get(id string) (*browse.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, common.ErrNotFound)
	}
	sess.lastSeen = s.now()
	return sess.page, nil
}

func (s *SessionStore) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	activeSessions.Dec()
	return true
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than the ttl and returns how many
// were removed.
func (s *SessionStore) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	deadline := s.now().Add(-s.ttl)
	removed := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(deadline) {
			delete(s.sessions, id)
			removed++
		}
	}
	activeSessions.Sub(float64(removed))
	expiredSessions.Add(float64(removed))
	return removed
}

// Run sweeps every interval until ctx is done.
func (s *SessionStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
