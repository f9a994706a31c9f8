package memory

import (
	"context"
	"sync"
	"time"

	"yatube-post-service/internal/custom_errors"
)

type entry struct {
	userID    int64
	expiresAt time.Time
}

type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]entry
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]entry),
		now:      time.Now,
	}
}

func (s *SessionStore) Save(ctx context.Context, sessionID string, userID int64, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sessionID] = entry{userID: userID, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, sessionID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[sessionID]
	if !ok {
		return 0, custom_errors.ErrSessionNotFound
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.sessions, sessionID)
		return 0, custom_errors.ErrSessionNotFound
	}
	return e.userID, nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	return nil
}
