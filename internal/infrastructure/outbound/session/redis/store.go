package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"yatube-post-service/internal/custom_errors"
	ports "yatube-post-service/internal/domain/ports/output"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

type SessionStore struct {
	client redis.Cmdable
	log    ports.Logger
}

func NewSessionStore(client redis.Cmdable, log ports.Logger) *SessionStore {
	return &SessionStore{client: client, log: log}
}

func (s *SessionStore) Save(ctx context.Context, sessionID string, userID int64, ttl time.Duration) error {
	key := sessionKey(sessionID)
	if err := s.client.Set(ctx, key, strconv.FormatInt(userID, 10), ttl).Err(); err != nil {
		s.log.Error("Failed to save session",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %v", custom_errors.ErrSessionStore, err)
	}

	s.log.Debug("Session saved", slog.Int64("user_id", userID), slog.Duration("ttl", ttl))
	return nil
}

func (s *SessionStore) Get(ctx context.Context, sessionID string) (int64, error) {
	val, err := s.client.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			s.log.Debug("Session not found")
			return 0, custom_errors.ErrSessionNotFound
		}
		s.log.Error("Failed to get session", slog.String("error", err.Error()))
		return 0, fmt.Errorf("%w: %v", custom_errors.ErrSessionStore, err)
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		s.log.Error("Corrupted session value", slog.String("error", err.Error()))
		return 0, custom_errors.ErrSessionNotFound
	}
	return userID, nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	deleted, err := s.client.Del(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		s.log.Error("Failed to delete session", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %v", custom_errors.ErrSessionStore, err)
	}

	if deleted == 0 {
		s.log.Debug("Session already gone")
	} else {
		s.log.Debug("Session deleted")
	}
	return nil
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}
