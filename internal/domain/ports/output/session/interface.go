package session_store

import (
	"context"
	"time"
)

// Store keeps the live sessions; a session id missing from the store is revoked or expired.
//
//go:generate mockery --name Store --dir . --output ../../../../../mocks/session --outpkg mocks --filename SessionStore.go
type Store interface {
	Save(ctx context.Context, sessionID string, userID int64, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (int64, error)
	Delete(ctx context.Context, sessionID string) error
}
