package memory

import (
	"context"
	"log/slog"

	"yatube-post-service/internal/custom_errors"
	model "yatube-post-service/internal/domain/models"
	ports "yatube-post-service/internal/domain/ports/output"

	"github.com/jackc/pgx/v5/pgtype"
)

type UserRepository struct {
	log     ports.Logger
	storage *Storage
}

func NewUserRepository(storage *Storage, log ports.Logger) *UserRepository {
	return &UserRepository{log: log, storage: storage}
}

func (u *UserRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	s := u.storage
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username {
			u.log.Debug("Username already taken", slog.String("username", user.Username))
			return nil, custom_errors.ErrUsernameTaken
		}
	}

	newUser := &model.User{
		ID:           s.nextUserID,
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		CreatedAt:    pgtype.Timestamptz{Time: s.now(), Valid: true},
	}
	s.nextUserID++
	s.users[newUser.ID] = newUser

	result := *newUser
	return &result, nil
}

func (u *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	s := u.storage
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, custom_errors.ErrUserNotFound
	}
	result := *user
	return &result, nil
}

func (u *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	s := u.storage
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			result := *user
			return &result, nil
		}
	}
	u.log.Debug("User not found", slog.String("username", username))
	return nil, custom_errors.ErrUserNotFound
}
