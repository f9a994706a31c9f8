package user_repository_postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"yatube-post-service/internal/custom_errors"
	model "yatube-post-service/internal/domain/models"
	ports "yatube-post-service/internal/domain/ports/output"
	"yatube-post-service/internal/infrastructure/outbound/repository/postgres/db"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type UserRepository struct {
	log     ports.Logger
	db      db.PgDB
	metrics ports.MetricsProvider
}

func NewUserRepository(db db.PgDB, log ports.Logger, metrics ports.MetricsProvider) *UserRepository {
	return &UserRepository{db: db, log: log, metrics: metrics}
}

func (u *UserRepository) observe(queryType string, start time.Time, success bool) {
	u.metrics.IncrementDatabaseQueries(queryType, success)
	u.metrics.RecordDatabaseQueryDuration(queryType, time.Since(start))
}

func (u *UserRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	start := time.Now()
	u.log.Debug("Creating user", slog.String("username", user.Username))

	args := pgx.NamedArgs{
		"username":      user.Username,
		"password_hash": user.PasswordHash,
		"created_at":    pgtype.Timestamptz{Time: time.Now(), Valid: true},
	}
	query := `INSERT INTO users (username, password_hash, created_at)
		VALUES (@username, @password_hash, @created_at)
		RETURNING id, username, password_hash, created_at`

	var created model.User
	err := u.db.QueryRow(ctx, query, args).Scan(&created.ID, &created.Username, &created.PasswordHash, &created.CreatedAt)
	if err != nil {
		u.observe("user_create", start, false)
		if db.IsUniqueViolation(err) {
			u.log.Debug("Username already taken", slog.String("username", user.Username))
			return nil, custom_errors.ErrUsernameTaken
		}
		u.log.Error("Error creating user", slog.String("username", user.Username), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	u.observe("user_create", start, true)
	u.log.Debug("Successfully created user", slog.Int64("id", created.ID))
	return &created, nil
}

func (u *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return u.getOne(ctx, "user_get_by_id",
		`SELECT id, username, password_hash, created_at FROM users WHERE id = @id`,
		pgx.NamedArgs{"id": id}, slog.Int64("id", id))
}

func (u *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return u.getOne(ctx, "user_get_by_username",
		`SELECT id, username, password_hash, created_at FROM users WHERE username = @username`,
		pgx.NamedArgs{"username": username}, slog.String("username", username))
}

func (u *UserRepository) getOne(ctx context.Context, queryType, query string, args pgx.NamedArgs, key slog.Attr) (*model.User, error) {
	start := time.Now()

	var user model.User
	err := u.db.QueryRow(ctx, query, args).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		u.observe(queryType, start, false)
		if errors.Is(err, pgx.ErrNoRows) {
			u.log.Debug("User not found", key)
			return nil, custom_errors.ErrUserNotFound
		}
		u.log.Error("Error getting user", key, slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	u.observe(queryType, start, true)
	return &user, nil
}
