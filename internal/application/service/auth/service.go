package auth_service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"yatube-post-service/internal/application/validation"
	"yatube-post-service/internal/custom_errors"
	model "yatube-post-service/internal/domain/models"
	ports "yatube-post-service/internal/domain/ports/output"
	session_store "yatube-post-service/internal/domain/ports/output/session"
	user_repository "yatube-post-service/internal/domain/ports/output/user"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer          = "yatube"
	usernameTakenMessage = "A user with that username already exists."
)

// bcrypt refuses passwords longer than this many bytes.
const (
	maxPasswordBytes       = 72
	passwordTooLongMessage = "Ensure this value has at most 72 bytes."
)

type Service struct {
	userRepo user_repository.Repository
	sessions session_store.Store
	validate *validator.Validate
	jwtKey   []byte
	ttl      time.Duration
	cost     int
	log      ports.Logger
	metrics  ports.MetricsProvider
}

type Option func(*Service)

// WithPasswordCost overrides the bcrypt cost used for new password hashes.
func WithPasswordCost(cost int) Option {
	return func(s *Service) {
		s.cost = cost
	}
}

func NewAuthService(
	userRepo user_repository.Repository,
	sessions session_store.Store,
	validate *validator.Validate,
	jwtKey []byte,
	ttl time.Duration,
	log ports.Logger,
	metrics ports.MetricsProvider,
	opts ...Option,
) *Service {
	s := &Service{
		userRepo: userRepo,
		sessions: sessions,
		validate: validate,
		jwtKey:   jwtKey,
		ttl:      ttl,
		cost:     bcrypt.DefaultCost,
		log:      log,
		metrics:  metrics,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Signup(ctx context.Context, signup *model.SignupDTO) (user *model.User, err error) {
	defer func() { s.metrics.IncrementAuthOperations("signup", err == nil) }()

	input := model.SignupDTO{Username: strings.TrimSpace(signup.Username), Password: signup.Password}
	verr := custom_errors.NewValidationError(custom_errors.ErrUserValidation)
	if err := s.validate.Struct(&input); err != nil {
		for field, msg := range validation.FieldMessages(err) {
			verr.Add(field, msg)
		}
	}
	if len(input.Password) > maxPasswordBytes {
		verr.Add("password", passwordTooLongMessage)
	}
	if verr.HasErrors() {
		s.log.Debug("Signup rejected", slog.String("error", verr.Error()))
		return nil, verr
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cost)
	if err != nil {
		s.log.Error("Failed to hash password", slog.String("error", err.Error()))
		return nil, err
	}

	user, err = s.userRepo.Create(ctx, &model.User{Username: input.Username, PasswordHash: string(hash)})
	if err != nil {
		if errors.Is(err, custom_errors.ErrUsernameTaken) {
			s.log.Debug("Username taken", slog.String("username", input.Username))
			verr.Add("username", usernameTakenMessage)
			return nil, verr
		}
		s.log.Error("Failed to create user", slog.String("username", input.Username), slog.String("error", err.Error()))
		return nil, err
	}

	s.log.Info("User signed up", slog.Int64("id", user.ID), slog.String("username", user.Username))
	return user, nil
}

func (s *Service) Login(ctx context.Context, username, password string) (token string, user *model.User, err error) {
	defer func() { s.metrics.IncrementAuthOperations("login", err == nil) }()

	user, err = s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, custom_errors.ErrUserNotFound) {
			s.log.Debug("Login for unknown user", slog.String("username", username))
			return "", nil, custom_errors.ErrInvalidCredentials
		}
		s.log.Error("Failed to load user for login", slog.String("error", err.Error()))
		return "", nil, err
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Debug("Invalid password", slog.String("username", username))
		return "", nil, custom_errors.ErrInvalidCredentials
	}

	token, err = s.issueToken(ctx, user)
	if err != nil {
		return "", nil, err
	}

	s.log.Info("User logged in", slog.Int64("id", user.ID))
	return token, user, nil
}

func (s *Service) Logout(ctx context.Context, token string) (err error) {
	defer func() { s.metrics.IncrementAuthOperations("logout", err == nil) }()

	claims, err := s.parse(token)
	if err != nil {
		s.log.Debug("Logout with unusable token", slog.String("error", err.Error()))
		return nil
	}

	if err = s.sessions.Delete(ctx, claims.Id); err != nil {
		s.log.Error("Failed to revoke session", slog.String("error", err.Error()))
		return err
	}
	return nil
}

func (s *Service) Identify(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.parse(token)
	if err != nil {
		s.log.Debug("Rejected session token", slog.String("error", err.Error()))
		return nil, custom_errors.ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		s.log.Debug("Token subject is not a user id", slog.String("subject", claims.Subject))
		return nil, custom_errors.ErrInvalidToken
	}

	sessionUserID, err := s.sessions.Get(ctx, claims.Id)
	if err != nil {
		if errors.Is(err, custom_errors.ErrSessionNotFound) {
			s.log.Debug("Session revoked or expired", slog.Int64("user_id", userID))
			return nil, custom_errors.ErrInvalidToken
		}
		return nil, err
	}
	if sessionUserID != userID {
		s.log.Warn("Session belongs to another user", slog.Int64("user_id", userID), slog.Int64("session_user_id", sessionUserID))
		return nil, custom_errors.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, custom_errors.ErrUserNotFound) {
			return nil, custom_errors.ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) issueToken(ctx context.Context, user *model.User) (string, error) {
	jti, err := uuid.NewV4()
	if err != nil {
		s.log.Error("Failed to generate session id", slog.String("error", err.Error()))
		return "", err
	}

	now := time.Now()
	claims := &jwt.StandardClaims{
		Id:        jti.String(),
		Subject:   strconv.FormatInt(user.ID, 10),
		Issuer:    tokenIssuer,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.ttl).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtKey)
	if err != nil {
		s.log.Error("Failed to sign token", slog.String("error", err.Error()))
		return "", err
	}

	if err := s.sessions.Save(ctx, claims.Id, user.ID, s.ttl); err != nil {
		return "", err
	}
	return signed, nil
}

func (s *Service) parse(token string) (*jwt.StandardClaims, error) {
	if token == "" {
		return nil, custom_errors.ErrInvalidToken
	}

	claims := &jwt.StandardClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtKey, nil
	})
	if err != nil || !parsed.Valid {
		return nil, custom_errors.ErrInvalidToken
	}
	if claims.Id == "" || claims.Issuer != tokenIssuer {
		return nil, custom_errors.ErrInvalidToken
	}
	return claims, nil
}
