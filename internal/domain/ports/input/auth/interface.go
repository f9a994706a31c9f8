package auth_service

import (
	"context"

	model "yatube-post-service/internal/domain/models"
)

// IdentityProvider resolves a session token to the user it belongs to.
type IdentityProvider interface {
	Identify(ctx context.Context, token string) (*model.User, error)
}

type Service interface {
	IdentityProvider
	Signup(ctx context.Context, signup *model.SignupDTO) (*model.User, error)
	Login(ctx context.Context, username, password string) (string, *model.User, error)
	Logout(ctx context.Context, token string) error
}
