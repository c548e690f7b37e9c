package user

import (
	"context"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByOAuthProviderID(ctx context.Context, provider, providerID string) (User, error)
	LinkGoogleAccount(ctx context.Context, id, googleID string) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}
