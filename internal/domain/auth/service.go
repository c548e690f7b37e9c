package auth

import (
	"context"
	"time"
)

// RefreshTokenRepository persists hashed staff refresh tokens.
type RefreshTokenRepository interface {
	CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, sessionReq SessionTrackingRequest) error
	// IsRefreshTokenRevoked returns the owning user and whether the token can no longer be used.
	IsRefreshTokenRevoked(ctx context.Context, token string) (userID string, revoked bool, err error)
	RevokeRefreshToken(ctx context.Context, token string) error
	PruneExpired(ctx context.Context, now time.Time) (int64, error)
}

type AuthService interface {
	Login(ctx context.Context, req LoginRequest, session SessionTrackingRequest) (TokenResponse, error)
	LoginWithGoogle(ctx context.Context, googleEmail string, googleID string, session SessionTrackingRequest) (TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	Me(ctx context.Context, p Principal) (MeResponse, error)
}
