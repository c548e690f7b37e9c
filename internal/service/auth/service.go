package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-chi/jwtauth/v5"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/user"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/database"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	tx database.TxManager
	user.UserRepository
	jwt.Service
	auth.RefreshTokenRepository
}

func NewAuthService(tx database.TxManager, userRepository user.UserRepository, jwtService jwt.Service, refreshTokens auth.RefreshTokenRepository) auth.AuthService {
	return &AuthServiceImpl{
		tx:                     tx,
		UserRepository:         userRepository,
		Service:                jwtService,
		RefreshTokenRepository: refreshTokens,
	}
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, loginReq auth.LoginRequest, sessionTrackReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	userData, err := a.UserRepository.GetByEmail(ctx, loginReq.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	// Google-only accounts have no password
	if userData.PasswordHash == nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*userData.PasswordHash), []byte(loginReq.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	return a.issueTokens(ctx, userData, sessionTrackReq)
}

// LoginWithGoogle implements auth.AuthService. Staff accounts are provisioned by
// the company, so an unknown Google identity is rejected instead of registered.
func (a *AuthServiceImpl) LoginWithGoogle(ctx context.Context, googleEmail string, googleID string, sessionTrackReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	userData, err := a.UserRepository.GetByOAuthProviderID(ctx, "google", googleID)
	if err == nil {
		return a.issueTokens(ctx, userData, sessionTrackReq)
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by google id: %w", err)
	}

	userData, err = a.UserRepository.GetByEmail(ctx, googleEmail)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrOAuthNotLinked
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user data by email: %w", err)
	}

	// Existing staff member signing in with Google for the first time
	if userData.OAuthProviderID == nil {
		if err := a.UserRepository.LinkGoogleAccount(ctx, userData.ID, googleID); err != nil {
			return auth.TokenResponse{}, err
		}
		slog.Info("Linked google account", "user_id", userData.ID)
	} else if *userData.OAuthProviderID != googleID {
		return auth.TokenResponse{}, auth.ErrOAuthNotLinked
	}

	return a.issueTokens(ctx, userData, sessionTrackReq)
}

func (a *AuthServiceImpl) issueTokens(ctx context.Context, userData user.User, sessionTrackReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	var tokenResponse auth.TokenResponse

	err := a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		tokenResponse.AccessToken, tokenResponse.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(userData.ID, userData.Email, userData.CompanyID, userData.Role)
		if err != nil {
			return fmt.Errorf("failed to create access token: %w", err)
		}
		tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, err = a.Service.GenerateRefreshToken(userData.ID)
		if err != nil {
			return fmt.Errorf("failed to create refresh token: %w", err)
		}

		err = a.CreateRefreshToken(txCtx, userData.ID, tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, sessionTrackReq)
		if err != nil {
			return fmt.Errorf("failed to save refresh token to database: %w", err)
		}
		return nil
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	return tokenResponse, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	return a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		_, isRevoked, err := a.RefreshTokenRepository.IsRefreshTokenRevoked(txCtx, token)
		if err != nil {
			return fmt.Errorf("failed to check if refresh token is revoked: %w", err)
		}
		if !isRevoked {
			if err := a.RefreshTokenRepository.RevokeRefreshToken(txCtx, token); err != nil {
				return fmt.Errorf("failed to revoke refresh token: %w", err)
			}
		}
		return nil
	})
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	var accessTokenResponse auth.AccessTokenResponse

	// 1. Verify JWT signature and expiry
	token, err := jwtauth.VerifyToken(a.JWTAuth(), req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	// 2. Check token type is "refresh"
	tokenType, ok := token.Get("type")
	if !ok || tokenType != jwt.TypeRefresh {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	// 3. Check DB for revocation/expiry (pass raw token, not hash)
	userID, isRevoked, err := a.RefreshTokenRepository.IsRefreshTokenRevoked(ctx, req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to check refresh token: %w", err)
	}
	if isRevoked {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	// 4. Get user
	userData, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.AccessTokenResponse{}, auth.ErrInvalidToken
		}
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	// 5. Generate new access token
	accessTokenResponse.AccessToken, accessTokenResponse.AccessTokenExpiresIn, err =
		a.Service.GenerateAccessToken(userData.ID, userData.Email, userData.CompanyID, userData.Role)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return accessTokenResponse, nil
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context, p auth.Principal) (auth.MeResponse, error) {
	if !p.IsStaff() {
		return auth.MeResponse{}, auth.ErrForbidden
	}
	userData, err := a.UserRepository.GetByID(ctx, p.ID)
	if err != nil {
		return auth.MeResponse{}, err
	}
	return auth.MeResponse{
		ID:        userData.ID,
		CompanyID: userData.CompanyID,
		Email:     userData.Email,
		FullName:  userData.FullName,
		Role:      string(userData.Role),
		RoleLabel: userData.Role.Label(),
	}, nil
}
