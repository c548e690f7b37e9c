package auth

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrRefreshTokenRevoked = errors.New("refresh token has been revoked")
	ErrUnauthenticated     = errors.New("authentication required")
	ErrForbidden           = errors.New("you do not have permission to perform this action")
	ErrOAuthNotLinked      = errors.New("no staff account is registered for this Google account")
	ErrInvalidOAuthState   = errors.New("invalid oauth state")
)
