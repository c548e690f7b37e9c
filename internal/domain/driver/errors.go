package driver

import "errors"

var (
	ErrDriverNotFound     = errors.New("driver not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDriverInactive     = errors.New("driver account is not active")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTooManyAttempts    = errors.New("too many login attempts, please try again later")
)
