package driver

import (
	"context"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
)

type DriverService interface {
	Login(ctx context.Context, req LoginRequest, ipAddress string) (LoginResponse, error)
	// Authenticate resolves a "{id}|{secret}" bearer token to the driver principal.
	Authenticate(ctx context.Context, bearer string) (auth.Principal, error)
	Logout(ctx context.Context, p auth.Principal, bearer string) error
	Me(ctx context.Context, p auth.Principal) (DriverResponse, error)
}
