package customer

import (
	"context"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
)

type CustomerService interface {
	Login(ctx context.Context, req LoginRequest) (SessionResponse, error)
	// StartSession issues a portal session for a portal user that was just authenticated.
	StartSession(ctx context.Context, companyID, email string) (SessionResponse, error)
	Profile(ctx context.Context, p auth.Principal) (ProfileResponse, error)
	UpdateProfile(ctx context.Context, p auth.Principal, req UpdateProfileRequest) (ProfileResponse, error)
	ChangePassword(ctx context.Context, p auth.Principal, req ChangePasswordRequest) error
}
