package customer

import (
	"context"
	"time"
)

type CustomerRepository interface {
	GetByID(ctx context.Context, companyID, id string) (Customer, error)
	// GetByEmail finds the tenant's customer with that email, case-insensitively.
	GetByEmail(ctx context.Context, companyID, email string) (Customer, error)
	Create(ctx context.Context, c Customer) (Customer, error)
	EnablePortal(ctx context.Context, companyID, id string, now time.Time) (Customer, error)
	UpdateProfile(ctx context.Context, companyID, id string, req UpdateProfileRequest) (Customer, error)
}

type PortalUserRepository interface {
	// GetByEmail finds the tenant's portal user with that email, case-insensitively.
	GetByEmail(ctx context.Context, companyID, email string) (PortalUser, error)
	// ListAccountsByEmail returns every tenant's portal user with that email
	// joined to its customer, oldest first.
	ListAccountsByEmail(ctx context.Context, email string) ([]PortalAccount, error)
	// Upsert creates the tenant's portal user for u.Email, or repoints an
	// existing one at u.CustomerID with the new name and password.
	Upsert(ctx context.Context, u PortalUser) (PortalUser, error)
	UpdateName(ctx context.Context, companyID, id, name string) (PortalUser, error)
	UpdatePassword(ctx context.Context, companyID, id, passwordHash string) error
	TouchLogin(ctx context.Context, id string, now time.Time) error
}
