package driver

import (
	"context"
	"time"
)

type DriverRepository interface {
	GetByEmail(ctx context.Context, email string) (Driver, error)
	GetByID(ctx context.Context, companyID, id string) (Driver, error)
	// GetByIDAnyTenant loads the driver behind a token before the tenant is known.
	GetByIDAnyTenant(ctx context.Context, id string) (Driver, error)
}

type TokenRepository interface {
	Create(ctx context.Context, t Token) (Token, error)
	GetByID(ctx context.Context, id string) (Token, error)
	Touch(ctx context.Context, id string, now time.Time) error
	Delete(ctx context.Context, id, driverID string) error
	PruneExpired(ctx context.Context, now time.Time) (int64, error)
}
