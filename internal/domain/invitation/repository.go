package invitation

import (
	"context"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
)

type InvitationRepository interface {
	// Create inserts the row. A clash with another active invitation for the same
	// (company, email) returns ErrInvitationExists.
	Create(ctx context.Context, inv Invitation) (Invitation, error)

	GetByID(ctx context.Context, companyID, id string) (Invitation, error)
	GetByToken(ctx context.Context, token string) (Invitation, error)

	// ExistsActive checks for an active, unaccepted invitation for email in the company.
	ExistsActive(ctx context.Context, companyID, email string) (bool, error)

	List(ctx context.Context, companyID string, filter ListFilter, page pagination.Params, now time.Time) ([]Invitation, int64, error)

	// Refresh swaps in a new token and expiry and reactivates an unaccepted invitation.
	Refresh(ctx context.Context, companyID, id, token string, expiresAt time.Time) (Invitation, error)

	// Extend sets expires_at to GREATEST(expires_at, now) + days for an unaccepted invitation.
	Extend(ctx context.Context, companyID, id string, days int, now time.Time) (Invitation, error)

	Deactivate(ctx context.Context, companyID, id string) (Invitation, error)
	Delete(ctx context.Context, companyID, id string) error

	// MarkAccepted accepts iff the invitation is still valid at now, otherwise
	// returns ErrInvitationNotUsable.
	MarkAccepted(ctx context.Context, id, token string, now time.Time) (Invitation, error)
	LinkCustomer(ctx context.Context, id, customerID string) error

	// CleanupExpired deactivates lapsed invitations; a nil companyID sweeps every tenant.
	CleanupExpired(ctx context.Context, companyID *string, now time.Time) (int64, error)

	Statistics(ctx context.Context, companyID string, customerID *string, window StatisticsWindow) (Statistics, error)
}
