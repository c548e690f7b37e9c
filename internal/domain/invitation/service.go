package invitation

import (
	"context"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
)

type InvitationService interface {
	Create(ctx context.Context, p auth.Principal, req CreateRequest) (InvitationResponse, error)
	BulkCreate(ctx context.Context, p auth.Principal, req BulkCreateRequest) (BulkCreateResponse, error)
	List(ctx context.Context, p auth.Principal, req ListRequest) (pagination.Page[InvitationResponse], error)
	Get(ctx context.Context, p auth.Principal, id string) (InvitationResponse, error)
	Resend(ctx context.Context, p auth.Principal, id string) (InvitationResponse, error)
	Delete(ctx context.Context, p auth.Principal, id string) error
	Deactivate(ctx context.Context, p auth.Principal, id string) (InvitationResponse, error)
	Extend(ctx context.Context, p auth.Principal, req ExtendRequest) (ExtendResponse, error)
	ExtendOne(ctx context.Context, p auth.Principal, id string, req ExtendOneRequest) (InvitationResponse, error)
	Cleanup(ctx context.Context, p auth.Principal) (CleanupResponse, error)
	CleanupAll(ctx context.Context) (int64, error)
	Statistics(ctx context.Context, p auth.Principal, req StatisticsRequest) (StatisticsResponse, error)

	// Lookup resolves a token for the public acceptance form.
	Lookup(ctx context.Context, token string) (AcceptanceView, error)
	// Accept consumes the token and activates the backing customer's portal access.
	Accept(ctx context.Context, token string, req AcceptRequest, ipAddress string) (AcceptResult, error)
}
