package dashboard

import (
	"context"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
)

type DashboardService interface {
	// CustomerSummary gathers the portal landing figures for the signed-in customer.
	CustomerSummary(ctx context.Context, p auth.Principal) (CustomerDashboardResponse, error)
}
