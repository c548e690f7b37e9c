package servicerequest

import (
	"context"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
)

type ServiceRequestRepository interface {
	Create(ctx context.Context, r ServiceRequest) (ServiceRequest, error)
	GetByID(ctx context.Context, companyID, customerID, id string) (ServiceRequest, error)
	List(ctx context.Context, companyID, customerID string, filter ListFilter, page pagination.Params) ([]ServiceRequest, int64, error)
	// Cancel only touches pending requests and returns ErrCannotCancel otherwise.
	Cancel(ctx context.Context, companyID, customerID, id string, reason *string, now time.Time) (ServiceRequest, error)
	CountOpen(ctx context.Context, companyID, customerID string) (int64, error)
}
