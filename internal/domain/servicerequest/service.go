package servicerequest

import (
	"context"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
)

type ServiceRequestService interface {
	List(ctx context.Context, p auth.Principal, req ListRequest) (pagination.Page[ServiceRequestResponse], error)
	Get(ctx context.Context, p auth.Principal, id string) (ServiceRequestResponse, error)
	Create(ctx context.Context, p auth.Principal, req CreateRequest) (ServiceRequestResponse, error)
	Cancel(ctx context.Context, p auth.Principal, id string, req CancelRequest) (ServiceRequestResponse, error)
}
