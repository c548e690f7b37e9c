package workorder

import (
	"context"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
)

type WorkOrderService interface {
	List(ctx context.Context, p auth.Principal, req ListRequest) (pagination.Page[WorkOrderResponse], error)
	Get(ctx context.Context, p auth.Principal, id string) (WorkOrderResponse, error)
	Start(ctx context.Context, p auth.Principal, id string) (WorkOrderResponse, error)
	Complete(ctx context.Context, p auth.Principal, id string, req CompleteRequest) (WorkOrderResponse, error)
	Cancel(ctx context.Context, p auth.Principal, id string, req CancelRequest) (WorkOrderResponse, error)
}
