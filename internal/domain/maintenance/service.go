package maintenance

import (
	"context"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
)

type MaintenanceService interface {
	List(ctx context.Context, p auth.Principal, req ListRequest) (pagination.Page[RecordResponse], error)
	Request(ctx context.Context, p auth.Principal, req CreateRequest) (RecordResponse, error)
}
