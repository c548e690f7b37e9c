package inspection

import (
	"context"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
)

type InspectionService interface {
	List(ctx context.Context, p auth.Principal, req ListRequest) (pagination.Page[InspectionResponse], error)
	Get(ctx context.Context, p auth.Principal, id string) (InspectionResponse, error)
	Create(ctx context.Context, p auth.Principal, req CreateRequest) (InspectionResponse, error)
}
