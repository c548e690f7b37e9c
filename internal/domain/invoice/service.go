package invoice

import (
	"context"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
)

type InvoiceService interface {
	List(ctx context.Context, p auth.Principal, req ListRequest) (pagination.Page[InvoiceResponse], error)
	Get(ctx context.Context, p auth.Principal, id string, includeItems bool) (InvoiceResponse, error)
}
