package activity

import (
	"context"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
)

type ActivityService interface {
	List(ctx context.Context, p auth.Principal, req ListRequest) (pagination.Page[EntryResponse], error)
}
