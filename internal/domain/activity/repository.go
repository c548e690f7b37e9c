package activity

import (
	"context"

	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
)

type ActivityRepository interface {
	Record(ctx context.Context, e Entry) error
	List(ctx context.Context, companyID string, filter ListFilter, page pagination.Params) ([]Entry, int64, error)
}
