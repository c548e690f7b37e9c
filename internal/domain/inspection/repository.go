package inspection

import (
	"context"

	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
)

type InspectionRepository interface {
	Create(ctx context.Context, i Inspection) (Inspection, error)
	GetForDriver(ctx context.Context, companyID, driverID, id string) (Inspection, error)
	List(ctx context.Context, companyID, driverID string, filter ListFilter, page pagination.Params) ([]Inspection, int64, error)
}
