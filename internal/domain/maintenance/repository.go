package maintenance

import (
	"context"

	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
)

type RecordRepository interface {
	Create(ctx context.Context, r Record) (Record, error)
	// ListForDriver returns records of vehicles currently assigned to the driver.
	ListForDriver(ctx context.Context, companyID, driverID string, filter ListFilter, page pagination.Params) ([]Record, int64, error)
}
