package fuellog

import (
	"context"

	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
)

type FuelLogRepository interface {
	Create(ctx context.Context, f FuelLog) (FuelLog, error)
	List(ctx context.Context, companyID, driverID string, filter ListFilter, page pagination.Params) ([]FuelLog, int64, error)
}
