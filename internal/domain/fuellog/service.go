package fuellog

import (
	"context"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
)

type FuelLogService interface {
	List(ctx context.Context, p auth.Principal, req ListRequest) (pagination.Page[FuelLogResponse], error)
	Create(ctx context.Context, p auth.Principal, req CreateRequest) (FuelLogResponse, error)
}
