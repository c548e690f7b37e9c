package fuellog

import (
	"context"
	"log/slog"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/fuellog"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/vehicle"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
	vehicleservice "github.com/haulpoint/haulpoint-backend-go/internal/service/vehicle"
)

type FuelLogServiceImpl struct {
	fuellog.FuelLogRepository
	vehicles vehicle.VehicleRepository
	now      func() time.Time
}

func NewFuelLogService(repo fuellog.FuelLogRepository, vehicles vehicle.VehicleRepository) *FuelLogServiceImpl {
	return &FuelLogServiceImpl{FuelLogRepository: repo, vehicles: vehicles, now: time.Now}
}

var _ fuellog.FuelLogService = (*FuelLogServiceImpl)(nil)

func (s *FuelLogServiceImpl) List(ctx context.Context, p auth.Principal, req fuellog.ListRequest) (pagination.Page[fuellog.FuelLogResponse], error) {
	if p.Kind != auth.KindDriver {
		return pagination.Page[fuellog.FuelLogResponse]{}, auth.ErrForbidden
	}

	items, total, err := s.FuelLogRepository.List(ctx, p.CompanyID, p.ID, req.Filter, req.Page)
	if err != nil {
		return pagination.Page[fuellog.FuelLogResponse]{}, err
	}
	return pagination.Map(pagination.NewPage(items, total, req.Page), fuellog.NewFuelLogResponse), nil
}

// Create records a fill-up on one of the driver's assigned vehicles. The
// total is always computed here, never taken from the client.
func (s *FuelLogServiceImpl) Create(ctx context.Context, p auth.Principal, req fuellog.CreateRequest) (fuellog.FuelLogResponse, error) {
	if p.Kind != auth.KindDriver {
		return fuellog.FuelLogResponse{}, auth.ErrForbidden
	}
	if err := req.Validate(s.now()); err != nil {
		return fuellog.FuelLogResponse{}, err
	}
	if err := vehicleservice.RequireAssigned(ctx, s.vehicles, p, req.VehicleID); err != nil {
		return fuellog.FuelLogResponse{}, err
	}

	f, err := s.FuelLogRepository.Create(ctx, fuellog.FuelLog{
		CompanyID:      p.CompanyID,
		DriverID:       p.ID,
		VehicleID:      req.VehicleID,
		FuelDate:       req.ParsedFuelDate(),
		Gallons:        req.Gallons,
		PricePerGallon: req.PricePerGallon,
		TotalCost:      fuellog.TotalCost(req.Gallons, req.PricePerGallon),
		Odometer:       req.Odometer,
		Station:        req.Station,
		Notes:          req.Notes,
	})
	if err != nil {
		return fuellog.FuelLogResponse{}, err
	}

	slog.Info("Fuel log recorded", "fuel_log_id", f.ID, "driver_id", p.ID, "vehicle_id", f.VehicleID, "total_cost", f.TotalCost.String())
	return fuellog.NewFuelLogResponse(f), nil
}
