package maintenance

import (
	"context"
	"log/slog"
	"strings"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/maintenance"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/vehicle"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
	vehicleservice "github.com/haulpoint/haulpoint-backend-go/internal/service/vehicle"
)

type MaintenanceServiceImpl struct {
	maintenance.RecordRepository
	vehicles vehicle.VehicleRepository
}

func NewMaintenanceService(repo maintenance.RecordRepository, vehicles vehicle.VehicleRepository) *MaintenanceServiceImpl {
	return &MaintenanceServiceImpl{RecordRepository: repo, vehicles: vehicles}
}

var _ maintenance.MaintenanceService = (*MaintenanceServiceImpl)(nil)

// List returns maintenance records of the vehicles the driver currently holds.
func (s *MaintenanceServiceImpl) List(ctx context.Context, p auth.Principal, req maintenance.ListRequest) (pagination.Page[maintenance.RecordResponse], error) {
	if p.Kind != auth.KindDriver {
		return pagination.Page[maintenance.RecordResponse]{}, auth.ErrForbidden
	}

	items, total, err := s.RecordRepository.ListForDriver(ctx, p.CompanyID, p.ID, req.Filter, req.Page)
	if err != nil {
		return pagination.Page[maintenance.RecordResponse]{}, err
	}
	return pagination.Map(pagination.NewPage(items, total, req.Page), func(r maintenance.Record) maintenance.RecordResponse {
		return maintenance.NewRecordResponse(r, p.ID)
	}), nil
}

// Request files a driver-reported maintenance issue in the requested state.
func (s *MaintenanceServiceImpl) Request(ctx context.Context, p auth.Principal, req maintenance.CreateRequest) (maintenance.RecordResponse, error) {
	if p.Kind != auth.KindDriver {
		return maintenance.RecordResponse{}, auth.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return maintenance.RecordResponse{}, err
	}
	if err := vehicleservice.RequireAssigned(ctx, s.vehicles, p, req.VehicleID); err != nil {
		return maintenance.RecordResponse{}, err
	}

	driverID := p.ID
	r, err := s.RecordRepository.Create(ctx, maintenance.Record{
		CompanyID:          p.CompanyID,
		VehicleID:          req.VehicleID,
		ReportedByDriverID: &driverID,
		Type:               maintenance.Type(req.Type),
		Status:             maintenance.StatusRequested,
		Priority:           maintenance.Priority(req.Priority),
		Description:        strings.TrimSpace(req.Description),
		Odometer:           req.Odometer,
	})
	if err != nil {
		return maintenance.RecordResponse{}, err
	}

	slog.Info("Maintenance requested", "record_id", r.ID, "vehicle_id", r.VehicleID, "driver_id", p.ID, "priority", r.Priority)
	return maintenance.NewRecordResponse(r, p.ID), nil
}
