package inspection

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/inspection"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/vehicle"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
	vehicleservice "github.com/haulpoint/haulpoint-backend-go/internal/service/vehicle"
)

type InspectionServiceImpl struct {
	inspection.InspectionRepository
	vehicles vehicle.VehicleRepository
	now      func() time.Time
}

func NewInspectionService(repo inspection.InspectionRepository, vehicles vehicle.VehicleRepository) *InspectionServiceImpl {
	return &InspectionServiceImpl{InspectionRepository: repo, vehicles: vehicles, now: time.Now}
}

var _ inspection.InspectionService = (*InspectionServiceImpl)(nil)

func (s *InspectionServiceImpl) List(ctx context.Context, p auth.Principal, req inspection.ListRequest) (pagination.Page[inspection.InspectionResponse], error) {
	if p.Kind != auth.KindDriver {
		return pagination.Page[inspection.InspectionResponse]{}, auth.ErrForbidden
	}

	items, total, err := s.InspectionRepository.List(ctx, p.CompanyID, p.ID, req.Filter, req.Page)
	if err != nil {
		return pagination.Page[inspection.InspectionResponse]{}, err
	}
	return pagination.Map(pagination.NewPage(items, total, req.Page), inspection.NewInspectionResponse), nil
}

func (s *InspectionServiceImpl) Get(ctx context.Context, p auth.Principal, id string) (inspection.InspectionResponse, error) {
	if p.Kind != auth.KindDriver {
		return inspection.InspectionResponse{}, auth.ErrForbidden
	}

	i, err := s.InspectionRepository.GetForDriver(ctx, p.CompanyID, p.ID, id)
	if err != nil {
		return inspection.InspectionResponse{}, err
	}
	return inspection.NewInspectionResponse(i), nil
}

// Create submits a pre- or post-trip checklist. The result is derived from
// the items.
func (s *InspectionServiceImpl) Create(ctx context.Context, p auth.Principal, req inspection.CreateRequest) (inspection.InspectionResponse, error) {
	if p.Kind != auth.KindDriver {
		return inspection.InspectionResponse{}, auth.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return inspection.InspectionResponse{}, err
	}
	if err := vehicleservice.RequireAssigned(ctx, s.vehicles, p, req.VehicleID); err != nil {
		return inspection.InspectionResponse{}, err
	}

	items := make([]inspection.Item, len(req.Items))
	for n, item := range req.Items {
		item.Name = strings.TrimSpace(item.Name)
		items[n] = item
	}

	i, err := s.InspectionRepository.Create(ctx, inspection.Inspection{
		CompanyID:   p.CompanyID,
		DriverID:    p.ID,
		VehicleID:   req.VehicleID,
		Type:        inspection.Type(req.Type),
		Result:      inspection.ResultOf(items),
		Odometer:    req.Odometer,
		Items:       items,
		Defects:     req.Defects,
		Notes:       req.Notes,
		InspectedAt: s.now().UTC(),
	})
	if err != nil {
		return inspection.InspectionResponse{}, err
	}

	if i.Result == inspection.ResultFail {
		slog.Warn("Vehicle failed inspection", "inspection_id", i.ID, "vehicle_id", i.VehicleID, "driver_id", p.ID)
	} else {
		slog.Info("Inspection submitted", "inspection_id", i.ID, "vehicle_id", i.VehicleID, "driver_id", p.ID)
	}
	return inspection.NewInspectionResponse(i), nil
}
