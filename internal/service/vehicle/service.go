package vehicle

import (
	"context"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/vehicle"
)

type VehicleServiceImpl struct {
	vehicle.VehicleRepository
}

func NewVehicleService(repo vehicle.VehicleRepository) *VehicleServiceImpl {
	return &VehicleServiceImpl{VehicleRepository: repo}
}

var _ vehicle.VehicleService = (*VehicleServiceImpl)(nil)

// Assignments lists the vehicles currently assigned to the signed-in driver.
func (s *VehicleServiceImpl) Assignments(ctx context.Context, p auth.Principal) ([]vehicle.AssignmentResponse, error) {
	if p.Kind != auth.KindDriver {
		return nil, auth.ErrForbidden
	}

	assignments, err := s.VehicleRepository.ListActiveAssignments(ctx, p.CompanyID, p.ID)
	if err != nil {
		return nil, err
	}

	resp := make([]vehicle.AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		resp = append(resp, vehicle.NewAssignmentResponse(a))
	}
	return resp, nil
}

// RequireAssigned returns vehicle.ErrVehicleNotAssigned unless the driver
// currently holds the vehicle.
func RequireAssigned(ctx context.Context, repo vehicle.VehicleRepository, p auth.Principal, vehicleID string) error {
	ok, err := repo.IsAssigned(ctx, p.CompanyID, p.ID, vehicleID)
	if err != nil {
		return err
	}
	if !ok {
		return vehicle.ErrVehicleNotAssigned
	}
	return nil
}
