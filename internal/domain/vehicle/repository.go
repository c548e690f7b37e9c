package vehicle

import "context"

type VehicleRepository interface {
	// ListActiveAssignments returns the driver's current assignments with the vehicle loaded.
	ListActiveAssignments(ctx context.Context, companyID, driverID string) ([]Assignment, error)
	IsAssigned(ctx context.Context, companyID, driverID, vehicleID string) (bool, error)
}
