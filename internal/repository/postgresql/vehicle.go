package postgresql

import (
	"context"
	"fmt"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/vehicle"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type vehicleRepositoryImpl struct {
	db *database.DB
}

func NewVehicleRepository(db *database.DB) vehicle.VehicleRepository {
	return &vehicleRepositoryImpl{db: db}
}

func (r *vehicleRepositoryImpl) ListActiveAssignments(ctx context.Context, companyID, driverID string) ([]vehicle.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT va.id, va.company_id, va.vehicle_id, va.driver_id, va.assigned_at, va.unassigned_at,
			   v.id, v.company_id, v.unit_number, v.make, v.model, v.year, v.vin, v.license_plate,
			   v.type, v.status, v.odometer, v.created_at, v.updated_at
		FROM vehicle_assignments va
		JOIN vehicles v ON v.id = va.vehicle_id AND v.company_id = va.company_id
		WHERE va.company_id = $1 AND va.driver_id = $2 AND va.unassigned_at IS NULL
		ORDER BY va.assigned_at DESC
	`, companyID, driverID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicle assignments: %w", err)
	}
	return collect(rows, func(row pgx.Row) (vehicle.Assignment, error) {
		var a vehicle.Assignment
		v := &a.Vehicle
		err := row.Scan(
			&a.ID, &a.CompanyID, &a.VehicleID, &a.DriverID, &a.AssignedAt, &a.UnassignedAt,
			&v.ID, &v.CompanyID, &v.UnitNumber, &v.Make, &v.Model, &v.Year, &v.VIN, &v.LicensePlate,
			&v.Type, &v.Status, &v.Odometer, &v.CreatedAt, &v.UpdatedAt,
		)
		return a, err
	})
}

func (r *vehicleRepositoryImpl) IsAssigned(ctx context.Context, companyID, driverID, vehicleID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var assigned bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM vehicle_assignments
			WHERE company_id = $1 AND driver_id = $2 AND vehicle_id = $3 AND unassigned_at IS NULL
		)
	`, companyID, driverID, vehicleID).Scan(&assigned)
	if err != nil {
		return false, fmt.Errorf("failed to check vehicle assignment: %w", err)
	}
	return assigned, nil
}
