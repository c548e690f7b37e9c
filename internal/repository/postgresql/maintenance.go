package postgresql

import (
	"context"
	"fmt"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/maintenance"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/database"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

const maintenanceColumns = `
	mr.id, mr.company_id, mr.vehicle_id, mr.reported_by_driver_id, mr.type, mr.status, mr.priority,
	mr.description, mr.odometer, mr.cost, mr.scheduled_date, mr.completed_at, mr.created_at, mr.updated_at`

type maintenanceRepositoryImpl struct {
	db *database.DB
}

func NewMaintenanceRepository(db *database.DB) maintenance.RecordRepository {
	return &maintenanceRepositoryImpl{db: db}
}

func scanMaintenance(row pgx.Row) (maintenance.Record, error) {
	var m maintenance.Record
	err := row.Scan(
		&m.ID, &m.CompanyID, &m.VehicleID, &m.ReportedByDriverID, &m.Type, &m.Status, &m.Priority,
		&m.Description, &m.Odometer, &m.Cost, &m.ScheduledDate, &m.CompletedAt, &m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

func (r *maintenanceRepositoryImpl) Create(ctx context.Context, m maintenance.Record) (maintenance.Record, error) {
	q := GetQuerier(ctx, r.db)

	if m.ID == "" {
		m.ID = newID()
	}
	if m.Status == "" {
		m.Status = maintenance.StatusRequested
	}

	query := `
		INSERT INTO maintenance_records AS mr (
			id, company_id, vehicle_id, reported_by_driver_id, type, status, priority, description, odometer
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + maintenanceColumns

	created, err := scanMaintenance(q.QueryRow(ctx, query,
		m.ID, m.CompanyID, m.VehicleID, m.ReportedByDriverID, m.Type, m.Status, m.Priority,
		m.Description, m.Odometer,
	))
	if err != nil {
		return maintenance.Record{}, fmt.Errorf("failed to create maintenance record: %w", err)
	}
	return created, nil
}

func (r *maintenanceRepositoryImpl) ListForDriver(ctx context.Context, companyID, driverID string, filter maintenance.ListFilter, page pagination.Params) ([]maintenance.Record, int64, error) {
	q := GetQuerier(ctx, r.db)

	w := newWhere("mr.company_id = ?", companyID)
	w.add(`EXISTS (
		SELECT 1 FROM vehicle_assignments va
		WHERE va.vehicle_id = mr.vehicle_id AND va.company_id = mr.company_id
		  AND va.driver_id = ? AND va.unassigned_at IS NULL)`, driverID)
	if filter.VehicleID != nil {
		w.add("mr.vehicle_id = ?", *filter.VehicleID)
	}
	if filter.Status != nil {
		w.add("mr.status = ?", string(*filter.Status))
	}

	items, total, err := fetchPage(ctx, q, listQuery{
		columns:  maintenanceColumns,
		from:     "maintenance_records mr",
		where:    w,
		tiebreak: "mr.id DESC",
	}, page, scanMaintenance)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list maintenance records: %w", err)
	}
	return items, total, nil
}
