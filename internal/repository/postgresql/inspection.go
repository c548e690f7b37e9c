package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/inspection"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/database"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

const inspectionColumns = `
	id, company_id, driver_id, vehicle_id, type, result, odometer, items, defects, notes,
	inspected_at, created_at`

type inspectionRepositoryImpl struct {
	db *database.DB
}

func NewInspectionRepository(db *database.DB) inspection.InspectionRepository {
	return &inspectionRepositoryImpl{db: db}
}

func scanInspection(row pgx.Row) (inspection.Inspection, error) {
	var i inspection.Inspection
	var itemsJSON []byte
	err := row.Scan(
		&i.ID, &i.CompanyID, &i.DriverID, &i.VehicleID, &i.Type, &i.Result, &i.Odometer,
		&itemsJSON, &i.Defects, &i.Notes, &i.InspectedAt, &i.CreatedAt,
	)
	if err != nil {
		return i, err
	}
	if err := json.Unmarshal(itemsJSON, &i.Items); err != nil {
		return i, fmt.Errorf("failed to unmarshal inspection items: %w", err)
	}
	return i, nil
}

func (r *inspectionRepositoryImpl) Create(ctx context.Context, i inspection.Inspection) (inspection.Inspection, error) {
	q := GetQuerier(ctx, r.db)

	if i.ID == "" {
		i.ID = newID()
	}
	items := i.Items
	if items == nil {
		items = []inspection.Item{}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return inspection.Inspection{}, fmt.Errorf("failed to marshal inspection items: %w", err)
	}

	query := `
		INSERT INTO inspections (
			id, company_id, driver_id, vehicle_id, type, result, odometer, items, defects, notes, inspected_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + inspectionColumns

	created, err := scanInspection(q.QueryRow(ctx, query,
		i.ID, i.CompanyID, i.DriverID, i.VehicleID, i.Type, i.Result, i.Odometer, itemsJSON,
		i.Defects, i.Notes, i.InspectedAt,
	))
	if err != nil {
		return inspection.Inspection{}, fmt.Errorf("failed to create inspection: %w", err)
	}
	return created, nil
}

func (r *inspectionRepositoryImpl) GetForDriver(ctx context.Context, companyID, driverID, id string) (inspection.Inspection, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + inspectionColumns + ` FROM inspections WHERE company_id = $1 AND driver_id = $2 AND id = $3`
	i, err := scanInspection(q.QueryRow(ctx, query, companyID, driverID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return inspection.Inspection{}, inspection.ErrInspectionNotFound
		}
		return inspection.Inspection{}, fmt.Errorf("failed to get inspection: %w", err)
	}
	return i, nil
}

func (r *inspectionRepositoryImpl) List(ctx context.Context, companyID, driverID string, filter inspection.ListFilter, page pagination.Params) ([]inspection.Inspection, int64, error) {
	q := GetQuerier(ctx, r.db)

	w := newWhere("company_id = ? AND driver_id = ?", companyID, driverID)
	if filter.VehicleID != nil {
		w.add("vehicle_id = ?", *filter.VehicleID)
	}
	if filter.Type != nil {
		w.add("type = ?", string(*filter.Type))
	}
	if filter.Result != nil {
		w.add("result = ?", string(*filter.Result))
	}

	items, total, err := fetchPage(ctx, q, listQuery{
		columns:  inspectionColumns,
		from:     "inspections",
		where:    w,
		tiebreak: "id DESC",
	}, page, scanInspection)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list inspections: %w", err)
	}
	return items, total, nil
}
