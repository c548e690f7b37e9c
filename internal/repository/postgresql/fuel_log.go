package postgresql

import (
	"context"
	"fmt"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/fuellog"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/database"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

const fuelLogColumns = `
	id, company_id, driver_id, vehicle_id, fuel_date, gallons, price_per_gallon, total_cost,
	odometer, station, notes, created_at`

type fuelLogRepositoryImpl struct {
	db *database.DB
}

func NewFuelLogRepository(db *database.DB) fuellog.FuelLogRepository {
	return &fuelLogRepositoryImpl{db: db}
}

func scanFuelLog(row pgx.Row) (fuellog.FuelLog, error) {
	var f fuellog.FuelLog
	err := row.Scan(
		&f.ID, &f.CompanyID, &f.DriverID, &f.VehicleID, &f.FuelDate, &f.Gallons, &f.PricePerGallon,
		&f.TotalCost, &f.Odometer, &f.Station, &f.Notes, &f.CreatedAt,
	)
	return f, err
}

func (r *fuelLogRepositoryImpl) Create(ctx context.Context, f fuellog.FuelLog) (fuellog.FuelLog, error) {
	q := GetQuerier(ctx, r.db)

	if f.ID == "" {
		f.ID = newID()
	}

	query := `
		INSERT INTO fuel_logs (
			id, company_id, driver_id, vehicle_id, fuel_date, gallons, price_per_gallon, total_cost,
			odometer, station, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + fuelLogColumns

	created, err := scanFuelLog(q.QueryRow(ctx, query,
		f.ID, f.CompanyID, f.DriverID, f.VehicleID, f.FuelDate, f.Gallons, f.PricePerGallon,
		f.TotalCost, f.Odometer, f.Station, f.Notes,
	))
	if err != nil {
		return fuellog.FuelLog{}, fmt.Errorf("failed to create fuel log: %w", err)
	}
	return created, nil
}

func (r *fuelLogRepositoryImpl) List(ctx context.Context, companyID, driverID string, filter fuellog.ListFilter, page pagination.Params) ([]fuellog.FuelLog, int64, error) {
	q := GetQuerier(ctx, r.db)

	w := newWhere("company_id = ? AND driver_id = ?", companyID, driverID)
	if filter.VehicleID != nil {
		w.add("vehicle_id = ?", *filter.VehicleID)
	}
	if filter.From != nil {
		w.add("fuel_date >= ?", *filter.From)
	}
	if filter.To != nil {
		// to is inclusive of the whole day
		w.add("fuel_date < ?", filter.To.AddDate(0, 0, 1))
	}

	items, total, err := fetchPage(ctx, q, listQuery{
		columns:  fuelLogColumns,
		from:     "fuel_logs",
		where:    w,
		tiebreak: "id DESC",
	}, page, scanFuelLog)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list fuel logs: %w", err)
	}
	return items, total, nil
}
