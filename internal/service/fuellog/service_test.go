package fuellog

import (
	"context"
	"testing"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/fuellog"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/vehicle"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	truckID = "0190f5a2-6b1c-7d3e-9f40-1a2b3c4d5e6f"
	otherID = "0190f5a2-6b1c-7d3e-9f40-ffffffffffff"
)

type fakeFuelLogs struct {
	rows []fuellog.FuelLog
}

func (f *fakeFuelLogs) Create(_ context.Context, l fuellog.FuelLog) (fuellog.FuelLog, error) {
	l.ID = "f-1"
	f.rows = append(f.rows, l)
	return l, nil
}

func (f *fakeFuelLogs) List(_ context.Context, companyID, driverID string, _ fuellog.ListFilter, _ pagination.Params) ([]fuellog.FuelLog, int64, error) {
	var out []fuellog.FuelLog
	for _, l := range f.rows {
		if l.CompanyID == companyID && l.DriverID == driverID {
			out = append(out, l)
		}
	}
	return out, int64(len(out)), nil
}

type assignedOnly struct {
	vehicle.VehicleRepository
	vehicleID string
}

func (a assignedOnly) IsAssigned(_ context.Context, _, _, vehicleID string) (bool, error) {
	return vehicleID == a.vehicleID, nil
}

var driverP = auth.Principal{Kind: auth.KindDriver, ID: "d-1", CompanyID: "c-1"}

func newTestService() (*FuelLogServiceImpl, *fakeFuelLogs) {
	repo := &fakeFuelLogs{}
	svc := NewFuelLogService(repo, assignedOnly{vehicleID: truckID})
	svc.now = func() time.Time { return time.Date(2026, 6, 2, 15, 0, 0, 0, time.UTC) }
	return svc, repo
}

func TestCreate_ComputesTotal(t *testing.T) {
	svc, repo := newTestService()

	resp, err := svc.Create(context.Background(), driverP, fuellog.CreateRequest{
		VehicleID:      truckID,
		FuelDate:       "2026-06-02",
		Gallons:        decimal.RequireFromString("42.357"),
		PricePerGallon: decimal.RequireFromString("3.899"),
	})
	require.NoError(t, err)
	assert.Equal(t, "165.15", resp.TotalCost.StringFixed(2))
	require.Len(t, repo.rows, 1)
	assert.Equal(t, "d-1", repo.rows[0].DriverID)
	assert.Equal(t, time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC), repo.rows[0].FuelDate)
}

func TestCreate_Rejections(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	valid := func() fuellog.CreateRequest {
		return fuellog.CreateRequest{
			VehicleID:      truckID,
			FuelDate:       "2026-06-01",
			Gallons:        decimal.NewFromInt(10),
			PricePerGallon: decimal.NewFromInt(4),
		}
	}

	req := valid()
	req.VehicleID = otherID
	_, err := svc.Create(ctx, driverP, req)
	assert.ErrorIs(t, err, vehicle.ErrVehicleNotAssigned)

	req = valid()
	req.FuelDate = "2026-06-03"
	_, err = svc.Create(ctx, driverP, req)
	assert.Error(t, err)

	_, err = svc.Create(ctx, auth.Principal{Kind: auth.KindCustomer, ID: "d-1", CompanyID: "c-1"}, valid())
	assert.ErrorIs(t, err, auth.ErrForbidden)

	assert.Empty(t, repo.rows)
}

func TestList_OwnLogsOnly(t *testing.T) {
	svc, repo := newTestService()
	repo.rows = []fuellog.FuelLog{
		{ID: "f-1", CompanyID: "c-1", DriverID: "d-1", VehicleID: truckID},
		{ID: "f-2", CompanyID: "c-1", DriverID: "d-2", VehicleID: truckID},
	}

	page, err := svc.List(context.Background(), driverP, fuellog.ListRequest{Page: pagination.Params{Page: 1, PerPage: 15}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "f-1", page.Items[0].ID)
	assert.EqualValues(t, 1, page.Total)
}
