package fuellog

import (
	"testing"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalCost(t *testing.T) {
	cases := []struct {
		gallons, price, want string
	}{
		{"10", "3.499", "34.99"},
		{"12.345", "4.129", "50.97"},
		{"0.5", "3.01", "1.51"},
	}
	for _, c := range cases {
		got := TotalCost(decimal.RequireFromString(c.gallons), decimal.RequireFromString(c.price))
		assert.Equal(t, c.want, got.StringFixed(2), "%s x %s", c.gallons, c.price)
	}
}

func TestCreateRequest_Validate(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

	req := CreateRequest{
		VehicleID:      "0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		FuelDate:       "2026-05-09",
		Gallons:        decimal.RequireFromString("40.5"),
		PricePerGallon: decimal.RequireFromString("3.899"),
	}
	require.NoError(t, req.Validate(now))
	assert.Equal(t, time.Date(2026, 5, 9, 0, 0, 0, 0, time.UTC), req.ParsedFuelDate())

	bad := CreateRequest{VehicleID: "x", FuelDate: "2026-06-01", Gallons: decimal.Zero}
	err := bad.Validate(now)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "vehicle_id")
	assert.Contains(t, fields, "fuel_date")
	assert.Contains(t, fields, "gallons")
	assert.Contains(t, fields, "price_per_gallon")
}
