package fuellog

import (
	"time"

	"github.com/shopspring/decimal"
)

type FuelLog struct {
	ID             string
	CompanyID      string
	DriverID       string
	VehicleID      string
	FuelDate       time.Time
	Gallons        decimal.Decimal
	PricePerGallon decimal.Decimal
	TotalCost      decimal.Decimal
	Odometer       *int
	Station        *string
	Notes          *string
	CreatedAt      time.Time
}

// TotalCost is gallons times price, rounded half away from zero to cents.
func TotalCost(gallons, pricePerGallon decimal.Decimal) decimal.Decimal {
	return gallons.Mul(pricePerGallon).Round(2)
}
