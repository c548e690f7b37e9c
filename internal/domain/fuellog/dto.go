package fuellog

import (
	"net/url"
	"strings"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

var ListSpec = pagination.Spec{
	DefaultPerPage:   15,
	MaxPerPage:       50,
	DefaultSort:      "fuel_date",
	DefaultDirection: pagination.Desc,
	Sortable: map[string]string{
		"fuel_date":  "fuel_date",
		"total_cost": "total_cost",
		"gallons":    "gallons",
	},
}

type ListFilter struct {
	VehicleID *string
	From      *time.Time
	To        *time.Time
}

type ListRequest struct {
	Filter ListFilter
	Page   pagination.Params
}

func ParseListRequest(q url.Values) (ListRequest, error) {
	var errs validator.ValidationErrors

	page, err := ListSpec.Parse(q)
	if err != nil {
		return ListRequest{}, err
	}
	req := ListRequest{Page: page}

	if v := strings.TrimSpace(q.Get("vehicle_id")); v != "" {
		if !validator.IsValidUUID(v) {
			errs.Add("vehicle_id", "vehicle_id must be a valid UUID")
		} else {
			req.Filter.VehicleID = &v
		}
	}
	req.Filter.From = pagination.DateParam(q, "from", &errs)
	req.Filter.To = pagination.DateParam(q, "to", &errs)
	if req.Filter.From != nil && req.Filter.To != nil && req.Filter.To.Before(*req.Filter.From) {
		errs.Add("to", "to must not be before from")
	}

	return req, errs.OrNil()
}

type CreateRequest struct {
	VehicleID      string          `json:"vehicle_id"`
	FuelDate       string          `json:"fuel_date"`
	Gallons        decimal.Decimal `json:"gallons"`
	PricePerGallon decimal.Decimal `json:"price_per_gallon"`
	Odometer       *int            `json:"odometer,omitempty"`
	Station        *string         `json:"station,omitempty"`
	Notes          *string         `json:"notes,omitempty"`

	fuelDate time.Time
}

var maxGallons = decimal.NewFromInt(1000)

// Validate checks the body. fuel_date accepts RFC3339 or YYYY-MM-DD and may
// not be in the future.
func (r *CreateRequest) Validate(now time.Time) error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.VehicleID) {
		errs.Add("vehicle_id", "vehicle_id must be a valid UUID")
	}
	if t, ok := validator.IsValidDateTime(r.FuelDate); ok {
		r.fuelDate = t
	} else if d, ok := validator.IsValidDate(r.FuelDate); ok {
		r.fuelDate = d
	} else {
		errs.Add("fuel_date", "fuel_date must be a date or RFC3339 timestamp")
	}
	if !r.fuelDate.IsZero() && r.fuelDate.After(now) {
		errs.Add("fuel_date", "fuel_date must not be in the future")
	}
	if !r.Gallons.IsPositive() {
		errs.Add("gallons", "gallons must be greater than 0")
	} else if r.Gallons.GreaterThan(maxGallons) {
		errs.Add("gallons", "gallons must not exceed 1000")
	}
	if !r.PricePerGallon.IsPositive() {
		errs.Add("price_per_gallon", "price_per_gallon must be greater than 0")
	}
	if r.Odometer != nil && *r.Odometer < 0 {
		errs.Add("odometer", "odometer must not be negative")
	}
	if r.Station != nil && len(*r.Station) > 255 {
		errs.Add("station", "station must not exceed 255 characters")
	}
	if r.Notes != nil && len(*r.Notes) > 1000 {
		errs.Add("notes", "notes must not exceed 1000 characters")
	}

	return errs.OrNil()
}

// ParsedFuelDate is valid after a successful Validate.
func (r *CreateRequest) ParsedFuelDate() time.Time {
	return r.fuelDate
}

type FuelLogResponse struct {
	ID             string          `json:"id"`
	VehicleID      string          `json:"vehicle_id"`
	FuelDate       time.Time       `json:"fuel_date"`
	Gallons        decimal.Decimal `json:"gallons"`
	PricePerGallon decimal.Decimal `json:"price_per_gallon"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	Odometer       *int            `json:"odometer,omitempty"`
	Station        *string         `json:"station,omitempty"`
	Notes          *string         `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

func NewFuelLogResponse(f FuelLog) FuelLogResponse {
	return FuelLogResponse{
		ID:             f.ID,
		VehicleID:      f.VehicleID,
		FuelDate:       f.FuelDate,
		Gallons:        f.Gallons,
		PricePerGallon: f.PricePerGallon,
		TotalCost:      f.TotalCost,
		Odometer:       f.Odometer,
		Station:        f.Station,
		Notes:          f.Notes,
		CreatedAt:      f.CreatedAt,
	}
}
