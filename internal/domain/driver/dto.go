package driver

import (
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/validator"
)

type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	DeviceName string `json:"device_name"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = validator.NormalizeEmail(r.Email)
	if r.Email == "" {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "email must be a valid email address")
	}
	if r.Password == "" {
		errs.Add("password", "password is required")
	}
	if validator.IsEmpty(r.DeviceName) {
		r.DeviceName = "mobile"
	} else if len(r.DeviceName) > 100 {
		errs.Add("device_name", "device_name must not exceed 100 characters")
	}

	return errs.OrNil()
}

type DriverResponse struct {
	ID            string  `json:"id"`
	CompanyID     string  `json:"company_id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Phone         *string `json:"phone,omitempty"`
	LicenseNumber *string `json:"license_number,omitempty"`
	Status        Status  `json:"status"`
	StatusLabel   string  `json:"status_label"`
}

func NewDriverResponse(d Driver) DriverResponse {
	return DriverResponse{
		ID:            d.ID,
		CompanyID:     d.CompanyID,
		Name:          d.Name,
		Email:         d.Email,
		Phone:         d.Phone,
		LicenseNumber: d.LicenseNumber,
		Status:        d.Status,
		StatusLabel:   d.Status.Label(),
	}
}

type LoginResponse struct {
	Token     string         `json:"token"`
	TokenType string         `json:"token_type"`
	ExpiresAt *time.Time     `json:"expires_at,omitempty"`
	Driver    DriverResponse `json:"driver"`
}
