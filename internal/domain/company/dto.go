package company

import (
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/validator"
)

type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	LogoURL   *string   `json:"logo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewCompanyResponse(c Company) CompanyResponse {
	return CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		Slug:      c.Slug,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		LogoURL:   c.LogoURL,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type UpdateCompanyRequest struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
	LogoURL *string `json:"logo_url,omitempty"`
}

func (r *UpdateCompanyRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs.Add("name", "name must not be empty")
		} else if len(*r.Name) > 255 {
			errs.Add("name", "name must not exceed 255 characters")
		}
	}
	if r.Email != nil && !validator.IsValidEmail(validator.NormalizeEmail(*r.Email)) {
		errs.Add("email", "email must be a valid email address")
	}
	if r.Phone != nil && !validator.IsValidPhoneNumber(*r.Phone) {
		errs.Add("phone", "phone must be a valid phone number")
	}
	if r.Address != nil && len(*r.Address) > 500 {
		errs.Add("address", "address must not exceed 500 characters")
	}

	return errs.OrNil()
}
