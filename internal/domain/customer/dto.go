package customer

import (
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/validator"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
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

	return errs.OrNil()
}

// UpdateProfileRequest edits the customer's contact details. Name belongs
// to the signed-in portal user; the customer account name is staff-managed.
type UpdateProfileRequest struct {
	Name           *string `json:"name,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	BillingAddress *string `json:"billing_address,omitempty"`
	ServiceAddress *string `json:"service_address,omitempty"`
}

func (r *UpdateProfileRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs.Add("name", "name must not be empty")
		} else if len(*r.Name) > 255 {
			errs.Add("name", "name must not exceed 255 characters")
		}
	}
	if r.Phone != nil && *r.Phone != "" && !validator.IsValidPhoneNumber(*r.Phone) {
		errs.Add("phone", "phone must be a valid phone number")
	}
	if r.BillingAddress != nil && len(*r.BillingAddress) > 500 {
		errs.Add("billing_address", "billing_address must not exceed 500 characters")
	}
	if r.ServiceAddress != nil && len(*r.ServiceAddress) > 500 {
		errs.Add("service_address", "service_address must not exceed 500 characters")
	}

	return errs.OrNil()
}

type ChangePasswordRequest struct {
	CurrentPassword      string `json:"current_password"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

func (r *ChangePasswordRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.CurrentPassword == "" {
		errs.Add("current_password", "current_password is required")
	}
	if r.Password == "" {
		errs.Add("password", "password is required")
	} else if !validator.IsStrongPassword(r.Password) {
		errs.Add("password", validator.PasswordPolicyMessage)
	} else if r.Password != r.PasswordConfirmation {
		errs.Add("password", "password confirmation does not match")
	}

	return errs.OrNil()
}

type PortalUserResponse struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	Name            string     `json:"name"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty"`
}

// ProfileResponse describes the customer account, with the signed-in
// portal user under User.
type ProfileResponse struct {
	ID             string             `json:"id"`
	CompanyID      string             `json:"company_id"`
	AccountNumber  string             `json:"account_number"`
	Name           string             `json:"name"`
	Email          *string            `json:"email,omitempty"`
	Phone          *string            `json:"phone,omitempty"`
	BillingAddress *string            `json:"billing_address,omitempty"`
	ServiceAddress *string            `json:"service_address,omitempty"`
	Status         Status             `json:"status"`
	StatusLabel    string             `json:"status_label"`
	User           PortalUserResponse `json:"user"`
}

func NewProfileResponse(a PortalAccount) ProfileResponse {
	c, u := a.Customer, a.User
	return ProfileResponse{
		ID:             c.ID,
		CompanyID:      c.CompanyID,
		AccountNumber:  c.AccountNumber,
		Name:           c.Name,
		Email:          c.Email,
		Phone:          c.Phone,
		BillingAddress: c.BillingAddress,
		ServiceAddress: c.ServiceAddress,
		Status:         c.Status,
		StatusLabel:    c.Status.Label(),
		User: PortalUserResponse{
			ID:              u.ID,
			Email:           u.Email,
			Name:            u.Name,
			EmailVerifiedAt: u.EmailVerifiedAt,
			LastLoginAt:     u.LastLoginAt,
		},
	}
}

// SessionResponse is returned by the portal login endpoint.
type SessionResponse struct {
	Token     string          `json:"token"`
	ExpiresAt int64           `json:"expires_at"`
	Customer  ProfileResponse `json:"customer"`
}
