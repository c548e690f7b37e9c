package invitation

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/validator"
)

// ListSpec is the paging contract of GET /admin/invitations.
var ListSpec = pagination.Spec{
	DefaultPerPage:   15,
	MaxPerPage:       100,
	DefaultSort:      "created_at",
	DefaultDirection: pagination.Desc,
	Sortable: map[string]string{
		"created_at":  "ci.created_at",
		"expires_at":  "ci.expires_at",
		"email":       "ci.email",
		"accepted_at": "ci.accepted_at",
	},
}

type CreateRequest struct {
	Email      string  `json:"email"`
	CustomerID *string `json:"customer_id,omitempty"`
	ExpiresAt  *string `json:"expires_at,omitempty"`
	SendEmail  *bool   `json:"send_email,omitempty"`
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = validator.NormalizeEmail(r.Email)
	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "email must be a valid email address")
	}

	if r.CustomerID != nil && !validator.IsValidUUID(*r.CustomerID) {
		errs.Add("customer_id", "customer_id must be a valid UUID")
	}

	if r.ExpiresAt != nil {
		if _, ok := validator.IsValidDateTime(*r.ExpiresAt); !ok {
			errs.Add("expires_at", "expires_at must be an RFC3339 timestamp")
		}
	}

	return errs.OrNil()
}

// ShouldSendEmail defaults to true.
func (r *CreateRequest) ShouldSendEmail() bool {
	return r.SendEmail == nil || *r.SendEmail
}

type BulkCreateRequest struct {
	CustomerID string   `json:"customer_id"`
	Emails     []string `json:"emails"`
	ExpiresAt  *string  `json:"expires_at,omitempty"`
	SendEmail  *bool    `json:"send_email,omitempty"`
}

// Validate normalises the email list, dropping repeats, and enforces max entries.
func (r *BulkCreateRequest) Validate(max int) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CustomerID) {
		errs.Add("customer_id", "customer_id is required")
	} else if !validator.IsValidUUID(r.CustomerID) {
		errs.Add("customer_id", "customer_id must be a valid UUID")
	}

	seen := make(map[string]struct{}, len(r.Emails))
	emails := make([]string, 0, len(r.Emails))
	for _, e := range r.Emails {
		e = validator.NormalizeEmail(e)
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		if !validator.IsValidEmail(e) {
			errs.Add("emails", "every entry in emails must be a valid email address")
			continue
		}
		emails = append(emails, e)
	}
	r.Emails = emails

	switch {
	case len(seen) == 0:
		errs.Add("emails", "emails must contain at least one address")
	case len(seen) > max:
		errs.Add("emails", "emails must not contain more than "+strconv.Itoa(max)+" addresses")
	}

	if r.ExpiresAt != nil {
		if _, ok := validator.IsValidDateTime(*r.ExpiresAt); !ok {
			errs.Add("expires_at", "expires_at must be an RFC3339 timestamp")
		}
	}

	return errs.OrNil()
}

func (r *BulkCreateRequest) ShouldSendEmail() bool {
	return r.SendEmail == nil || *r.SendEmail
}

type ExtendRequest struct {
	InvitationIDs []string `json:"invitation_ids"`
	Days          int      `json:"days"`
}

const maxExtendBatch = 100

func (r *ExtendRequest) Validate(maxDays int) error {
	var errs validator.ValidationErrors

	if len(r.InvitationIDs) == 0 {
		errs.Add("invitation_ids", "invitation_ids must contain at least one id")
	} else if len(r.InvitationIDs) > maxExtendBatch {
		errs.Add("invitation_ids", "invitation_ids must not contain more than "+strconv.Itoa(maxExtendBatch)+" ids")
	}
	for _, id := range r.InvitationIDs {
		if !validator.IsValidUUID(id) {
			errs.Add("invitation_ids", "invitation_ids must contain valid UUIDs")
			break
		}
	}
	validateDays(&errs, r.Days, maxDays)

	return errs.OrNil()
}

type ExtendOneRequest struct {
	Days int `json:"days"`
}

func (r *ExtendOneRequest) Validate(maxDays int) error {
	var errs validator.ValidationErrors
	validateDays(&errs, r.Days, maxDays)
	return errs.OrNil()
}

func validateDays(errs *validator.ValidationErrors, days, maxDays int) {
	if days < 1 || days > maxDays {
		errs.Add("days", "days must be between 1 and "+strconv.Itoa(maxDays))
	}
}

// AcceptRequest is the acceptance form posted by the invitee.
type AcceptRequest struct {
	Name                 string
	Password             string
	PasswordConfirmation string
	Terms                string
}

func (r *AcceptRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		errs.Add("name", "name is required")
	} else if len(r.Name) > 255 {
		errs.Add("name", "name must not exceed 255 characters")
	}

	if r.Password == "" {
		errs.Add("password", "password is required")
	} else if !validator.IsStrongPassword(r.Password) {
		errs.Add("password", validator.PasswordPolicyMessage)
	} else if r.Password != r.PasswordConfirmation {
		errs.Add("password", "password confirmation does not match")
	}

	if !validator.IsAccepted(r.Terms) {
		errs.Add("terms", "you must accept the terms of service")
	}

	return errs.OrNil()
}

// ListFilter narrows GET /admin/invitations.
type ListFilter struct {
	Status     *Status
	CustomerID *string
	Email      *string
}

type ListRequest struct {
	Filter ListFilter
	Page   pagination.Params
}

// ParseListRequest reads filters and paging from the query string.
func ParseListRequest(q url.Values) (ListRequest, error) {
	var errs validator.ValidationErrors
	var req ListRequest

	page, err := ListSpec.Parse(q)
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		errs = append(errs, ve...)
	} else if err != nil {
		return ListRequest{}, err
	}
	req.Page = page

	if s := strings.TrimSpace(q.Get("status")); s != "" {
		status := Status(strings.ToLower(s))
		if !status.IsValid() {
			errs.Add("status", "status must be one of: pending, accepted, expired, inactive")
		} else {
			req.Filter.Status = &status
		}
	}
	if c := strings.TrimSpace(q.Get("customer_id")); c != "" {
		if !validator.IsValidUUID(c) {
			errs.Add("customer_id", "customer_id must be a valid UUID")
		} else {
			req.Filter.CustomerID = &c
		}
	}
	if e := strings.TrimSpace(q.Get("email")); e != "" {
		e = strings.ToLower(e)
		req.Filter.Email = &e
	}

	return req, errs.OrNil()
}

type StatisticsRequest struct {
	CustomerID *string
	Days       int
}

func ParseStatisticsRequest(q url.Values, defaultDays int) (StatisticsRequest, error) {
	var errs validator.ValidationErrors
	req := StatisticsRequest{Days: defaultDays}

	if c := strings.TrimSpace(q.Get("customer_id")); c != "" {
		if !validator.IsValidUUID(c) {
			errs.Add("customer_id", "customer_id must be a valid UUID")
		} else {
			req.CustomerID = &c
		}
	}
	if d := strings.TrimSpace(q.Get("days")); d != "" {
		n, err := strconv.Atoi(d)
		if err != nil || n < 1 || n > 365 {
			errs.Add("days", "days must be between 1 and 365")
		} else {
			req.Days = n
		}
	}

	return req, errs.OrNil()
}

type InvitationResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	CompanyID   string     `json:"company_id"`
	CustomerID  *string    `json:"customer_id,omitempty"`
	CreatedBy   *string    `json:"created_by,omitempty"`
	Status      Status     `json:"status"`
	StatusLabel string     `json:"status_label"`
	IsValid     bool       `json:"is_valid"`
	Active      bool       `json:"active"`
	ExpiresAt   time.Time  `json:"expires_at"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewInvitationResponse shapes an invitation for the API. The token is never copied.
func NewInvitationResponse(inv Invitation, now time.Time) InvitationResponse {
	status := inv.Status(now)
	return InvitationResponse{
		ID:          inv.ID,
		Email:       inv.Email,
		CompanyID:   inv.CompanyID,
		CustomerID:  inv.CustomerID,
		CreatedBy:   inv.CreatedBy,
		Status:      status,
		StatusLabel: status.Label(),
		IsValid:     inv.IsValid(now),
		Active:      inv.Active,
		ExpiresAt:   inv.ExpiresAt,
		AcceptedAt:  inv.AcceptedAt,
		CreatedAt:   inv.CreatedAt,
		UpdatedAt:   inv.UpdatedAt,
	}
}

type BulkSkipped struct {
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

type BulkFailed struct {
	Email string `json:"email"`
	Error string `json:"error"`
}

type BulkCreateResponse struct {
	Created      []InvitationResponse `json:"created"`
	Skipped      []BulkSkipped        `json:"skipped"`
	Failed       []BulkFailed         `json:"failed"`
	CreatedCount int                  `json:"created_count"`
	SkippedCount int                  `json:"skipped_count"`
	FailedCount  int                  `json:"failed_count"`
}

// Skip reasons reported by bulk operations.
const (
	ReasonAlreadyInvited  = "already_invited"
	ReasonNotFound        = "not_found"
	ReasonAlreadyAccepted = "already_accepted"
)

type ExtendedItem struct {
	ID        string    `json:"id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ExtendSkipped struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

type ExtendResponse struct {
	Extended      []ExtendedItem  `json:"extended"`
	Skipped       []ExtendSkipped `json:"skipped"`
	ExtendedCount int             `json:"extended_count"`
	SkippedCount  int             `json:"skipped_count"`
}

type CleanupResponse struct {
	Deactivated int64 `json:"deactivated"`
}

type StatisticsResponse struct {
	Total              int64   `json:"total"`
	Pending            int64   `json:"pending"`
	Accepted           int64   `json:"accepted"`
	Expired            int64   `json:"expired"`
	Inactive           int64   `json:"inactive"`
	AcceptanceRate     float64 `json:"acceptance_rate"`
	CreatedToday       int64   `json:"created_today"`
	CreatedThisWeek    int64   `json:"created_this_week"`
	CreatedThisMonth   int64   `json:"created_this_month"`
	ExpiringSoon       int64   `json:"expiring_soon"`
	ExpiringWithinDays int     `json:"expiring_within_days"`
}

// AcceptanceView is what the public acceptance form shows.
type AcceptanceView struct {
	Email          string
	CustomerName   string
	CompanyName    string
	CompanyLogoURL *string
	ExpiresAt      time.Time
}

// AcceptResult identifies the customer the invitee can now sign in as.
type AcceptResult struct {
	InvitationID string
	CustomerID   string
	CompanyID    string
	Email        string
	Name         string
}
