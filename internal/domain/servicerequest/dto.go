package servicerequest

import (
	"net/url"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/validator"
)

var ListSpec = pagination.Spec{
	DefaultPerPage:   15,
	MaxPerPage:       50,
	DefaultSort:      "created_at",
	DefaultDirection: pagination.Desc,
	Sortable: map[string]string{
		"created_at":     "created_at",
		"preferred_date": "preferred_date",
		"status":         "status",
	},
}

type ListFilter struct {
	Status *Status
	Type   *Type
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

	if s := pagination.EnumParam(q, "status", Statuses(), &errs); s != nil {
		status := Status(*s)
		req.Filter.Status = &status
	}
	if t := pagination.EnumParam(q, "type", Types(), &errs); t != nil {
		typ := Type(*t)
		req.Filter.Type = &typ
	}

	return req, errs.OrNil()
}

type CreateRequest struct {
	Type           string  `json:"type"`
	Description    string  `json:"description"`
	ServiceAddress *string `json:"service_address,omitempty"`
	PreferredDate  *string `json:"preferred_date,omitempty"`
}

// Validate checks the body; preferred_date may not be earlier than today.
func (r *CreateRequest) Validate(today time.Time) error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(r.Type, Types()) {
		errs.Add("type", "type is not a known service request type")
	}
	if validator.IsEmpty(r.Description) {
		errs.Add("description", "description is required")
	} else if len(r.Description) > 2000 {
		errs.Add("description", "description must not exceed 2000 characters")
	}
	if r.ServiceAddress != nil && len(*r.ServiceAddress) > 500 {
		errs.Add("service_address", "service_address must not exceed 500 characters")
	}
	if r.PreferredDate != nil {
		d, ok := validator.IsValidDate(*r.PreferredDate)
		if !ok {
			errs.Add("preferred_date", "preferred_date must be a date in YYYY-MM-DD format")
		} else if d.Before(today) {
			errs.Add("preferred_date", "preferred_date must not be in the past")
		}
	}

	return errs.OrNil()
}

type CancelRequest struct {
	Reason *string `json:"reason,omitempty"`
}

func (r *CancelRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Reason != nil && len(*r.Reason) > 500 {
		errs.Add("reason", "reason must not exceed 500 characters")
	}
	return errs.OrNil()
}

type ServiceRequestResponse struct {
	ID                 string     `json:"id"`
	Type               Type       `json:"type"`
	TypeLabel          string     `json:"type_label"`
	Status             Status     `json:"status"`
	StatusLabel        string     `json:"status_label"`
	Description        string     `json:"description"`
	ServiceAddress     *string    `json:"service_address,omitempty"`
	PreferredDate      *string    `json:"preferred_date,omitempty"`
	ScheduledDate      *string    `json:"scheduled_date,omitempty"`
	CanCancel          bool       `json:"can_cancel"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason *string    `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

func NewServiceRequestResponse(r ServiceRequest) ServiceRequestResponse {
	return ServiceRequestResponse{
		ID:                 r.ID,
		Type:               r.Type,
		TypeLabel:          r.Type.Label(),
		Status:             r.Status,
		StatusLabel:        r.Status.Label(),
		Description:        r.Description,
		ServiceAddress:     r.ServiceAddress,
		PreferredDate:      formatDate(r.PreferredDate),
		ScheduledDate:      formatDate(r.ScheduledDate),
		CanCancel:          r.CanCancel(),
		CancelledAt:        r.CancelledAt,
		CancellationReason: r.CancellationReason,
		CreatedAt:          r.CreatedAt,
	}
}
