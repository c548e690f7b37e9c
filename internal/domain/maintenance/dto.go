package maintenance

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
	DefaultSort:      "created_at",
	DefaultDirection: pagination.Desc,
	Sortable: map[string]string{
		"created_at":     "mr.created_at",
		"scheduled_date": "mr.scheduled_date",
		"status":         "mr.status",
	},
}

type ListFilter struct {
	VehicleID *string
	Status    *Status
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
	if s := pagination.EnumParam(q, "status", Statuses(), &errs); s != nil {
		status := Status(*s)
		req.Filter.Status = &status
	}

	return req, errs.OrNil()
}

type CreateRequest struct {
	VehicleID   string `json:"vehicle_id"`
	Type        string `json:"type"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
	Odometer    *int   `json:"odometer,omitempty"`
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.VehicleID) {
		errs.Add("vehicle_id", "vehicle_id must be a valid UUID")
	}
	if !validator.IsInSlice(r.Type, Types()) {
		errs.Add("type", "type is not a known maintenance type")
	}
	if r.Priority == "" {
		r.Priority = string(PriorityNormal)
	} else if !validator.IsInSlice(r.Priority, Priorities()) {
		errs.Add("priority", "priority must be one of: low, normal, high, urgent")
	}
	if validator.IsEmpty(r.Description) {
		errs.Add("description", "description is required")
	} else if len(r.Description) > 2000 {
		errs.Add("description", "description must not exceed 2000 characters")
	}
	if r.Odometer != nil && *r.Odometer < 0 {
		errs.Add("odometer", "odometer must not be negative")
	}

	return errs.OrNil()
}

type RecordResponse struct {
	ID            string              `json:"id"`
	VehicleID     string              `json:"vehicle_id"`
	Type          Type                `json:"type"`
	TypeLabel     string              `json:"type_label"`
	Status        Status              `json:"status"`
	StatusLabel   string              `json:"status_label"`
	Priority      Priority            `json:"priority"`
	Description   string              `json:"description"`
	Odometer      *int                `json:"odometer,omitempty"`
	Cost          decimal.NullDecimal `json:"cost"`
	ScheduledDate *string             `json:"scheduled_date,omitempty"`
	CompletedAt   *time.Time          `json:"completed_at,omitempty"`
	ReportedByMe  bool                `json:"reported_by_me"`
	CreatedAt     time.Time           `json:"created_at"`
}

// NewRecordResponse renders r for the driver identified by viewerID.
func NewRecordResponse(r Record, viewerID string) RecordResponse {
	var scheduled *string
	if r.ScheduledDate != nil {
		s := r.ScheduledDate.Format("2006-01-02")
		scheduled = &s
	}
	return RecordResponse{
		ID:            r.ID,
		VehicleID:     r.VehicleID,
		Type:          r.Type,
		TypeLabel:     r.Type.Label(),
		Status:        r.Status,
		StatusLabel:   r.Status.Label(),
		Priority:      r.Priority,
		Description:   r.Description,
		Odometer:      r.Odometer,
		Cost:          r.Cost,
		ScheduledDate: scheduled,
		CompletedAt:   r.CompletedAt,
		ReportedByMe:  r.ReportedByDriverID != nil && *r.ReportedByDriverID == viewerID,
		CreatedAt:     r.CreatedAt,
	}
}
