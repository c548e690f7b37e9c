package workorder

import (
	"net/url"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/validator"
)

var ListSpec = pagination.Spec{
	DefaultPerPage:   15,
	MaxPerPage:       50,
	DefaultSort:      "scheduled_date",
	DefaultDirection: pagination.Asc,
	Sortable: map[string]string{
		"scheduled_date": "scheduled_date",
		"priority":       "CASE priority WHEN 'urgent' THEN 4 WHEN 'high' THEN 3 WHEN 'normal' THEN 2 ELSE 1 END",
		"status":         "status",
	},
}

type ListFilter struct {
	Status *Status
	Date   *time.Time
	From   *time.Time
	To     *time.Time
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
	req.Filter.Date = pagination.DateParam(q, "date", &errs)
	req.Filter.From = pagination.DateParam(q, "from", &errs)
	req.Filter.To = pagination.DateParam(q, "to", &errs)
	if req.Filter.From != nil && req.Filter.To != nil && req.Filter.To.Before(*req.Filter.From) {
		errs.Add("to", "to must not be before from")
	}

	return req, errs.OrNil()
}

type CompleteRequest struct {
	Notes *string `json:"notes,omitempty"`
}

func (r *CompleteRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Notes != nil && len(*r.Notes) > 2000 {
		errs.Add("notes", "notes must not exceed 2000 characters")
	}
	return errs.OrNil()
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

func (r *CancelRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required")
	} else if len(r.Reason) > 500 {
		errs.Add("reason", "reason must not exceed 500 characters")
	}
	return errs.OrNil()
}

type WorkOrderResponse struct {
	ID                 string     `json:"id"`
	OrderNumber        string     `json:"order_number"`
	CustomerID         *string    `json:"customer_id,omitempty"`
	VehicleID          *string    `json:"vehicle_id,omitempty"`
	Type               string     `json:"type"`
	Status             Status     `json:"status"`
	StatusLabel        string     `json:"status_label"`
	Priority           Priority   `json:"priority"`
	PriorityLabel      string     `json:"priority_label"`
	ScheduledDate      *string    `json:"scheduled_date,omitempty"`
	ServiceAddress     *string    `json:"service_address,omitempty"`
	Description        *string    `json:"description,omitempty"`
	StartedAt          *time.Time `json:"started_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	CompletionNotes    *string    `json:"completion_notes,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason *string    `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

func NewWorkOrderResponse(w WorkOrder) WorkOrderResponse {
	var scheduled *string
	if w.ScheduledDate != nil {
		s := w.ScheduledDate.Format("2006-01-02")
		scheduled = &s
	}
	return WorkOrderResponse{
		ID:                 w.ID,
		OrderNumber:        w.OrderNumber,
		CustomerID:         w.CustomerID,
		VehicleID:          w.VehicleID,
		Type:               w.Type,
		Status:             w.Status,
		StatusLabel:        w.Status.Label(),
		Priority:           w.Priority,
		PriorityLabel:      w.Priority.Label(),
		ScheduledDate:      scheduled,
		ServiceAddress:     w.ServiceAddress,
		Description:        w.Description,
		StartedAt:          w.StartedAt,
		CompletedAt:        w.CompletedAt,
		CompletionNotes:    w.CompletionNotes,
		CancelledAt:        w.CancelledAt,
		CancellationReason: w.CancellationReason,
		CreatedAt:          w.CreatedAt,
	}
}
