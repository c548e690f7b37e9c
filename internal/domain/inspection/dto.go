package inspection

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/validator"
)

var ListSpec = pagination.Spec{
	DefaultPerPage:   15,
	MaxPerPage:       50,
	DefaultSort:      "inspected_at",
	DefaultDirection: pagination.Desc,
	Sortable: map[string]string{
		"inspected_at": "inspected_at",
		"type":         "type",
		"result":       "result",
	},
}

type ListFilter struct {
	VehicleID *string
	Type      *Type
	Result    *Result
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
	if t := pagination.EnumParam(q, "type", Types(), &errs); t != nil {
		typ := Type(*t)
		req.Filter.Type = &typ
	}
	if r := pagination.EnumParam(q, "result", []string{string(ResultPass), string(ResultFail)}, &errs); r != nil {
		result := Result(*r)
		req.Filter.Result = &result
	}

	return req, errs.OrNil()
}

type CreateRequest struct {
	VehicleID string  `json:"vehicle_id"`
	Type      string  `json:"type"`
	Odometer  *int    `json:"odometer,omitempty"`
	Items     []Item  `json:"items"`
	Defects   *string `json:"defects,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.VehicleID) {
		errs.Add("vehicle_id", "vehicle_id must be a valid UUID")
	}
	if !validator.IsInSlice(r.Type, Types()) {
		errs.Add("type", "type must be one of: pre_trip, post_trip")
	}
	if r.Odometer != nil && *r.Odometer < 0 {
		errs.Add("odometer", "odometer must not be negative")
	}
	if len(r.Items) == 0 {
		errs.Add("items", "items must contain at least one checklist item")
	} else if len(r.Items) > 100 {
		errs.Add("items", "items must not contain more than 100 entries")
	}
	for i, item := range r.Items {
		if validator.IsEmpty(item.Name) {
			errs.Add(fmt.Sprintf("items.%d.name", i), "name is required")
		}
	}
	// A failed item needs a description of what is wrong.
	if ResultOf(r.Items) == ResultFail && (r.Defects == nil || validator.IsEmpty(*r.Defects)) {
		errs.Add("defects", "defects is required when an item fails")
	}
	if r.Notes != nil && len(*r.Notes) > 2000 {
		errs.Add("notes", "notes must not exceed 2000 characters")
	}

	return errs.OrNil()
}

type InspectionResponse struct {
	ID          string    `json:"id"`
	VehicleID   string    `json:"vehicle_id"`
	Type        Type      `json:"type"`
	TypeLabel   string    `json:"type_label"`
	Result      Result    `json:"result"`
	ResultLabel string    `json:"result_label"`
	Odometer    *int      `json:"odometer,omitempty"`
	Items       []Item    `json:"items"`
	Defects     *string   `json:"defects,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
	InspectedAt time.Time `json:"inspected_at"`
}

func NewInspectionResponse(i Inspection) InspectionResponse {
	items := i.Items
	if items == nil {
		items = []Item{}
	}
	return InspectionResponse{
		ID:          i.ID,
		VehicleID:   i.VehicleID,
		Type:        i.Type,
		TypeLabel:   i.Type.Label(),
		Result:      i.Result,
		ResultLabel: i.Result.Label(),
		Odometer:    i.Odometer,
		Items:       items,
		Defects:     i.Defects,
		Notes:       i.Notes,
		InspectedAt: i.InspectedAt,
	}
}
