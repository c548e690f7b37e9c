package activity

import (
	"net/url"
	"strings"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/validator"
)

var ListSpec = pagination.Spec{
	DefaultPerPage:   25,
	MaxPerPage:       100,
	DefaultSort:      "created_at",
	DefaultDirection: pagination.Desc,
	Sortable: map[string]string{
		"created_at": "created_at",
		"action":     "action",
	},
}

type ListFilter struct {
	Action      *string
	SubjectType *string
	SubjectID   *string
}

type ListRequest struct {
	Filter ListFilter
	Page   pagination.Params
}

func ParseListRequest(q url.Values) (ListRequest, error) {
	page, err := ListSpec.Parse(q)
	if err != nil {
		return ListRequest{}, err
	}
	req := ListRequest{Page: page}
	if v := strings.TrimSpace(q.Get("action")); v != "" {
		req.Filter.Action = &v
	}
	if v := strings.TrimSpace(q.Get("subject_type")); v != "" {
		req.Filter.SubjectType = &v
	}
	if v := strings.TrimSpace(q.Get("subject_id")); v != "" {
		if !validator.IsValidUUID(v) {
			var errs validator.ValidationErrors
			errs.Add("subject_id", "subject_id must be a valid UUID")
			return ListRequest{}, errs
		}
		req.Filter.SubjectID = &v
	}
	return req, nil
}

type EntryResponse struct {
	ID          string                 `json:"id"`
	ActorKind   string                 `json:"actor_kind"`
	ActorID     *string                `json:"actor_id,omitempty"`
	Action      string                 `json:"action"`
	SubjectType string                 `json:"subject_type"`
	SubjectID   *string                `json:"subject_id,omitempty"`
	Properties  map[string]interface{} `json:"properties,omitempty"`
	IPAddress   *string                `json:"ip_address,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

func NewEntryResponse(e Entry) EntryResponse {
	return EntryResponse{
		ID:          e.ID,
		ActorKind:   e.ActorKind,
		ActorID:     e.ActorID,
		Action:      e.Action,
		SubjectType: e.SubjectType,
		SubjectID:   e.SubjectID,
		Properties:  e.Properties,
		IPAddress:   e.IPAddress,
		CreatedAt:   e.CreatedAt,
	}
}
