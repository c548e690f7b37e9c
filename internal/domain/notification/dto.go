package notification

import (
	"net/url"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/validator"
)

var ListSpec = pagination.Spec{
	DefaultPerPage:   20,
	MaxPerPage:       100,
	DefaultSort:      "created_at",
	DefaultDirection: pagination.Desc,
	Sortable: map[string]string{
		"created_at": "created_at",
	},
}

// CreateNotificationRequest is queued by services; it is never bound from a request body.
type CreateNotificationRequest struct {
	CompanyID string
	Recipient Recipient
	SenderID  *string
	Type      Type
	Title     string
	Message   string
	Data      map[string]interface{}
}

// SendRequest is the admin "send a notification" body.
type SendRequest struct {
	RecipientKind string                 `json:"recipient_kind"`
	RecipientID   string                 `json:"recipient_id"`
	Type          string                 `json:"type"`
	Title         string                 `json:"title"`
	Message       string                 `json:"message"`
	Data          map[string]interface{} `json:"data,omitempty"`
}

func (r *SendRequest) Validate() error {
	var errs validator.ValidationErrors

	if !RecipientKind(r.RecipientKind).IsValid() {
		errs.Add("recipient_kind", "recipient_kind must be one of: customer, driver, user")
	}
	if !validator.IsValidUUID(r.RecipientID) {
		errs.Add("recipient_id", "recipient_id must be a valid UUID")
	}
	if r.Type == "" {
		r.Type = string(TypeGeneral)
	} else if !Type(r.Type).IsValid() {
		errs.Add("type", "type is not a known notification type")
	}
	if validator.IsEmpty(r.Title) {
		errs.Add("title", "title is required")
	} else if len(r.Title) > 255 {
		errs.Add("title", "title must not exceed 255 characters")
	}
	if validator.IsEmpty(r.Message) {
		errs.Add("message", "message is required")
	}

	return errs.OrNil()
}

func (r *SendRequest) Recipient() Recipient {
	return Recipient{Kind: RecipientKind(r.RecipientKind), ID: r.RecipientID}
}

type ListRequest struct {
	UnreadOnly bool
	Page       pagination.Params
}

func ParseListRequest(q url.Values) (ListRequest, error) {
	page, err := ListSpec.Parse(q)
	if err != nil {
		return ListRequest{}, err
	}
	return ListRequest{UnreadOnly: validator.IsAccepted(q.Get("unread")), Page: page}, nil
}

type NotificationResponse struct {
	ID        string                 `json:"id"`
	Type      Type                   `json:"type"`
	TypeLabel string                 `json:"type_label"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
	IsRead    bool                   `json:"is_read"`
	ReadAt    *time.Time             `json:"read_at,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

func NewNotificationResponse(n Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		TypeLabel: n.Type.Label(),
		Title:     n.Title,
		Message:   n.Message,
		Data:      n.Data,
		IsRead:    n.IsRead(),
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

type UnreadCountResponse struct {
	UnreadCount int64 `json:"unread_count"`
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
