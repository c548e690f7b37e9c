package notification

import (
	"strings"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
)

// RecipientKind is the closed set of identity classes a notification can address.
type RecipientKind string

const (
	RecipientCustomer RecipientKind = "customer"
	RecipientDriver   RecipientKind = "driver"
	RecipientUser     RecipientKind = "user"
)

func (k RecipientKind) IsValid() bool {
	switch k {
	case RecipientCustomer, RecipientDriver, RecipientUser:
		return true
	}
	return false
}

// Recipient addresses one customer, driver or staff user.
type Recipient struct {
	Kind RecipientKind
	ID   string
}

// Key identifies the recipient's SSE stream, e.g. "customer:<id>".
func (r Recipient) Key() string {
	return string(r.Kind) + ":" + r.ID
}

// ParseRecipientKey is the inverse of Key.
func ParseRecipientKey(key string) (Recipient, error) {
	kind, id, ok := strings.Cut(key, ":")
	if !ok || id == "" || !RecipientKind(kind).IsValid() {
		return Recipient{}, ErrInvalidRecipient
	}
	return Recipient{Kind: RecipientKind(kind), ID: id}, nil
}

// RecipientFor maps the caller onto the recipient its own feed is addressed to.
func RecipientFor(p auth.Principal) Recipient {
	switch p.Kind {
	case auth.KindCustomer:
		return Recipient{Kind: RecipientCustomer, ID: p.ID}
	case auth.KindDriver:
		return Recipient{Kind: RecipientDriver, ID: p.ID}
	default:
		return Recipient{Kind: RecipientUser, ID: p.ID}
	}
}

type Type string

const (
	TypeGeneral              Type = "general"
	TypeInvoiceIssued        Type = "invoice_issued"
	TypeInvoicePaid          Type = "invoice_paid"
	TypeServiceRequestUpdate Type = "service_request_update"
	TypeWorkOrderAssigned    Type = "work_order_assigned"
	TypeInvitationAccepted   Type = "invitation_accepted"
)

var typeLabels = map[Type]string{
	TypeGeneral:              "General",
	TypeInvoiceIssued:        "Invoice issued",
	TypeInvoicePaid:          "Invoice paid",
	TypeServiceRequestUpdate: "Service request update",
	TypeWorkOrderAssigned:    "Work order assigned",
	TypeInvitationAccepted:   "Invitation accepted",
}

func (t Type) Label() string {
	if l, ok := typeLabels[t]; ok {
		return l
	}
	return string(t)
}

func (t Type) IsValid() bool {
	_, ok := typeLabels[t]
	return ok
}

type Notification struct {
	ID        string
	CompanyID string
	Recipient Recipient
	SenderID  *string
	Type      Type
	Title     string
	Message   string
	Data      map[string]interface{}
	ReadAt    *time.Time
	CreatedAt time.Time
}

func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}
