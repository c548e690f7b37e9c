package invoice

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusDraft   Status = "draft"
	StatusSent    Status = "sent"
	StatusPartial Status = "partial"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
	StatusVoid    Status = "void"
)

var statusLabels = map[Status]string{
	StatusDraft:   "Draft",
	StatusSent:    "Sent",
	StatusPartial: "Partially paid",
	StatusPaid:    "Paid",
	StatusOverdue: "Overdue",
	StatusVoid:    "Void",
}

func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// IsOpen is true while money is still owed.
func (s Status) IsOpen() bool {
	return s == StatusSent || s == StatusPartial || s == StatusOverdue
}

// VisibleStatuses are the statuses a customer can see; drafts stay internal.
var VisibleStatuses = []string{
	string(StatusSent), string(StatusPartial), string(StatusPaid), string(StatusOverdue), string(StatusVoid),
}

type Invoice struct {
	ID            string
	CompanyID     string
	CustomerID    string
	InvoiceNumber string
	Status        Status
	InvoiceDate   time.Time
	DueDate       time.Time
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	AmountPaid    decimal.Decimal
	Notes         *string
	Items         []Item
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (i *Invoice) BalanceDue() decimal.Decimal {
	if i.Status == StatusVoid {
		return decimal.Zero
	}
	balance := i.Total.Sub(i.AmountPaid)
	if balance.IsNegative() {
		return decimal.Zero
	}
	return balance
}

// IsOverdue is true for open invoices past their due date, whether or not the
// status column has caught up yet.
func (i *Invoice) IsOverdue(now time.Time) bool {
	if !i.Status.IsOpen() {
		return false
	}
	return i.Status == StatusOverdue || now.After(i.DueDate.AddDate(0, 0, 1))
}

type Item struct {
	ID          string
	InvoiceID   string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal
	SortOrder   int
}

// Summary aggregates a customer's open invoices.
type Summary struct {
	OutstandingBalance decimal.Decimal
	OpenInvoices       int64
	OverdueInvoices    int64
}
