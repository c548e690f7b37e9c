package invoice

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
	DefaultSort:      "invoice_date",
	DefaultDirection: pagination.Desc,
	Sortable: map[string]string{
		"invoice_date": "invoice_date",
		"due_date":     "due_date",
		"total":        "total",
		"status":       "status",
	},
}

type ListFilter struct {
	Status *Status
	From   *time.Time
	To     *time.Time
}

type ListRequest struct {
	Filter ListFilter
	Page   pagination.Params
}

func ParseListRequest(q url.Values) (ListRequest, error) {
	var errs validator.ValidationErrors
	var req ListRequest

	page, err := ListSpec.Parse(q)
	if err != nil {
		return ListRequest{}, err
	}
	req.Page = page

	if s := pagination.EnumParam(q, "status", VisibleStatuses, &errs); s != nil {
		status := Status(*s)
		req.Filter.Status = &status
	}
	req.Filter.From = pagination.DateParam(q, "from", &errs)
	req.Filter.To = pagination.DateParam(q, "to", &errs)
	if req.Filter.From != nil && req.Filter.To != nil && req.Filter.To.Before(*req.Filter.From) {
		errs.Add("to", "to must not be before from")
	}

	return req, errs.OrNil()
}

// IncludesItems reports whether ?include= asks for line items.
func IncludesItems(q url.Values) bool {
	for _, part := range strings.Split(q.Get("include"), ",") {
		if strings.TrimSpace(part) == "items" {
			return true
		}
	}
	return false
}

type ItemResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

type InvoiceResponse struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	Status        Status          `json:"status"`
	StatusLabel   string          `json:"status_label"`
	InvoiceDate   string          `json:"invoice_date"`
	DueDate       string          `json:"due_date"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	BalanceDue    decimal.Decimal `json:"balance_due"`
	IsOverdue     bool            `json:"is_overdue"`
	Notes         *string         `json:"notes,omitempty"`
	Items         []ItemResponse  `json:"items,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func NewInvoiceResponse(inv Invoice, now time.Time) InvoiceResponse {
	resp := InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		Status:        inv.Status,
		StatusLabel:   inv.Status.Label(),
		InvoiceDate:   inv.InvoiceDate.Format("2006-01-02"),
		DueDate:       inv.DueDate.Format("2006-01-02"),
		Subtotal:      inv.Subtotal,
		Tax:           inv.Tax,
		Total:         inv.Total,
		AmountPaid:    inv.AmountPaid,
		BalanceDue:    inv.BalanceDue(),
		IsOverdue:     inv.IsOverdue(now),
		Notes:         inv.Notes,
		CreatedAt:     inv.CreatedAt,
	}
	if inv.Items != nil {
		resp.Items = make([]ItemResponse, len(inv.Items))
		for i, item := range inv.Items {
			resp.Items[i] = ItemResponse{
				ID:          item.ID,
				Description: item.Description,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				Amount:      item.Amount,
			}
		}
	}
	return resp
}
