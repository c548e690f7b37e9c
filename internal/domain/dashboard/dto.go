package dashboard

import (
	"github.com/shopspring/decimal"
)

// NextService is the earliest upcoming work order for the customer.
type NextService struct {
	WorkOrderID    string  `json:"work_order_id"`
	OrderNumber    string  `json:"order_number"`
	Type           string  `json:"type"`
	ScheduledDate  string  `json:"scheduled_date"`
	ServiceAddress *string `json:"service_address,omitempty"`
}

type CustomerDashboardResponse struct {
	CustomerName        string          `json:"customer_name"`
	AccountNumber       string          `json:"account_number"`
	OutstandingBalance  decimal.Decimal `json:"outstanding_balance"`
	OpenInvoices        int64           `json:"open_invoices"`
	OverdueInvoices     int64           `json:"overdue_invoices"`
	OpenServiceRequests int64           `json:"open_service_requests"`
	UnreadNotifications int64           `json:"unread_notifications"`
	NextService         *NextService    `json:"next_service,omitempty"`
}
