package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/customer"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/dashboard"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/invoice"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/notification"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/servicerequest"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/workorder"
)

type dashboardService struct {
	customers       customer.CustomerRepository
	invoices        invoice.InvoiceRepository
	serviceRequests servicerequest.ServiceRequestRepository
	notifications   notification.Repository
	workOrders      workorder.WorkOrderRepository
	now             func() time.Time
}

func NewDashboardService(
	customers customer.CustomerRepository,
	invoices invoice.InvoiceRepository,
	serviceRequests servicerequest.ServiceRequestRepository,
	notifications notification.Repository,
	workOrders workorder.WorkOrderRepository,
) dashboard.DashboardService {
	return &dashboardService{
		customers:       customers,
		invoices:        invoices,
		serviceRequests: serviceRequests,
		notifications:   notifications,
		workOrders:      workOrders,
		now:             time.Now,
	}
}

// CustomerSummary implements dashboard.DashboardService.
func (s *dashboardService) CustomerSummary(ctx context.Context, p auth.Principal) (dashboard.CustomerDashboardResponse, error) {
	if p.Kind != auth.KindCustomer {
		return dashboard.CustomerDashboardResponse{}, auth.ErrForbidden
	}

	c, err := s.customers.GetByID(ctx, p.CompanyID, p.ID)
	if err != nil {
		return dashboard.CustomerDashboardResponse{}, err
	}

	now := s.now().UTC()
	summary, err := s.invoices.Summary(ctx, p.CompanyID, p.ID, now)
	if err != nil {
		return dashboard.CustomerDashboardResponse{}, fmt.Errorf("failed to summarise invoices: %w", err)
	}
	openRequests, err := s.serviceRequests.CountOpen(ctx, p.CompanyID, p.ID)
	if err != nil {
		return dashboard.CustomerDashboardResponse{}, fmt.Errorf("failed to count service requests: %w", err)
	}
	unread, err := s.notifications.UnreadCount(ctx, p.CompanyID, notification.RecipientFor(p))
	if err != nil {
		return dashboard.CustomerDashboardResponse{}, fmt.Errorf("failed to count notifications: %w", err)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	next, err := s.workOrders.NextForCustomer(ctx, p.CompanyID, p.ID, today)
	if err != nil {
		return dashboard.CustomerDashboardResponse{}, fmt.Errorf("failed to load next service: %w", err)
	}

	resp := dashboard.CustomerDashboardResponse{
		CustomerName:        c.Name,
		AccountNumber:       c.AccountNumber,
		OutstandingBalance:  summary.OutstandingBalance,
		OpenInvoices:        summary.OpenInvoices,
		OverdueInvoices:     summary.OverdueInvoices,
		OpenServiceRequests: openRequests,
		UnreadNotifications: unread,
	}
	if next != nil {
		resp.NextService = &dashboard.NextService{
			WorkOrderID:    next.ID,
			OrderNumber:    next.OrderNumber,
			Type:           next.Type,
			ServiceAddress: next.ServiceAddress,
		}
		if next.ScheduledDate != nil {
			resp.NextService.ScheduledDate = next.ScheduledDate.Format("2006-01-02")
		}
	}
	return resp, nil
}
