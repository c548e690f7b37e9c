package invoice

import (
	"context"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/invoice"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
)

type InvoiceServiceImpl struct {
	invoice.InvoiceRepository
	now func() time.Time
}

func NewInvoiceService(invoiceRepository invoice.InvoiceRepository) *InvoiceServiceImpl {
	return &InvoiceServiceImpl{InvoiceRepository: invoiceRepository, now: time.Now}
}

var _ invoice.InvoiceService = (*InvoiceServiceImpl)(nil)

// List implements invoice.InvoiceService.
func (s *InvoiceServiceImpl) List(ctx context.Context, p auth.Principal, req invoice.ListRequest) (pagination.Page[invoice.InvoiceResponse], error) {
	if p.Kind != auth.KindCustomer {
		return pagination.Page[invoice.InvoiceResponse]{}, auth.ErrForbidden
	}

	items, total, err := s.InvoiceRepository.List(ctx, p.CompanyID, p.ID, req.Filter, req.Page)
	if err != nil {
		return pagination.Page[invoice.InvoiceResponse]{}, err
	}

	now := s.now()
	return pagination.Map(pagination.NewPage(items, total, req.Page), func(inv invoice.Invoice) invoice.InvoiceResponse {
		return invoice.NewInvoiceResponse(inv, now)
	}), nil
}

// Get implements invoice.InvoiceService.
func (s *InvoiceServiceImpl) Get(ctx context.Context, p auth.Principal, id string, includeItems bool) (invoice.InvoiceResponse, error) {
	if p.Kind != auth.KindCustomer {
		return invoice.InvoiceResponse{}, auth.ErrForbidden
	}

	inv, err := s.InvoiceRepository.GetByID(ctx, p.CompanyID, p.ID, id)
	if err != nil {
		return invoice.InvoiceResponse{}, err
	}
	if includeItems {
		if inv.Items, err = s.InvoiceRepository.ListItems(ctx, inv.ID); err != nil {
			return invoice.InvoiceResponse{}, err
		}
	}
	return invoice.NewInvoiceResponse(inv, s.now()), nil
}
