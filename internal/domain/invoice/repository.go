package invoice

import (
	"context"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
)

type InvoiceRepository interface {
	// List never returns drafts.
	List(ctx context.Context, companyID, customerID string, filter ListFilter, page pagination.Params) ([]Invoice, int64, error)
	GetByID(ctx context.Context, companyID, customerID, id string) (Invoice, error)
	ListItems(ctx context.Context, invoiceID string) ([]Item, error)
	Summary(ctx context.Context, companyID, customerID string, now time.Time) (Summary, error)
}
