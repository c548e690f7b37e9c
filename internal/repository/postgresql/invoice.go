package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/invoice"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/database"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

const invoiceColumns = `
	id, company_id, customer_id, invoice_number, status, invoice_date, due_date,
	subtotal, tax, total, amount_paid, notes, created_at, updated_at`

type invoiceRepositoryImpl struct {
	db *database.DB
}

func NewInvoiceRepository(db *database.DB) invoice.InvoiceRepository {
	return &invoiceRepositoryImpl{db: db}
}

func scanInvoice(row pgx.Row) (invoice.Invoice, error) {
	var i invoice.Invoice
	err := row.Scan(
		&i.ID, &i.CompanyID, &i.CustomerID, &i.InvoiceNumber, &i.Status, &i.InvoiceDate, &i.DueDate,
		&i.Subtotal, &i.Tax, &i.Total, &i.AmountPaid, &i.Notes, &i.CreatedAt, &i.UpdatedAt,
	)
	return i, err
}

func (r *invoiceRepositoryImpl) List(ctx context.Context, companyID, customerID string, filter invoice.ListFilter, page pagination.Params) ([]invoice.Invoice, int64, error) {
	q := GetQuerier(ctx, r.db)

	w := newWhere("company_id = ? AND customer_id = ?", companyID, customerID)
	w.add("status <> 'draft'")
	if filter.Status != nil {
		w.add("status = ?", string(*filter.Status))
	}
	if filter.From != nil {
		w.add("invoice_date >= ?", *filter.From)
	}
	if filter.To != nil {
		w.add("invoice_date <= ?", *filter.To)
	}

	items, total, err := fetchPage(ctx, q, listQuery{
		columns:  invoiceColumns,
		from:     "invoices",
		where:    w,
		tiebreak: "id",
	}, page, scanInvoice)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list invoices: %w", err)
	}
	return items, total, nil
}

func (r *invoiceRepositoryImpl) GetByID(ctx context.Context, companyID, customerID, id string) (invoice.Invoice, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE company_id = $1 AND customer_id = $2 AND id = $3 AND status <> 'draft'`

	i, err := scanInvoice(q.QueryRow(ctx, query, companyID, customerID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return invoice.Invoice{}, invoice.ErrInvoiceNotFound
		}
		return invoice.Invoice{}, fmt.Errorf("failed to get invoice: %w", err)
	}
	return i, nil
}

func (r *invoiceRepositoryImpl) ListItems(ctx context.Context, invoiceID string) ([]invoice.Item, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, invoice_id, description, quantity, unit_price, amount, sort_order
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY sort_order, id
	`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoice items: %w", err)
	}
	return collect(rows, func(row pgx.Row) (invoice.Item, error) {
		var it invoice.Item
		err := row.Scan(&it.ID, &it.InvoiceID, &it.Description, &it.Quantity, &it.UnitPrice, &it.Amount, &it.SortOrder)
		return it, err
	})
}

// Summary counts open invoices; an invoice is overdue by status or by a due date before today.
func (r *invoiceRepositoryImpl) Summary(ctx context.Context, companyID, customerID string, now time.Time) (invoice.Summary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COALESCE(SUM(GREATEST(total - amount_paid, 0)), 0),
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'overdue' OR due_date < $3::date)
		FROM invoices
		WHERE company_id = $1 AND customer_id = $2 AND status IN ('sent', 'partial', 'overdue')
	`

	var s invoice.Summary
	if err := q.QueryRow(ctx, query, companyID, customerID, now).Scan(&s.OutstandingBalance, &s.OpenInvoices, &s.OverdueInvoices); err != nil {
		return invoice.Summary{}, fmt.Errorf("failed to summarise invoices: %w", err)
	}
	return s, nil
}
