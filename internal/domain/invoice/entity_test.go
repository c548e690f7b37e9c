package invoice

import (
	"net/url"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanceDue(t *testing.T) {
	inv := Invoice{Status: StatusPartial, Total: decimal.RequireFromString("120.50"), AmountPaid: decimal.RequireFromString("20.25")}
	assert.Equal(t, "100.25", inv.BalanceDue().StringFixed(2))

	inv.Status = StatusVoid
	assert.True(t, inv.BalanceDue().IsZero())

	inv = Invoice{Status: StatusPaid, Total: decimal.NewFromInt(10), AmountPaid: decimal.NewFromInt(12)}
	assert.True(t, inv.BalanceDue().IsZero())
}

func TestIsOverdue(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	inv := Invoice{Status: StatusSent, DueDate: due}

	assert.False(t, inv.IsOverdue(due.Add(12*time.Hour)))
	assert.True(t, inv.IsOverdue(due.AddDate(0, 0, 2)))

	inv.Status = StatusPaid
	assert.False(t, inv.IsOverdue(due.AddDate(0, 1, 0)))
}

func TestStatusLabels(t *testing.T) {
	assert.Equal(t, "Partially paid", StatusPartial.Label())
	assert.True(t, StatusOverdue.IsOpen())
	assert.False(t, StatusDraft.IsOpen())
}

func TestParseListRequest(t *testing.T) {
	req, err := ParseListRequest(url.Values{"status": {"paid"}, "from": {"2026-01-01"}, "per_page": {"80"}})
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, *req.Filter.Status)
	assert.Equal(t, 50, req.Page.PerPage)
	assert.Equal(t, "invoice_date DESC", req.Page.OrderBy())

	_, err = ParseListRequest(url.Values{"status": {"draft"}})
	assert.Error(t, err)

	_, err = ParseListRequest(url.Values{"from": {"2026-02-01"}, "to": {"2026-01-01"}})
	assert.ErrorContains(t, err, "to must not be before from")
}

func TestIncludesItems(t *testing.T) {
	assert.True(t, IncludesItems(url.Values{"include": {"customer, items"}}))
	assert.False(t, IncludesItems(url.Values{}))
}

func TestNewInvoiceResponse_ItemsOnlyWhenLoaded(t *testing.T) {
	inv := Invoice{Status: StatusSent, Total: decimal.NewFromInt(5)}
	assert.Nil(t, NewInvoiceResponse(inv, time.Now()).Items)

	inv.Items = []Item{}
	assert.NotNil(t, NewInvoiceResponse(inv, time.Now()).Items)
}
