package fixtures

import (
	"testing"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/invoice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDemoInvoices_Totals(t *testing.T) {
	today := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	invoices := GetDemoInvoices("c-1", "cust-1", today)
	require.Len(t, invoices, 3)

	overdue := invoices[1]
	assert.Equal(t, "INV-2002", overdue.InvoiceNumber)
	assert.Equal(t, "385", overdue.Subtotal.String())
	assert.Equal(t, "30.8", overdue.Tax.String())
	assert.Equal(t, "415.8", overdue.Total.String())
	assert.True(t, overdue.AmountPaid.IsZero())
	assert.Equal(t, 1, overdue.Items[1].SortOrder)

	paid := invoices[0]
	assert.Equal(t, invoice.StatusPaid, paid.Status)
	assert.True(t, paid.AmountPaid.Equal(paid.Total))
	assert.True(t, paid.BalanceDue().IsZero())
}

func TestDemoAssignments_ReferenceSeededRows(t *testing.T) {
	drivers := map[string]bool{}
	for _, d := range GetDemoDrivers("c-1") {
		drivers[d.Email] = true
	}
	units := map[string]bool{}
	for _, v := range GetDemoVehicles("c-1") {
		units[v.UnitNumber] = true
	}
	accounts := map[string]bool{}
	for _, c := range GetDemoCustomers("c-1") {
		accounts[c.AccountNumber] = true
	}

	for email, unit := range DemoAssignments {
		assert.True(t, drivers[email], email)
		assert.True(t, units[unit], unit)
	}
	for _, wo := range GetDemoWorkOrders() {
		assert.True(t, accounts[wo.AccountNumber], wo.OrderNumber)
		assert.Contains(t, DemoAssignments, wo.DriverEmail, wo.OrderNumber)
	}
}
