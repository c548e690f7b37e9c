// Package fixtures holds the demo tenant used for local development and
// smoke tests: a hauling company with staff, customers, drivers, trucks,
// open invoices and a day of scheduled work.
package fixtures

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/customer"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/driver"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/invoice"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/user"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/vehicle"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/workorder"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const (
	DemoCompanySlug = "green-haul-demo"
	DemoCompanyName = "Green Haul Demo"

	// DemoPassword signs in every seeded staff user, driver and portal customer.
	DemoPassword = "Password1"
)

var ErrAlreadySeeded = errors.New("demo tenant already exists")

// ==========================================
// HELPER FUNCTIONS
// ==========================================

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

// ==========================================
// SEEDED DATA RESULT
// ==========================================

// SeededDataIDs holds the IDs of everything Seed created
type SeededDataIDs struct {
	CompanyID string

	// Staff user IDs by role
	UserIDs map[user.Role]string

	// Customer IDs by account number
	CustomerIDs map[string]string

	// Driver IDs by email
	DriverIDs map[string]string

	// Vehicle IDs by unit number
	VehicleIDs map[string]string

	// Invoice IDs by invoice number
	InvoiceIDs map[string]string

	// Work order IDs by order number
	WorkOrderIDs map[string]string
}

// NewSeededDataIDs creates a new SeededDataIDs with initialized maps
func NewSeededDataIDs() *SeededDataIDs {
	return &SeededDataIDs{
		UserIDs:      make(map[user.Role]string),
		CustomerIDs:  make(map[string]string),
		DriverIDs:    make(map[string]string),
		VehicleIDs:   make(map[string]string),
		InvoiceIDs:   make(map[string]string),
		WorkOrderIDs: make(map[string]string),
	}
}

// ==========================================
// DEFAULT STAFF
// ==========================================

type StaffUser struct {
	Email    string
	FullName string
	Role     user.Role
}

// GetDemoStaff returns one back office user per role
func GetDemoStaff() []StaffUser {
	return []StaffUser{
		{Email: "owner@greenhaul.test", FullName: "Olivia Owner", Role: user.RoleOwner},
		{Email: "admin@greenhaul.test", FullName: "Adam Admin", Role: user.RoleAdmin},
		{Email: "dispatch@greenhaul.test", FullName: "Dana Dispatch", Role: user.RoleDispatcher},
		{Email: "viewer@greenhaul.test", FullName: "Victor Viewer", Role: user.RoleViewer},
	}
}

// ==========================================
// DEFAULT CUSTOMERS
// ==========================================

// GetDemoCustomers returns customer accounts. The first already uses the
// portal; the others are waiting for an invitation.
func GetDemoCustomers(companyID string) []customer.Customer {
	return []customer.Customer{
		{
			CompanyID:      companyID,
			AccountNumber:  "AC-1001",
			Name:           "Acme Corp",
			Email:          strPtr("billing@acme.test"),
			Phone:          strPtr("+1 555 0100"),
			BillingAddress: strPtr("1 Industrial Way, Springfield"),
			ServiceAddress: strPtr("1 Industrial Way, Springfield"),
			Status:         customer.StatusActive,
			PortalAccess:   true,
		},
		{
			CompanyID:      companyID,
			AccountNumber:  "AC-1002",
			Name:           "Globex Warehouse",
			Email:          strPtr("facilities@globex.test"),
			ServiceAddress: strPtr("42 Dock Road, Springfield"),
			Status:         customer.StatusActive,
		},
		{
			CompanyID:      companyID,
			AccountNumber:  "AC-1003",
			Name:           "Initech Offices",
			Email:          strPtr("office@initech.test"),
			ServiceAddress: strPtr("9 Cubicle Court, Shelbyville"),
			Status:         customer.StatusActive,
		},
		{
			CompanyID:     companyID,
			AccountNumber: "AC-1004",
			Name:          "Shelbyville Diner",
			Status:        customer.StatusSuspended,
		},
	}
}

// ==========================================
// DEFAULT FLEET
// ==========================================

// GetDemoVehicles returns the trucks of the demo fleet
func GetDemoVehicles(companyID string) []vehicle.Vehicle {
	return []vehicle.Vehicle{
		{CompanyID: companyID, UnitNumber: "T-101", Make: strPtr("Mack"), Model: strPtr("LR"), Year: intPtr(2021), LicensePlate: strPtr("GH-101"), Type: vehicle.TypeRearLoader, Status: vehicle.StatusActive, Odometer: 48210},
		{CompanyID: companyID, UnitNumber: "T-102", Make: strPtr("Peterbilt"), Model: strPtr("520"), Year: intPtr(2019), LicensePlate: strPtr("GH-102"), Type: vehicle.TypeFrontLoader, Status: vehicle.StatusActive, Odometer: 90315},
		{CompanyID: companyID, UnitNumber: "T-201", Make: strPtr("Kenworth"), Model: strPtr("T880"), Year: intPtr(2022), LicensePlate: strPtr("GH-201"), Type: vehicle.TypeRollOff, Status: vehicle.StatusMaintenance, Odometer: 22870},
	}
}

// GetDemoDrivers returns drivers; PasswordHash is filled in by Seed
func GetDemoDrivers(companyID string) []driver.Driver {
	return []driver.Driver{
		{CompanyID: companyID, Name: "Dave Driver", Email: "dave@greenhaul.test", Phone: strPtr("+1 555 0200"), LicenseNumber: strPtr("CDL-44120"), Status: driver.StatusActive},
		{CompanyID: companyID, Name: "Rita Route", Email: "rita@greenhaul.test", Phone: strPtr("+1 555 0201"), LicenseNumber: strPtr("CDL-44121"), Status: driver.StatusActive},
		{CompanyID: companyID, Name: "Sam Spare", Email: "sam@greenhaul.test", Status: driver.StatusInactive},
	}
}

// DemoAssignments maps driver email to the unit number they drive
var DemoAssignments = map[string]string{
	"dave@greenhaul.test": "T-101",
	"rita@greenhaul.test": "T-102",
}

// ==========================================
// DEFAULT BILLING
// ==========================================

func item(description string, quantity, unitPrice string) invoice.Item {
	q := decimal.RequireFromString(quantity)
	p := decimal.RequireFromString(unitPrice)
	return invoice.Item{Description: description, Quantity: q, UnitPrice: p, Amount: q.Mul(p).Round(2)}
}

// GetDemoInvoices returns invoices for the portal customer, relative to today.
// Totals are derived from the items with a flat 8% tax.
func GetDemoInvoices(companyID, customerID string, today time.Time) []invoice.Invoice {
	invoices := []invoice.Invoice{
		{
			CompanyID:     companyID,
			CustomerID:    customerID,
			InvoiceNumber: "INV-2001",
			Status:        invoice.StatusPaid,
			InvoiceDate:   today.AddDate(0, -2, 0),
			DueDate:       today.AddDate(0, -1, 0),
			Items:         []invoice.Item{item("Weekly collection, 8 yd container", "4", "85.00")},
		},
		{
			CompanyID:     companyID,
			CustomerID:    customerID,
			InvoiceNumber: "INV-2002",
			Status:        invoice.StatusOverdue,
			InvoiceDate:   today.AddDate(0, -1, 0),
			DueDate:       today.AddDate(0, 0, -5),
			Items: []invoice.Item{
				item("Weekly collection, 8 yd container", "4", "85.00"),
				item("Extra pickup", "1", "45.00"),
			},
		},
		{
			CompanyID:     companyID,
			CustomerID:    customerID,
			InvoiceNumber: "INV-2003",
			Status:        invoice.StatusSent,
			InvoiceDate:   today,
			DueDate:       today.AddDate(0, 0, 30),
			Items: []invoice.Item{
				item("Weekly collection, 8 yd container", "4", "85.00"),
				item("Recycling tote rental", "2", "12.50"),
			},
		},
	}

	tax := decimal.RequireFromString("0.08")
	for i := range invoices {
		inv := &invoices[i]
		for j := range inv.Items {
			inv.Items[j].SortOrder = j
			inv.Subtotal = inv.Subtotal.Add(inv.Items[j].Amount)
		}
		inv.Tax = inv.Subtotal.Mul(tax).Round(2)
		inv.Total = inv.Subtotal.Add(inv.Tax)
		if inv.Status == invoice.StatusPaid {
			inv.AmountPaid = inv.Total
		}
	}
	return invoices
}

// ==========================================
// DEFAULT WORK
// ==========================================

type WorkOrder struct {
	OrderNumber    string
	AccountNumber  string
	DriverEmail    string
	Status         workorder.Status
	Priority       string
	ServiceAddress string
	Description    string
}

// GetDemoWorkOrders returns today's route
func GetDemoWorkOrders() []WorkOrder {
	return []WorkOrder{
		{OrderNumber: "WO-3001", AccountNumber: "AC-1001", DriverEmail: "dave@greenhaul.test", Status: workorder.StatusAssigned, Priority: "normal", ServiceAddress: "1 Industrial Way, Springfield", Description: "Weekly collection"},
		{OrderNumber: "WO-3002", AccountNumber: "AC-1002", DriverEmail: "dave@greenhaul.test", Status: workorder.StatusAssigned, Priority: "high", ServiceAddress: "42 Dock Road, Springfield", Description: "Overflowing container"},
		{OrderNumber: "WO-3003", AccountNumber: "AC-1003", DriverEmail: "rita@greenhaul.test", Status: workorder.StatusScheduled, Priority: "normal", ServiceAddress: "9 Cubicle Court, Shelbyville", Description: "Recycling pickup"},
	}
}

// ==========================================
// SEEDING
// ==========================================

// Seed creates the demo tenant in one transaction. It fails with
// ErrAlreadySeeded when the demo company exists.
func Seed(ctx context.Context, db *database.DB, now time.Time) (*SeededDataIDs, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash demo password: %w", err)
	}
	passwordHash := string(hash)

	tx, err := db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM companies WHERE slug = $1)`, DemoCompanySlug).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check demo company: %w", err)
	}
	if exists {
		return nil, ErrAlreadySeeded
	}

	ids := NewSeededDataIDs()
	if err := tx.QueryRow(ctx, `
		INSERT INTO companies (name, slug, email, phone, address)
		VALUES ($1, $2, 'office@greenhaul.test', '+1 555 0000', '100 Depot Lane, Springfield')
		RETURNING id
	`, DemoCompanyName, DemoCompanySlug).Scan(&ids.CompanyID); err != nil {
		return nil, fmt.Errorf("failed to create demo company: %w", err)
	}

	for _, u := range GetDemoStaff() {
		var id string
		if err := tx.QueryRow(ctx, `
			INSERT INTO users (company_id, email, full_name, password_hash, role, email_verified)
			VALUES ($1, $2, $3, $4, $5, TRUE)
			RETURNING id
		`, ids.CompanyID, u.Email, u.FullName, passwordHash, string(u.Role)).Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", u.Email, err)
		}
		ids.UserIDs[u.Role] = id
	}

	for _, c := range GetDemoCustomers(ids.CompanyID) {
		var id string
		if err := tx.QueryRow(ctx, `
			INSERT INTO customers (company_id, account_number, name, email, phone, billing_address, service_address,
				status, portal_access)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id
		`, c.CompanyID, c.AccountNumber, c.Name, c.Email, c.Phone, c.BillingAddress, c.ServiceAddress,
			string(c.Status), c.PortalAccess).Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to create customer %s: %w", c.AccountNumber, err)
		}
		ids.CustomerIDs[c.AccountNumber] = id

		if c.PortalAccess && c.Email != nil {
			if _, err := tx.Exec(ctx, `
				INSERT INTO customer_portal_users (company_id, customer_id, email, name, password_hash, email_verified_at)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, c.CompanyID, id, *c.Email, c.Name+" Billing", passwordHash, now); err != nil {
				return nil, fmt.Errorf("failed to create portal user for %s: %w", c.AccountNumber, err)
			}
		}
	}

	for _, v := range GetDemoVehicles(ids.CompanyID) {
		var id string
		if err := tx.QueryRow(ctx, `
			INSERT INTO vehicles (company_id, unit_number, make, model, year, license_plate, type, status, odometer)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id
		`, v.CompanyID, v.UnitNumber, v.Make, v.Model, v.Year, v.LicensePlate, string(v.Type), string(v.Status), v.Odometer).Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to create vehicle %s: %w", v.UnitNumber, err)
		}
		ids.VehicleIDs[v.UnitNumber] = id
	}

	for _, d := range GetDemoDrivers(ids.CompanyID) {
		var id string
		if err := tx.QueryRow(ctx, `
			INSERT INTO drivers (company_id, name, email, phone, license_number, password_hash, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`, d.CompanyID, d.Name, d.Email, d.Phone, d.LicenseNumber, passwordHash, string(d.Status)).Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to create driver %s: %w", d.Email, err)
		}
		ids.DriverIDs[d.Email] = id
	}

	for email, unit := range DemoAssignments {
		if _, err := tx.Exec(ctx, `
			INSERT INTO vehicle_assignments (company_id, vehicle_id, driver_id, assigned_at)
			VALUES ($1, $2, $3, $4)
		`, ids.CompanyID, ids.VehicleIDs[unit], ids.DriverIDs[email], now); err != nil {
			return nil, fmt.Errorf("failed to assign %s to %s: %w", email, unit, err)
		}
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for _, inv := range GetDemoInvoices(ids.CompanyID, ids.CustomerIDs["AC-1001"], today) {
		var id string
		if err := tx.QueryRow(ctx, `
			INSERT INTO invoices (company_id, customer_id, invoice_number, status, invoice_date, due_date,
				subtotal, tax, total, amount_paid)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id
		`, inv.CompanyID, inv.CustomerID, inv.InvoiceNumber, string(inv.Status), inv.InvoiceDate, inv.DueDate,
			inv.Subtotal, inv.Tax, inv.Total, inv.AmountPaid).Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to create invoice %s: %w", inv.InvoiceNumber, err)
		}
		ids.InvoiceIDs[inv.InvoiceNumber] = id

		for _, it := range inv.Items {
			if _, err := tx.Exec(ctx, `
				INSERT INTO invoice_items (invoice_id, description, quantity, unit_price, amount, sort_order)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, id, it.Description, it.Quantity, it.UnitPrice, it.Amount, it.SortOrder); err != nil {
				return nil, fmt.Errorf("failed to create invoice item: %w", err)
			}
		}
	}

	for _, wo := range GetDemoWorkOrders() {
		var id string
		if err := tx.QueryRow(ctx, `
			INSERT INTO work_orders (company_id, order_number, customer_id, driver_id, vehicle_id, status, priority,
				scheduled_date, service_address, description)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id
		`, ids.CompanyID, wo.OrderNumber, ids.CustomerIDs[wo.AccountNumber], ids.DriverIDs[wo.DriverEmail],
			ids.VehicleIDs[DemoAssignments[wo.DriverEmail]], string(wo.Status), wo.Priority, today,
			wo.ServiceAddress, wo.Description).Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to create work order %s: %w", wo.OrderNumber, err)
		}
		ids.WorkOrderIDs[wo.OrderNumber] = id
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit demo data: %w", err)
	}
	return ids, nil
}
