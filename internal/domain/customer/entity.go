package customer

import "time"

type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusClosed    Status = "closed"
)

var statusLabels = map[Status]string{
	StatusActive:    "Active",
	StatusSuspended: "Suspended",
	StatusClosed:    "Closed",
}

func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

type Customer struct {
	ID             string
	CompanyID      string
	AccountNumber  string
	Name           string
	Email          *string
	Phone          *string
	BillingAddress *string
	ServiceAddress *string
	Status         Status
	PortalAccess   bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PortalOpen is true when the customer's portal users may sign in.
func (c *Customer) PortalOpen() bool {
	return c.PortalAccess && c.Status != StatusClosed
}

// PortalUser is one person signing in to a customer's portal. A customer
// can have several; each tenant holds at most one per email address.
type PortalUser struct {
	ID              string
	CompanyID       string
	CustomerID      string
	Email           string
	Name            string
	PasswordHash    string
	EmailVerifiedAt *time.Time
	LastLoginAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PortalAccount is a portal user together with the customer it signs in to.
type PortalAccount struct {
	User     PortalUser
	Customer Customer
}

func (a *PortalAccount) CanSignIn() bool {
	return a.Customer.PortalOpen() && a.User.PasswordHash != ""
}
