package driver

import "time"

type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

var statusLabels = map[Status]string{
	StatusActive:    "Active",
	StatusInactive:  "Inactive",
	StatusSuspended: "Suspended",
}

func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

type Driver struct {
	ID            string
	CompanyID     string
	Name          string
	Email         string
	Phone         *string
	LicenseNumber *string
	PasswordHash  string
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Token is a personal access token issued to the mobile app. Only the hash of
// the secret half is stored.
type Token struct {
	ID         string
	DriverID   string
	Name       string
	TokenHash  string
	LastUsedAt *time.Time
	ExpiresAt  *time.Time
	CreatedAt  time.Time
}

func (t *Token) IsExpired(now time.Time) bool {
	return t.ExpiresAt != nil && !now.Before(*t.ExpiresAt)
}
