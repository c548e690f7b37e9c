package user

import "time"

type Role string

const (
	RoleOwner      Role = "owner"      // Company owner - full access
	RoleAdmin      Role = "admin"      // Back office administrator
	RoleDispatcher Role = "dispatcher" // Schedules work orders, reads customers
	RoleViewer     Role = "viewer"     // Read-only staff
)

var roleLabels = map[Role]string{
	RoleOwner:      "Owner",
	RoleAdmin:      "Administrator",
	RoleDispatcher: "Dispatcher",
	RoleViewer:     "Viewer",
}

// Label returns the display name of the role.
func (r Role) Label() string {
	if l, ok := roleLabels[r]; ok {
		return l
	}
	return string(r)
}

func (r Role) IsValid() bool {
	_, ok := roleLabels[r]
	return ok
}

type User struct {
	ID              string
	CompanyID       string
	Email           string
	FullName        string
	PasswordHash    *string
	Role            Role
	OAuthProvider   *string
	OAuthProviderID *string
	EmailVerified   bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsOwner checks if user is company owner
func (u *User) IsOwner() bool {
	return u.Role == RoleOwner
}

// IsAdmin is true for owners and administrators.
func (u *User) IsAdmin() bool {
	return u.Role == RoleOwner || u.Role == RoleAdmin
}

// Can checks the role permission table.
func (u *User) Can(p Permission) bool {
	return HasPermission(u.Role, p)
}
