package auth

import (
	"context"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/user"
)

// Kind distinguishes the three identity classes that can call the API.
type Kind string

const (
	KindUser     Kind = "user"
	KindCustomer Kind = "customer"
	KindDriver   Kind = "driver"
)

// Principal is the authenticated caller of a request. Middleware builds it and
// handlers pass it explicitly into services.
type Principal struct {
	Kind      Kind
	ID        string
	CompanyID string
	Email     string
	Role      user.Role
	IPAddress string
}

// Can reports whether a staff principal holds the permission. Customers and
// drivers never hold staff permissions.
func (p Principal) Can(perm user.Permission) bool {
	if p.Kind != KindUser {
		return false
	}
	return user.HasPermission(p.Role, perm)
}

func (p Principal) IsStaff() bool {
	return p.Kind == KindUser
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
