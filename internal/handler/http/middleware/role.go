package middleware

import (
	"net/http"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/user"
	"github.com/haulpoint/haulpoint-backend-go/internal/handler/http/response"
)

// RequirePermission requires a staff principal whose role grants perm.
func RequirePermission(perm user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := auth.PrincipalFromContext(r.Context())
			if !ok {
				response.HandleError(w, auth.ErrUnauthenticated)
				return
			}
			if !p.Can(perm) {
				response.HandleError(w, user.ErrInsufficientPermissions)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
