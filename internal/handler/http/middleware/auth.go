package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/jwtauth/v5"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/user"
	"github.com/haulpoint/haulpoint-backend-go/internal/handler/http/response"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/jwt"
)

// CustomerSessionValidator verifies customer portal session tokens.
type CustomerSessionValidator interface {
	ValidateCustomerSessionToken(token string) (jwt.CustomerClaims, error)
}

// DriverAuthenticator resolves a driver bearer token to its principal.
type DriverAuthenticator interface {
	Authenticate(ctx context.Context, bearer string) (auth.Principal, error)
}

// ClientIP returns the caller address without the port. RealIP runs first,
// so RemoteAddr already reflects X-Forwarded-For when present.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// AuthRequired accepts only staff access tokens and stores the staff principal.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if !ok || tokenType != jwt.TypeAccess {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			userID, _ := claims["user_id"].(string)
			companyID, _ := claims["company_id"].(string)
			role, _ := claims["role"].(string)
			email, _ := claims["email"].(string)
			if userID == "" || companyID == "" {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			p := auth.Principal{
				Kind:      auth.KindUser,
				ID:        userID,
				CompanyID: companyID,
				Email:     email,
				Role:      user.Role(role),
				IPAddress: ClientIP(r),
			}
			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		}
		return http.HandlerFunc(hfn)
	}
}

// CustomerSessionToken reads the session from the cookie, falling back to a bearer header.
func CustomerSessionToken(r *http.Request) string {
	if c, err := r.Cookie(jwt.CustomerSessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	return jwtauth.TokenFromHeader(r)
}

func customerPrincipal(v CustomerSessionValidator, r *http.Request) (auth.Principal, bool) {
	raw := CustomerSessionToken(r)
	if raw == "" {
		return auth.Principal{}, false
	}
	claims, err := v.ValidateCustomerSessionToken(raw)
	if err != nil {
		return auth.Principal{}, false
	}
	return auth.Principal{
		Kind:      auth.KindCustomer,
		ID:        claims.CustomerID,
		CompanyID: claims.CompanyID,
		Email:     claims.Email,
		IPAddress: ClientIP(r),
	}, true
}

// CustomerRequired guards the customer JSON API.
func CustomerRequired(v CustomerSessionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := customerPrincipal(v, r)
			if !ok {
				response.HandleError(w, auth.ErrUnauthenticated)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}
}

// CustomerPageRequired guards customer HTML pages, redirecting to the login page instead of answering 401.
func CustomerPageRequired(v CustomerSessionValidator, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := customerPrincipal(v, r)
			if !ok {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}
}

// DriverRequired authenticates the opaque driver bearer token.
func DriverRequired(a DriverAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bearer := strings.TrimSpace(jwtauth.TokenFromHeader(r))
			if bearer == "" {
				response.HandleError(w, auth.ErrUnauthenticated)
				return
			}
			p, err := a.Authenticate(r.Context(), bearer)
			if err != nil {
				response.HandleError(w, err)
				return
			}
			p.IPAddress = ClientIP(r)
			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}
}
