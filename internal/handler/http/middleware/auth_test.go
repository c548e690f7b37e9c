package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/driver"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/user"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWT() jwt.Service {
	return jwt.NewJWTService(jwt.Options{
		Secret:                 "middleware-test-secret-at-least-32-bytes",
		AccessTokenExpiration:  time.Hour,
		RefreshTokenExpiration: 24 * time.Hour,
		CustomerSessionTTL:     time.Hour,
	})
}

// echoPrincipal writes the principal kind and id so tests can see what the middleware stored.
func echoPrincipal(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	_, _ = w.Write([]byte(string(p.Kind) + ":" + p.ID + ":" + p.CompanyID + ":" + p.IPAddress))
}

func TestAuthRequired(t *testing.T) {
	svc := newTestJWT()
	r := chi.NewRouter()
	r.Use(jwtauth.Verifier(svc.JWTAuth()))
	r.Use(AuthRequired(svc.JWTAuth()))
	r.Get("/", echoPrincipal)

	access, _, err := svc.GenerateAccessToken("u-1", "owner@greenhaul.test", "c-1", user.RoleOwner)
	require.NoError(t, err)
	session, _, err := svc.GenerateCustomerSessionToken("cust-1", "c-1", "billing@acme.test")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(auth.KindUser)+":u-1:c-1:192.0.2.1", w.Body.String())

	// a customer session is not a staff token
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+session)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCustomerRequired_CookieOrBearer(t *testing.T) {
	svc := newTestJWT()
	h := CustomerRequired(svc)(http.HandlerFunc(echoPrincipal))

	token, _, err := svc.GenerateCustomerSessionToken("cust-1", "c-1", "billing@acme.test")
	require.NoError(t, err)
	want := string(auth.KindCustomer) + ":cust-1:c-1:192.0.2.1"

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: jwt.CustomerSessionCookie, Value: token})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, want, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, want, w.Body.String())

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: jwt.CustomerSessionCookie, Value: "garbage"})
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCustomerPageRequired_RedirectsToLogin(t *testing.T) {
	h := CustomerPageRequired(newTestJWT(), "/customer/login")(http.HandlerFunc(echoPrincipal))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/customer/dashboard", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/customer/login", w.Header().Get("Location"))
}

type fakeDriverAuth struct {
	token string
}

func (f fakeDriverAuth) Authenticate(_ context.Context, bearer string) (auth.Principal, error) {
	if bearer != f.token {
		return auth.Principal{}, driver.ErrInvalidToken
	}
	return auth.Principal{Kind: auth.KindDriver, ID: "d-1", CompanyID: "c-1"}, nil
}

func TestDriverRequired(t *testing.T) {
	h := DriverRequired(fakeDriverAuth{token: "opaque-driver-token"})(http.HandlerFunc(echoPrincipal))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer opaque-driver-token")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(auth.KindDriver)+":d-1:c-1:192.0.2.1", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:41234"
	assert.Equal(t, "203.0.113.9", ClientIP(req))

	req.RemoteAddr = "203.0.113.9"
	assert.Equal(t, "203.0.113.9", ClientIP(req))
}
