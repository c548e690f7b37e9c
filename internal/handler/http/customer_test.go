package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/customer"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePortalLogin accepts a single customer account.
type fakePortalLogin struct {
	customer.CustomerService
	jwt jwt.Service
}

func (f *fakePortalLogin) Login(_ context.Context, req customer.LoginRequest) (customer.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return customer.SessionResponse{}, err
	}
	switch {
	case req.Email == "closed@acme.test":
		return customer.SessionResponse{}, customer.ErrAccountClosed
	case req.Email != "jane@acme.test" || req.Password != "Secret123":
		return customer.SessionResponse{}, customer.ErrInvalidCredentials
	}
	token, exp, err := f.jwt.GenerateCustomerSessionToken("cust-1", "c-1", req.Email)
	if err != nil {
		return customer.SessionResponse{}, err
	}
	return customer.SessionResponse{Token: token, ExpiresAt: exp}, nil
}

func newCustomerPageRouter(t *testing.T) (*chi.Mux, jwt.Service) {
	t.Helper()
	pages, err := NewPages(false)
	require.NoError(t, err)

	jwtSvc := newTestJWTService()
	h := NewCustomerHandler(&fakePortalLogin{jwt: jwtSvc}, nil, jwtSvc, pages, "/customer/login", "/customer/dashboard")

	r := chi.NewRouter()
	r.Get("/customer/login", h.LoginPage)
	r.Post("/customer/login", h.LoginSubmit)
	r.Post("/customer/logout", h.LogoutSubmit)
	return r, jwtSvc
}

func postLogin(r http.Handler, email, password string) *httptest.ResponseRecorder {
	form := url.Values{"email": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/customer/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCustomerHandler_LoginPage_ConsumesFlash(t *testing.T) {
	r, _ := newCustomerPageRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/customer/login", nil)
	req.AddCookie(&http.Cookie{Name: FlashCookie, Value: url.QueryEscape("This invitation has expired.")})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "This invitation has expired.")
	cleared := findCookie(w, FlashCookie)
	require.NotNil(t, cleared)
	assert.Less(t, cleared.MaxAge, 0)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/customer/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `class="flash"`)
}

func TestCustomerHandler_LoginSubmit(t *testing.T) {
	r, jwtSvc := newCustomerPageRouter(t)

	w := postLogin(r, "jane@acme.test", "Secret123")
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/customer/dashboard", w.Header().Get("Location"))
	session := findCookie(w, jwt.CustomerSessionCookie)
	require.NotNil(t, session)
	claims, err := jwtSvc.ValidateCustomerSessionToken(session.Value)
	require.NoError(t, err)
	assert.Equal(t, "cust-1", claims.CustomerID)

	cases := []struct {
		email, password string
		status          int
		message         string
	}{
		{"jane@acme.test", "wrong", http.StatusUnauthorized, "These credentials do not match our records."},
		{"closed@acme.test", "Secret123", http.StatusForbidden, "This account is no longer active."},
		{"", "", http.StatusUnprocessableEntity, "Please enter your email and password."},
	}
	for _, c := range cases {
		w := postLogin(r, c.email, c.password)
		assert.Equal(t, c.status, w.Code, c.email)
		assert.Contains(t, w.Body.String(), c.message)
		assert.Nil(t, findCookie(w, jwt.CustomerSessionCookie))
	}

	// the address is kept so the user only retypes the password
	w = postLogin(r, "jane@acme.test", "wrong")
	assert.Contains(t, w.Body.String(), `value="jane@acme.test"`)
}

func TestCustomerHandler_LogoutSubmit_RevokesSession(t *testing.T) {
	r, jwtSvc := newCustomerPageRouter(t)

	session := findCookie(postLogin(r, "jane@acme.test", "Secret123"), jwt.CustomerSessionCookie)
	require.NotNil(t, session)

	req := httptest.NewRequest(http.MethodPost, "/customer/logout", nil)
	req.AddCookie(&http.Cookie{Name: jwt.CustomerSessionCookie, Value: session.Value})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/customer/login", w.Header().Get("Location"))
	cleared := findCookie(w, jwt.CustomerSessionCookie)
	require.NotNil(t, cleared)
	assert.Less(t, cleared.MaxAge, 0)

	_, err := jwtSvc.ValidateCustomerSessionToken(session.Value)
	assert.Error(t, err)
}
