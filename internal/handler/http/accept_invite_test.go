package http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/customer"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/invitation"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/jwt"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/metrics"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeInvitations resolves tokens from a fixed table of outcomes.
type fakeInvitations struct {
	invitation.InvitationService
	states   map[string]error
	accepted []string
}

var testView = invitation.AcceptanceView{
	Email:        "billing@acme.test",
	CustomerName: "Acme Corp",
	CompanyName:  "Green Haul",
	ExpiresAt:    time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
}

func (f *fakeInvitations) Lookup(_ context.Context, token string) (invitation.AcceptanceView, error) {
	state, ok := f.states[token]
	if !ok {
		return invitation.AcceptanceView{}, invitation.ErrInvitationNotFound
	}
	if state != nil {
		return invitation.AcceptanceView{}, state
	}
	return testView, nil
}

func (f *fakeInvitations) Accept(ctx context.Context, token string, req invitation.AcceptRequest, _ string) (invitation.AcceptResult, error) {
	if _, err := f.Lookup(ctx, token); err != nil {
		return invitation.AcceptResult{}, err
	}
	if err := req.Validate(); err != nil {
		return invitation.AcceptResult{}, err
	}
	f.accepted = append(f.accepted, token)
	f.states[token] = invitation.ErrInvitationAlreadyUsed
	return invitation.AcceptResult{
		InvitationID: "inv-1",
		CustomerID:   "cust-1",
		CompanyID:    "c-1",
		Email:        testView.Email,
		Name:         req.Name,
	}, nil
}

type fakeSessions struct {
	customer.CustomerService
	jwt jwt.Service
}

func (f *fakeSessions) StartSession(_ context.Context, companyID, email string) (customer.SessionResponse, error) {
	token, exp, err := f.jwt.GenerateCustomerSessionToken("cust-1", companyID, email)
	if err != nil {
		return customer.SessionResponse{}, err
	}
	return customer.SessionResponse{Token: token, ExpiresAt: exp}, nil
}

func newAcceptTestRouter(t *testing.T) (*chi.Mux, *fakeInvitations, jwt.Service) {
	t.Helper()
	pages, err := NewPages(false)
	require.NoError(t, err)

	jwtSvc := newTestJWTService()
	invitations := &fakeInvitations{states: map[string]error{
		"good-token":     nil,
		"used-token":     invitation.ErrInvitationAlreadyUsed,
		"inactive-token": invitation.ErrInvitationInactive,
		"expired-token":  invitation.ErrInvitationExpired,
	}}
	h := NewAcceptInviteHandler(
		invitations,
		&fakeSessions{jwt: jwtSvc},
		jwtSvc,
		ratelimit.New(5, 15*time.Minute),
		ratelimit.New(8, 30*time.Minute),
		pages,
		"/customer/login",
		"/customer/dashboard",
	)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Get("/accept-invite/{token}", h.Show)
	r.Post("/accept-invite/{token}", h.Accept)
	return r, invitations, jwtSvc
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func flashMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	c := findCookie(w, FlashCookie)
	require.NotNil(t, c)
	msg, err := url.QueryUnescape(c.Value)
	require.NoError(t, err)
	return msg
}

func postAccept(r http.Handler, token string, form url.Values) *httptest.ResponseRecorder {
	return postAcceptFrom(r, token, form, "")
}

// postAcceptFrom submits the form claiming to be forwarded for addr.
func postAcceptFrom(r http.Handler, token string, form url.Values, addr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/accept-invite/"+token, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if addr != "" {
		req.Header.Set("X-Forwarded-For", addr)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validAcceptForm() url.Values {
	return url.Values{
		"name":                  {"Jane Doe"},
		"password":              {"Secret123"},
		"password_confirmation": {"Secret123"},
		"terms":                 {"1"},
	}
}

func TestAcceptInvite_Show(t *testing.T) {
	r, _, _ := newAcceptTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/accept-invite/good-token", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "billing@acme.test")
	assert.Contains(t, w.Body.String(), "Green Haul")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/accept-invite/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAcceptInvite_Show_UnusableRedirectsWithFlash(t *testing.T) {
	r, _, _ := newAcceptTestRouter(t)

	cases := map[string]string{
		"used-token":     "This invitation has already been used.",
		"inactive-token": "This invitation is no longer valid.",
		"expired-token":  "This invitation has expired.",
	}
	for token, want := range cases {
		t.Run(token, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/accept-invite/"+token, nil))

			assert.Equal(t, http.StatusSeeOther, w.Code)
			assert.Equal(t, "/customer/login", w.Header().Get("Location"))
			assert.Equal(t, want, flashMessage(t, w))
		})
	}
}

func TestAcceptInvite_Accept_StartsSession(t *testing.T) {
	r, invitations, jwtSvc := newAcceptTestRouter(t)

	w := postAccept(r, "good-token", validAcceptForm())

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/customer/dashboard", w.Header().Get("Location"))
	assert.Equal(t, []string{"good-token"}, invitations.accepted)

	session := findCookie(w, jwt.CustomerSessionCookie)
	require.NotNil(t, session)
	claims, err := jwtSvc.ValidateCustomerSessionToken(session.Value)
	require.NoError(t, err)
	assert.Equal(t, "cust-1", claims.CustomerID)
	assert.Equal(t, "c-1", claims.CompanyID)
	assert.Equal(t, testView.Email, claims.Email)

	// a second submission sees the consumed invitation
	w = postAccept(r, "good-token", validAcceptForm())
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "This invitation has already been used.", flashMessage(t, w))
}

func TestAcceptInvite_Accept_ValidationRerendersForm(t *testing.T) {
	r, invitations, _ := newAcceptTestRouter(t)

	form := validAcceptForm()
	form.Set("password_confirmation", "Different123")
	form.Del("terms")
	w := postAccept(r, "good-token", form)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "password confirmation does not match")
	assert.Contains(t, body, "you must accept the terms of service")
	assert.Contains(t, body, `value="Jane Doe"`)
	assert.Empty(t, invitations.accepted)
}

func TestAcceptInvite_Accept_RateLimitedPerTokenAndIP(t *testing.T) {
	r, _, _ := newAcceptTestRouter(t)
	before := testutil.ToFloat64(metrics.InvitationAcceptRateLimited)

	bad := validAcceptForm()
	bad.Set("password", "short")
	for i := 0; i < 5; i++ {
		w := postAccept(r, "good-token", bad)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	}

	w := postAccept(r, "good-token", validAcceptForm())
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "900", w.Header().Get("Retry-After"))
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.InvitationAcceptRateLimited))

	// another client address has its own allowance
	w = postAcceptFrom(r, "good-token", validAcceptForm(), "198.51.100.7")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/customer/dashboard", w.Header().Get("Location"))
}

func TestAcceptInvite_Accept_RotatingForwardedForStillLimited(t *testing.T) {
	r, invitations, _ := newAcceptTestRouter(t)

	bad := validAcceptForm()
	bad.Set("password", "short")
	for i := 0; i < 8; i++ {
		w := postAcceptFrom(r, "good-token", bad, fmt.Sprintf("203.0.113.%d", i+1))
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, "attempt %d", i+1)
	}

	w := postAcceptFrom(r, "good-token", validAcceptForm(), "203.0.113.200")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1800", w.Header().Get("Retry-After"))
	assert.Empty(t, invitations.accepted)

	// other tokens are unaffected
	w = postAcceptFrom(r, "expired-token", validAcceptForm(), "203.0.113.200")
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestAcceptInvite_Accept_ExpiredRedirectsToLogin(t *testing.T) {
	r, invitations, _ := newAcceptTestRouter(t)

	w := postAccept(r, "expired-token", validAcceptForm())

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/customer/login", w.Header().Get("Location"))
	assert.Equal(t, "This invitation has expired.", flashMessage(t, w))
	assert.Nil(t, findCookie(w, jwt.CustomerSessionCookie))
	assert.Empty(t, invitations.accepted)
}
