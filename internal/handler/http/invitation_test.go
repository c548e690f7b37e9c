package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/invitation"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/user"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInvitationAdmin struct {
	invitation.InvitationService
	created   []invitation.CreateRequest
	lastList  invitation.ListRequest
	lastStats invitation.StatisticsRequest
	getCalls  int
}

func (f *fakeInvitationAdmin) Create(_ context.Context, p auth.Principal, req invitation.CreateRequest) (invitation.InvitationResponse, error) {
	if err := req.Validate(); err != nil {
		return invitation.InvitationResponse{}, err
	}
	if req.Email == "dup@acme.test" {
		return invitation.InvitationResponse{}, invitation.ErrInvitationExists
	}
	f.created = append(f.created, req)
	return invitation.InvitationResponse{
		ID:        "11111111-1111-1111-1111-111111111111",
		Email:     req.Email,
		CompanyID: p.CompanyID,
		Status:    invitation.StatusPending,
		Active:    true,
		ExpiresAt: time.Date(2026, 5, 8, 0, 0, 0, 0, time.UTC),
	}, nil
}

func (f *fakeInvitationAdmin) List(_ context.Context, _ auth.Principal, req invitation.ListRequest) (pagination.Page[invitation.InvitationResponse], error) {
	f.lastList = req
	items := []invitation.InvitationResponse{{ID: "inv-1", Email: "billing@acme.test", Status: invitation.StatusPending}}
	return pagination.NewPage(items, 1, req.Page), nil
}

func (f *fakeInvitationAdmin) Get(_ context.Context, _ auth.Principal, _ string) (invitation.InvitationResponse, error) {
	f.getCalls++
	return invitation.InvitationResponse{}, invitation.ErrInvitationNotFound
}

func (f *fakeInvitationAdmin) Statistics(_ context.Context, _ auth.Principal, req invitation.StatisticsRequest) (invitation.StatisticsResponse, error) {
	f.lastStats = req
	return invitation.StatisticsResponse{}, nil
}

var adminPrincipal = auth.Principal{
	Kind:      auth.KindUser,
	ID:        "u-1",
	CompanyID: "c-1",
	Email:     "admin@greenhaul.test",
	Role:      user.RoleAdmin,
}

func withPrincipal(p auth.Principal) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}
}

func newInvitationTestRouter(svc *fakeInvitationAdmin) *chi.Mux {
	h := NewInvitationHandler(svc, 3)
	r := chi.NewRouter()
	r.Post("/anon", h.Create)
	r.Group(func(r chi.Router) {
		r.Use(withPrincipal(adminPrincipal))
		r.Get("/invitations", h.List)
		r.Post("/invitations", h.Create)
		r.Get("/invitations/statistics", h.Statistics)
		r.Get("/invitations/{id}", h.Get)
	})
	return r
}

func serve(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestInvitationHandler_Create(t *testing.T) {
	svc := &fakeInvitationAdmin{}
	r := newInvitationTestRouter(svc)

	w := serve(r, http.MethodPost, "/invitations", `{"email":" Billing@Acme.test "}`)
	require.Equal(t, http.StatusCreated, w.Code)
	resp := decodeEnvelope(t, w)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "billing@acme.test", data["email"])
	assert.Equal(t, "c-1", data["company_id"])
	assert.Equal(t, "pending", data["status"])
	assert.NotContains(t, data, "token")
	require.Len(t, svc.created, 1)

	w = serve(r, http.MethodPost, "/invitations", `{"email":"dup@acme.test"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", decodeEnvelope(t, w)["code"])

	w = serve(r, http.MethodPost, "/invitations", `{"email":"nope"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, decodeEnvelope(t, w)["errors"], "email")

	w = serve(r, http.MethodPost, "/invitations", `{`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, http.MethodPost, "/anon", `{"email":"billing@acme.test"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Len(t, svc.created, 1)
}

func TestInvitationHandler_List(t *testing.T) {
	svc := &fakeInvitationAdmin{}
	r := newInvitationTestRouter(svc)

	w := serve(r, http.MethodGet, "/invitations?status=Pending&email=ACME&per_page=500&sort_by=email&sort_direction=asc", "")
	require.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, svc.lastList.Filter.Status)
	assert.Equal(t, invitation.StatusPending, *svc.lastList.Filter.Status)
	require.NotNil(t, svc.lastList.Filter.Email)
	assert.Equal(t, "acme", *svc.lastList.Filter.Email)
	assert.Equal(t, 100, svc.lastList.Page.PerPage)
	assert.Equal(t, "email", svc.lastList.Page.SortBy)
	assert.Equal(t, pagination.Asc, svc.lastList.Page.SortDirection)

	resp := decodeEnvelope(t, w)
	meta := resp["meta"].(map[string]interface{})
	assert.Equal(t, float64(1), meta["page"])
	assert.Equal(t, float64(100), meta["limit"])
	assert.Equal(t, float64(1), meta["total_items"])
	assert.Len(t, resp["data"], 1)

	w = serve(r, http.MethodGet, "/invitations?sort_by=token&status=lost", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	errs := decodeEnvelope(t, w)["errors"].(map[string]interface{})
	assert.Contains(t, errs, "sort_by")
	assert.Contains(t, errs, "status")
}

func TestInvitationHandler_Get_MalformedIDIsNotFound(t *testing.T) {
	svc := &fakeInvitationAdmin{}
	r := newInvitationTestRouter(svc)

	w := serve(r, http.MethodGet, "/invitations/not-a-uuid", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Zero(t, svc.getCalls)

	w = serve(r, http.MethodGet, "/invitations/22222222-2222-2222-2222-222222222222", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 1, svc.getCalls)
}

func TestInvitationHandler_Statistics_DefaultWindow(t *testing.T) {
	svc := &fakeInvitationAdmin{}
	r := newInvitationTestRouter(svc)

	w := serve(r, http.MethodGet, "/invitations/statistics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, svc.lastStats.Days)
	assert.Nil(t, svc.lastStats.CustomerID)

	w = serve(r, http.MethodGet, "/invitations/statistics?days=7", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 7, svc.lastStats.Days)
}
