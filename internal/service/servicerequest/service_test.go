package servicerequest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/servicerequest"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRequests struct {
	rows map[string]servicerequest.ServiceRequest
}

func (f *fakeRequests) Create(_ context.Context, r servicerequest.ServiceRequest) (servicerequest.ServiceRequest, error) {
	r.ID = uuid.NewString()
	f.rows[r.ID] = r
	return r, nil
}

func (f *fakeRequests) GetByID(_ context.Context, companyID, customerID, id string) (servicerequest.ServiceRequest, error) {
	r, ok := f.rows[id]
	if !ok || r.CompanyID != companyID || r.CustomerID != customerID {
		return servicerequest.ServiceRequest{}, servicerequest.ErrServiceRequestNotFound
	}
	return r, nil
}

func (f *fakeRequests) List(_ context.Context, companyID, customerID string, _ servicerequest.ListFilter, _ pagination.Params) ([]servicerequest.ServiceRequest, int64, error) {
	var out []servicerequest.ServiceRequest
	for _, r := range f.rows {
		if r.CompanyID == companyID && r.CustomerID == customerID {
			out = append(out, r)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRequests) Cancel(ctx context.Context, companyID, customerID, id string, reason *string, now time.Time) (servicerequest.ServiceRequest, error) {
	r, err := f.GetByID(ctx, companyID, customerID, id)
	if err != nil {
		return r, err
	}
	if !r.CanCancel() {
		return servicerequest.ServiceRequest{}, servicerequest.ErrCannotCancel
	}
	r.Status, r.CancelledAt, r.CancellationReason = servicerequest.StatusCancelled, &now, reason
	f.rows[id] = r
	return r, nil
}

func (f *fakeRequests) CountOpen(context.Context, string, string) (int64, error) { return 0, nil }

func newTestService() (*ServiceRequestServiceImpl, *fakeRequests) {
	repo := &fakeRequests{rows: map[string]servicerequest.ServiceRequest{}}
	svc := NewServiceRequestService(repo)
	svc.now = func() time.Time { return time.Date(2026, 4, 10, 15, 0, 0, 0, time.UTC) }
	return svc, repo
}

var jane = auth.Principal{Kind: auth.KindCustomer, ID: "cust-1", CompanyID: "c-1"}

func TestCreate(t *testing.T) {
	svc, repo := newTestService()
	today := "2026-04-10"

	resp, err := svc.Create(context.Background(), jane, servicerequest.CreateRequest{
		Type:          "extra_pickup",
		Description:   "  Two extra bags after the party  ",
		PreferredDate: &today,
	})
	require.NoError(t, err)
	assert.Equal(t, servicerequest.StatusPending, resp.Status)
	assert.True(t, resp.CanCancel)
	assert.Equal(t, "Two extra bags after the party", repo.rows[resp.ID].Description)
	require.NotNil(t, resp.PreferredDate)
	assert.Equal(t, today, *resp.PreferredDate)

	yesterday := "2026-04-09"
	_, err = svc.Create(context.Background(), jane, servicerequest.CreateRequest{Type: "extra_pickup", Description: "x", PreferredDate: &yesterday})
	var ve validator.ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.ToMap(), "preferred_date")

	_, err = svc.Create(context.Background(), auth.Principal{Kind: auth.KindDriver, ID: "d-1", CompanyID: "c-1"}, servicerequest.CreateRequest{Type: "other", Description: "x"})
	assert.ErrorIs(t, err, auth.ErrForbidden)
}

func TestCancel_OnlyPending(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	resp, err := svc.Create(ctx, jane, servicerequest.CreateRequest{Type: "missed_pickup", Description: "Bin not emptied"})
	require.NoError(t, err)

	reason := "Picked up after all"
	cancelled, err := svc.Cancel(ctx, jane, resp.ID, servicerequest.CancelRequest{Reason: &reason})
	require.NoError(t, err)
	assert.Equal(t, servicerequest.StatusCancelled, cancelled.Status)
	assert.False(t, cancelled.CanCancel)

	_, err = svc.Cancel(ctx, jane, resp.ID, servicerequest.CancelRequest{})
	assert.ErrorIs(t, err, servicerequest.ErrCannotCancel)

	r := repo.rows[resp.ID]
	r.Status = servicerequest.StatusScheduled
	repo.rows[resp.ID] = r
	_, err = svc.Cancel(ctx, jane, resp.ID, servicerequest.CancelRequest{})
	assert.ErrorIs(t, err, servicerequest.ErrCannotCancel)
}

func TestGet_ScopedToCustomer(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	resp, err := svc.Create(ctx, jane, servicerequest.CreateRequest{Type: "billing", Description: "Charged twice"})
	require.NoError(t, err)

	neighbour := jane
	neighbour.ID = "cust-2"
	_, err = svc.Get(ctx, neighbour, resp.ID)
	assert.ErrorIs(t, err, servicerequest.ErrServiceRequestNotFound)

	page, err := svc.List(ctx, neighbour, servicerequest.ListRequest{Page: servicerequest.ListSpec.Defaults()})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}
