package workorder

import (
	"context"
	"testing"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/workorder"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWorkOrders mirrors the conditional update of the postgres repository.
type fakeWorkOrders struct {
	workorder.WorkOrderRepository
	rows map[string]workorder.WorkOrder
}

func (f *fakeWorkOrders) GetForDriver(_ context.Context, companyID, driverID, id string) (workorder.WorkOrder, error) {
	w, ok := f.rows[id]
	if !ok || w.CompanyID != companyID || w.DriverID == nil || *w.DriverID != driverID {
		return workorder.WorkOrder{}, workorder.ErrWorkOrderNotFound
	}
	return w, nil
}

func (f *fakeWorkOrders) ListForDriver(ctx context.Context, companyID, driverID string, _ workorder.ListFilter, _ pagination.Params) ([]workorder.WorkOrder, int64, error) {
	var out []workorder.WorkOrder
	for id := range f.rows {
		if w, err := f.GetForDriver(ctx, companyID, driverID, id); err == nil {
			out = append(out, w)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeWorkOrders) ApplyTransition(ctx context.Context, companyID, driverID, id string, params workorder.TransitionParams) (workorder.WorkOrder, bool, error) {
	w, err := f.GetForDriver(ctx, companyID, driverID, id)
	if err != nil || !w.Can(params.Transition) {
		return workorder.WorkOrder{}, false, nil
	}

	now := params.Now
	w.Status = params.Transition.Target()
	switch params.Transition {
	case workorder.TransitionStart:
		w.StartedAt = &now
	case workorder.TransitionComplete:
		w.CompletedAt = &now
		w.CompletionNotes = params.Notes
	case workorder.TransitionCancel:
		w.CancelledAt = &now
		w.CancellationReason = params.Reason
	}
	f.rows[id] = w
	return w, true, nil
}

func strPtr(s string) *string { return &s }

var driverP = auth.Principal{Kind: auth.KindDriver, ID: "d-1", CompanyID: "c-1"}

func newTestService() (*WorkOrderServiceImpl, *fakeWorkOrders, time.Time) {
	clock := time.Date(2026, 5, 4, 7, 30, 0, 0, time.UTC)
	repo := &fakeWorkOrders{rows: map[string]workorder.WorkOrder{
		"wo-1": {ID: "wo-1", CompanyID: "c-1", OrderNumber: "WO-0001", DriverID: strPtr("d-1"), Status: workorder.StatusAssigned, Priority: workorder.PriorityNormal},
		"wo-2": {ID: "wo-2", CompanyID: "c-1", OrderNumber: "WO-0002", DriverID: strPtr("d-2"), Status: workorder.StatusAssigned, Priority: workorder.PriorityNormal},
	}}
	svc := NewWorkOrderService(repo)
	svc.now = func() time.Time { return clock }
	return svc, repo, clock
}

func TestWorkOrder_Lifecycle(t *testing.T) {
	svc, repo, clock := newTestService()
	ctx := context.Background()

	started, err := svc.Start(ctx, driverP, "wo-1")
	require.NoError(t, err)
	assert.Equal(t, workorder.StatusInProgress, started.Status)
	assert.Equal(t, clock, *repo.rows["wo-1"].StartedAt)

	// already started
	_, err = svc.Start(ctx, driverP, "wo-1")
	assert.ErrorIs(t, err, workorder.ErrInvalidTransition)
	_, err = svc.Cancel(ctx, driverP, "wo-1", workorder.CancelRequest{Reason: "road closed"})
	assert.ErrorIs(t, err, workorder.ErrInvalidTransition)

	done, err := svc.Complete(ctx, driverP, "wo-1", workorder.CompleteRequest{Notes: strPtr("  bins emptied  ")})
	require.NoError(t, err)
	assert.Equal(t, workorder.StatusCompleted, done.Status)
	assert.Equal(t, "bins emptied", *repo.rows["wo-1"].CompletionNotes)
}

func TestWorkOrder_Cancel(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Cancel(ctx, driverP, "wo-1", workorder.CancelRequest{Reason: "   "})
	assert.Error(t, err)
	assert.Equal(t, workorder.StatusAssigned, repo.rows["wo-1"].Status)

	resp, err := svc.Cancel(ctx, driverP, "wo-1", workorder.CancelRequest{Reason: " gate locked "})
	require.NoError(t, err)
	assert.Equal(t, workorder.StatusCancelled, resp.Status)
	assert.Equal(t, "gate locked", *repo.rows["wo-1"].CancellationReason)
}

func TestWorkOrder_OtherDriversOrder(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Get(ctx, driverP, "wo-2")
	assert.ErrorIs(t, err, workorder.ErrWorkOrderNotFound)

	_, err = svc.Start(ctx, driverP, "wo-2")
	assert.ErrorIs(t, err, workorder.ErrWorkOrderNotFound)
	assert.Equal(t, workorder.StatusAssigned, repo.rows["wo-2"].Status)

	page, err := svc.List(ctx, driverP, workorder.ListRequest{Page: pagination.Params{Page: 1, PerPage: 15}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "WO-0001", page.Items[0].OrderNumber)
}

func TestWorkOrder_StaffForbidden(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Start(context.Background(), auth.Principal{Kind: auth.KindUser, ID: "d-1", CompanyID: "c-1"}, "wo-1")
	assert.ErrorIs(t, err, auth.ErrForbidden)
}
