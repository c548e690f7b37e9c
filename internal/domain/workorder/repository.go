package workorder

import (
	"context"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
)

// TransitionParams carries the columns written alongside the status change.
type TransitionParams struct {
	Transition Transition
	Notes      *string
	Reason     *string
	Now        time.Time
}

type WorkOrderRepository interface {
	GetForDriver(ctx context.Context, companyID, driverID, id string) (WorkOrder, error)
	ListForDriver(ctx context.Context, companyID, driverID string, filter ListFilter, page pagination.Params) ([]WorkOrder, int64, error)
	// ApplyTransition updates the row only while it is still in one of the
	// transition's source statuses. ok is false when no row matched.
	ApplyTransition(ctx context.Context, companyID, driverID, id string, params TransitionParams) (w WorkOrder, ok bool, err error)
	// NextForCustomer returns the earliest open work order scheduled on or after today.
	NextForCustomer(ctx context.Context, companyID, customerID string, today time.Time) (*WorkOrder, error)
}
