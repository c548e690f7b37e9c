package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/workorder"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/database"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

const workOrderColumns = `
	id, company_id, order_number, customer_id, driver_id, vehicle_id, service_request_id, type,
	status, priority, scheduled_date, service_address, description, started_at, completed_at,
	completion_notes, cancelled_at, cancellation_reason, created_at, updated_at`

type workOrderRepositoryImpl struct {
	db *database.DB
}

func NewWorkOrderRepository(db *database.DB) workorder.WorkOrderRepository {
	return &workOrderRepositoryImpl{db: db}
}

func scanWorkOrder(row pgx.Row) (workorder.WorkOrder, error) {
	var w workorder.WorkOrder
	err := row.Scan(
		&w.ID, &w.CompanyID, &w.OrderNumber, &w.CustomerID, &w.DriverID, &w.VehicleID,
		&w.ServiceRequestID, &w.Type, &w.Status, &w.Priority, &w.ScheduledDate, &w.ServiceAddress,
		&w.Description, &w.StartedAt, &w.CompletedAt, &w.CompletionNotes, &w.CancelledAt,
		&w.CancellationReason, &w.CreatedAt, &w.UpdatedAt,
	)
	return w, err
}

func (r *workOrderRepositoryImpl) GetForDriver(ctx context.Context, companyID, driverID, id string) (workorder.WorkOrder, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + workOrderColumns + ` FROM work_orders WHERE company_id = $1 AND driver_id = $2 AND id = $3`
	w, err := scanWorkOrder(q.QueryRow(ctx, query, companyID, driverID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return workorder.WorkOrder{}, workorder.ErrWorkOrderNotFound
		}
		return workorder.WorkOrder{}, fmt.Errorf("failed to get work order: %w", err)
	}
	return w, nil
}

func (r *workOrderRepositoryImpl) ListForDriver(ctx context.Context, companyID, driverID string, filter workorder.ListFilter, page pagination.Params) ([]workorder.WorkOrder, int64, error) {
	q := GetQuerier(ctx, r.db)

	w := newWhere("company_id = ? AND driver_id = ?", companyID, driverID)
	if filter.Status != nil {
		w.add("status = ?", string(*filter.Status))
	}
	if filter.Date != nil {
		w.add("scheduled_date = ?", *filter.Date)
	}
	if filter.From != nil {
		w.add("scheduled_date >= ?", *filter.From)
	}
	if filter.To != nil {
		w.add("scheduled_date <= ?", *filter.To)
	}

	items, total, err := fetchPage(ctx, q, listQuery{
		columns:  workOrderColumns,
		from:     "work_orders",
		where:    w,
		tiebreak: "order_number",
	}, page, scanWorkOrder)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list work orders: %w", err)
	}
	return items, total, nil
}

func (r *workOrderRepositoryImpl) ApplyTransition(ctx context.Context, companyID, driverID, id string, params workorder.TransitionParams) (workorder.WorkOrder, bool, error) {
	q := GetQuerier(ctx, r.db)

	args := []interface{}{params.Now, string(params.Transition.Target())}
	set := "status = $2, updated_at = $1"
	switch params.Transition {
	case workorder.TransitionStart:
		set += ", started_at = $1"
	case workorder.TransitionComplete:
		args = append(args, params.Notes)
		set += fmt.Sprintf(", completed_at = $1, completion_notes = $%d", len(args))
	case workorder.TransitionCancel:
		args = append(args, params.Reason)
		set += fmt.Sprintf(", cancelled_at = $1, cancellation_reason = $%d", len(args))
	default:
		return workorder.WorkOrder{}, false, fmt.Errorf("unknown work order transition %q", params.Transition)
	}

	sources := make([]string, 0, len(params.Transition.Sources()))
	for _, s := range params.Transition.Sources() {
		sources = append(sources, string(s))
	}
	args = append(args, companyID, driverID, id, sources)
	n := len(args)

	query := fmt.Sprintf(`
		UPDATE work_orders
		SET %s
		WHERE company_id = $%d AND driver_id = $%d AND id = $%d AND status = ANY($%d)
		RETURNING %s`, set, n-3, n-2, n-1, n, workOrderColumns)

	w, err := scanWorkOrder(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return workorder.WorkOrder{}, false, nil
		}
		return workorder.WorkOrder{}, false, fmt.Errorf("failed to update work order status: %w", err)
	}
	return w, true, nil
}

func (r *workOrderRepositoryImpl) NextForCustomer(ctx context.Context, companyID, customerID string, today time.Time) (*workorder.WorkOrder, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + workOrderColumns + `
		FROM work_orders
		WHERE company_id = $1 AND customer_id = $2
		  AND status IN ('scheduled', 'assigned', 'in_progress')
		  AND scheduled_date >= $3::date
		ORDER BY scheduled_date, order_number
		LIMIT 1`

	w, err := scanWorkOrder(q.QueryRow(ctx, query, companyID, customerID, today))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get next work order: %w", err)
	}
	return &w, nil
}
