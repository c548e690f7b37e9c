package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/servicerequest"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/database"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

const serviceRequestColumns = `
	id, company_id, customer_id, type, status, description, service_address, preferred_date,
	scheduled_date, cancelled_at, cancellation_reason, created_at, updated_at`

type serviceRequestRepositoryImpl struct {
	db *database.DB
}

func NewServiceRequestRepository(db *database.DB) servicerequest.ServiceRequestRepository {
	return &serviceRequestRepositoryImpl{db: db}
}

func scanServiceRequest(row pgx.Row) (servicerequest.ServiceRequest, error) {
	var s servicerequest.ServiceRequest
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.CustomerID, &s.Type, &s.Status, &s.Description, &s.ServiceAddress,
		&s.PreferredDate, &s.ScheduledDate, &s.CancelledAt, &s.CancellationReason,
		&s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

func (r *serviceRequestRepositoryImpl) Create(ctx context.Context, s servicerequest.ServiceRequest) (servicerequest.ServiceRequest, error) {
	q := GetQuerier(ctx, r.db)

	if s.ID == "" {
		s.ID = newID()
	}
	if s.Status == "" {
		s.Status = servicerequest.StatusPending
	}

	query := `
		INSERT INTO service_requests (
			id, company_id, customer_id, type, status, description, service_address, preferred_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + serviceRequestColumns

	created, err := scanServiceRequest(q.QueryRow(ctx, query,
		s.ID, s.CompanyID, s.CustomerID, s.Type, s.Status, s.Description, s.ServiceAddress, s.PreferredDate,
	))
	if err != nil {
		return servicerequest.ServiceRequest{}, fmt.Errorf("failed to create service request: %w", err)
	}
	return created, nil
}

func (r *serviceRequestRepositoryImpl) GetByID(ctx context.Context, companyID, customerID, id string) (servicerequest.ServiceRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + serviceRequestColumns + `
		FROM service_requests
		WHERE company_id = $1 AND customer_id = $2 AND id = $3`

	s, err := scanServiceRequest(q.QueryRow(ctx, query, companyID, customerID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return servicerequest.ServiceRequest{}, servicerequest.ErrServiceRequestNotFound
		}
		return servicerequest.ServiceRequest{}, fmt.Errorf("failed to get service request: %w", err)
	}
	return s, nil
}

func (r *serviceRequestRepositoryImpl) List(ctx context.Context, companyID, customerID string, filter servicerequest.ListFilter, page pagination.Params) ([]servicerequest.ServiceRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	w := newWhere("company_id = ? AND customer_id = ?", companyID, customerID)
	if filter.Status != nil {
		w.add("status = ?", string(*filter.Status))
	}
	if filter.Type != nil {
		w.add("type = ?", string(*filter.Type))
	}

	items, total, err := fetchPage(ctx, q, listQuery{
		columns:  serviceRequestColumns,
		from:     "service_requests",
		where:    w,
		tiebreak: "id",
	}, page, scanServiceRequest)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list service requests: %w", err)
	}
	return items, total, nil
}

func (r *serviceRequestRepositoryImpl) Cancel(ctx context.Context, companyID, customerID, id string, reason *string, now time.Time) (servicerequest.ServiceRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE service_requests
		SET status = 'cancelled', cancelled_at = $1, cancellation_reason = $2, updated_at = $1
		WHERE company_id = $3 AND customer_id = $4 AND id = $5 AND status = 'pending'
		RETURNING ` + serviceRequestColumns

	s, err := scanServiceRequest(q.QueryRow(ctx, query, now, reason, companyID, customerID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, companyID, customerID, id); getErr != nil {
				return servicerequest.ServiceRequest{}, getErr
			}
			return servicerequest.ServiceRequest{}, servicerequest.ErrCannotCancel
		}
		return servicerequest.ServiceRequest{}, fmt.Errorf("failed to cancel service request: %w", err)
	}
	return s, nil
}

func (r *serviceRequestRepositoryImpl) CountOpen(ctx context.Context, companyID, customerID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	err := q.QueryRow(ctx, `
		SELECT COUNT(*) FROM service_requests
		WHERE company_id = $1 AND customer_id = $2 AND status IN ('pending', 'scheduled', 'in_progress')
	`, companyID, customerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count open service requests: %w", err)
	}
	return count, nil
}
