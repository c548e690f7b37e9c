package servicerequest

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/servicerequest"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/validator"
)

type ServiceRequestServiceImpl struct {
	servicerequest.ServiceRequestRepository
	now func() time.Time
}

func NewServiceRequestService(repo servicerequest.ServiceRequestRepository) *ServiceRequestServiceImpl {
	return &ServiceRequestServiceImpl{ServiceRequestRepository: repo, now: time.Now}
}

var _ servicerequest.ServiceRequestService = (*ServiceRequestServiceImpl)(nil)

func (s *ServiceRequestServiceImpl) List(ctx context.Context, p auth.Principal, req servicerequest.ListRequest) (pagination.Page[servicerequest.ServiceRequestResponse], error) {
	if p.Kind != auth.KindCustomer {
		return pagination.Page[servicerequest.ServiceRequestResponse]{}, auth.ErrForbidden
	}

	items, total, err := s.ServiceRequestRepository.List(ctx, p.CompanyID, p.ID, req.Filter, req.Page)
	if err != nil {
		return pagination.Page[servicerequest.ServiceRequestResponse]{}, err
	}
	return pagination.Map(pagination.NewPage(items, total, req.Page), servicerequest.NewServiceRequestResponse), nil
}

func (s *ServiceRequestServiceImpl) Get(ctx context.Context, p auth.Principal, id string) (servicerequest.ServiceRequestResponse, error) {
	if p.Kind != auth.KindCustomer {
		return servicerequest.ServiceRequestResponse{}, auth.ErrForbidden
	}

	r, err := s.ServiceRequestRepository.GetByID(ctx, p.CompanyID, p.ID, id)
	if err != nil {
		return servicerequest.ServiceRequestResponse{}, err
	}
	return servicerequest.NewServiceRequestResponse(r), nil
}

// Create files a new pending request for the signed-in customer.
func (s *ServiceRequestServiceImpl) Create(ctx context.Context, p auth.Principal, req servicerequest.CreateRequest) (servicerequest.ServiceRequestResponse, error) {
	if p.Kind != auth.KindCustomer {
		return servicerequest.ServiceRequestResponse{}, auth.ErrForbidden
	}

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if err := req.Validate(today); err != nil {
		return servicerequest.ServiceRequestResponse{}, err
	}

	r := servicerequest.ServiceRequest{
		CompanyID:      p.CompanyID,
		CustomerID:     p.ID,
		Type:           servicerequest.Type(req.Type),
		Status:         servicerequest.StatusPending,
		Description:    strings.TrimSpace(req.Description),
		ServiceAddress: req.ServiceAddress,
	}
	if req.PreferredDate != nil {
		d, _ := validator.IsValidDate(*req.PreferredDate)
		r.PreferredDate = &d
	}

	created, err := s.ServiceRequestRepository.Create(ctx, r)
	if err != nil {
		return servicerequest.ServiceRequestResponse{}, err
	}
	slog.Info("Service request created", "service_request_id", created.ID, "customer_id", p.ID, "type", created.Type)
	return servicerequest.NewServiceRequestResponse(created), nil
}

// Cancel withdraws a request that has not been scheduled yet.
func (s *ServiceRequestServiceImpl) Cancel(ctx context.Context, p auth.Principal, id string, req servicerequest.CancelRequest) (servicerequest.ServiceRequestResponse, error) {
	if p.Kind != auth.KindCustomer {
		return servicerequest.ServiceRequestResponse{}, auth.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return servicerequest.ServiceRequestResponse{}, err
	}

	r, err := s.ServiceRequestRepository.Cancel(ctx, p.CompanyID, p.ID, id, req.Reason, s.now())
	if err != nil {
		return servicerequest.ServiceRequestResponse{}, err
	}
	return servicerequest.NewServiceRequestResponse(r), nil
}
