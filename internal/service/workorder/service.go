package workorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/workorder"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
)

type WorkOrderServiceImpl struct {
	workorder.WorkOrderRepository
	now func() time.Time
}

func NewWorkOrderService(repo workorder.WorkOrderRepository) *WorkOrderServiceImpl {
	return &WorkOrderServiceImpl{WorkOrderRepository: repo, now: time.Now}
}

var _ workorder.WorkOrderService = (*WorkOrderServiceImpl)(nil)

func (s *WorkOrderServiceImpl) List(ctx context.Context, p auth.Principal, req workorder.ListRequest) (pagination.Page[workorder.WorkOrderResponse], error) {
	if p.Kind != auth.KindDriver {
		return pagination.Page[workorder.WorkOrderResponse]{}, auth.ErrForbidden
	}

	items, total, err := s.WorkOrderRepository.ListForDriver(ctx, p.CompanyID, p.ID, req.Filter, req.Page)
	if err != nil {
		return pagination.Page[workorder.WorkOrderResponse]{}, err
	}
	return pagination.Map(pagination.NewPage(items, total, req.Page), workorder.NewWorkOrderResponse), nil
}

func (s *WorkOrderServiceImpl) Get(ctx context.Context, p auth.Principal, id string) (workorder.WorkOrderResponse, error) {
	if p.Kind != auth.KindDriver {
		return workorder.WorkOrderResponse{}, auth.ErrForbidden
	}

	w, err := s.WorkOrderRepository.GetForDriver(ctx, p.CompanyID, p.ID, id)
	if err != nil {
		return workorder.WorkOrderResponse{}, err
	}
	return workorder.NewWorkOrderResponse(w), nil
}

func (s *WorkOrderServiceImpl) Start(ctx context.Context, p auth.Principal, id string) (workorder.WorkOrderResponse, error) {
	return s.transition(ctx, p, id, workorder.TransitionParams{Transition: workorder.TransitionStart})
}

func (s *WorkOrderServiceImpl) Complete(ctx context.Context, p auth.Principal, id string, req workorder.CompleteRequest) (workorder.WorkOrderResponse, error) {
	if err := req.Validate(); err != nil {
		return workorder.WorkOrderResponse{}, err
	}
	params := workorder.TransitionParams{Transition: workorder.TransitionComplete}
	if req.Notes != nil {
		if notes := strings.TrimSpace(*req.Notes); notes != "" {
			params.Notes = &notes
		}
	}
	return s.transition(ctx, p, id, params)
}

func (s *WorkOrderServiceImpl) Cancel(ctx context.Context, p auth.Principal, id string, req workorder.CancelRequest) (workorder.WorkOrderResponse, error) {
	if err := req.Validate(); err != nil {
		return workorder.WorkOrderResponse{}, err
	}
	reason := strings.TrimSpace(req.Reason)
	return s.transition(ctx, p, id, workorder.TransitionParams{Transition: workorder.TransitionCancel, Reason: &reason})
}

// transition applies a status change with a conditional update. When nothing
// matched, the row is re-read to tell a missing order from a wrong status.
func (s *WorkOrderServiceImpl) transition(ctx context.Context, p auth.Principal, id string, params workorder.TransitionParams) (workorder.WorkOrderResponse, error) {
	if p.Kind != auth.KindDriver {
		return workorder.WorkOrderResponse{}, auth.ErrForbidden
	}
	params.Now = s.now()

	w, ok, err := s.WorkOrderRepository.ApplyTransition(ctx, p.CompanyID, p.ID, id, params)
	if err != nil {
		return workorder.WorkOrderResponse{}, err
	}
	if !ok {
		current, err := s.WorkOrderRepository.GetForDriver(ctx, p.CompanyID, p.ID, id)
		if err != nil {
			if errors.Is(err, workorder.ErrWorkOrderNotFound) {
				return workorder.WorkOrderResponse{}, err
			}
			return workorder.WorkOrderResponse{}, fmt.Errorf("failed to reload work order: %w", err)
		}
		slog.Debug("Rejected work order transition", "work_order_id", id, "status", current.Status, "transition", params.Transition)
		return workorder.WorkOrderResponse{}, workorder.ErrInvalidTransition
	}

	slog.Info("Work order updated", "work_order_id", w.ID, "driver_id", p.ID, "status", w.Status)
	return workorder.NewWorkOrderResponse(w), nil
}
