package activity

import (
	"context"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/activity"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/user"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
)

type ActivityServiceImpl struct {
	activity.ActivityRepository
}

func NewActivityService(activityRepository activity.ActivityRepository) activity.ActivityService {
	return &ActivityServiceImpl{ActivityRepository: activityRepository}
}

// List implements activity.ActivityService.
func (s *ActivityServiceImpl) List(ctx context.Context, p auth.Principal, req activity.ListRequest) (pagination.Page[activity.EntryResponse], error) {
	if !p.Can(user.PermissionActivityView) {
		return pagination.Page[activity.EntryResponse]{}, auth.ErrForbidden
	}

	entries, total, err := s.ActivityRepository.List(ctx, p.CompanyID, req.Filter, req.Page)
	if err != nil {
		return pagination.Page[activity.EntryResponse]{}, err
	}
	return pagination.Map(pagination.NewPage(entries, total, req.Page), activity.NewEntryResponse), nil
}
