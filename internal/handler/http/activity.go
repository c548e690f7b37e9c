package http

import (
	"net/http"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/activity"
	"github.com/haulpoint/haulpoint-backend-go/internal/handler/http/response"
)

type ActivityHandler interface {
	List(w http.ResponseWriter, r *http.Request)
}

type activityHandlerImpl struct {
	activityService activity.ActivityService
}

func NewActivityHandler(activityService activity.ActivityService) ActivityHandler {
	return &activityHandlerImpl{activityService: activityService}
}

func (h *activityHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	req, err := activity.ParseListRequest(r.URL.Query())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	page, err := h.activityService.List(r.Context(), p, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Paginated(w, page)
}
