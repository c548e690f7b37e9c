package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/servicerequest"
	"github.com/haulpoint/haulpoint-backend-go/internal/handler/http/response"
)

type ServiceRequestHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
}

type serviceRequestHandlerImpl struct {
	serviceRequestService servicerequest.ServiceRequestService
}

func NewServiceRequestHandler(serviceRequestService servicerequest.ServiceRequestService) ServiceRequestHandler {
	return &serviceRequestHandlerImpl{serviceRequestService: serviceRequestService}
}

func (h *serviceRequestHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	req, err := servicerequest.ParseListRequest(r.URL.Query())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	page, err := h.serviceRequestService.List(r.Context(), p, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Paginated(w, page)
}

func (h *serviceRequestHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req servicerequest.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.serviceRequestService.Create(r.Context(), p, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Service request submitted", resp)
}

func (h *serviceRequestHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	resp, err := h.serviceRequestService.Get(r.Context(), p, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// Cancel takes an optional {"reason"} body.
func (h *serviceRequestHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req servicerequest.CancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.serviceRequestService.Cancel(r.Context(), p, id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Service request cancelled", resp)
}
