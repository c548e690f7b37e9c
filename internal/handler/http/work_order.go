package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/workorder"
	"github.com/haulpoint/haulpoint-backend-go/internal/handler/http/response"
)

type WorkOrderHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Start(w http.ResponseWriter, r *http.Request)
	Complete(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
}

type workOrderHandlerImpl struct {
	workOrderService workorder.WorkOrderService
}

func NewWorkOrderHandler(workOrderService workorder.WorkOrderService) WorkOrderHandler {
	return &workOrderHandlerImpl{workOrderService: workOrderService}
}

func (h *workOrderHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	req, err := workorder.ParseListRequest(r.URL.Query())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	page, err := h.workOrderService.List(r.Context(), p, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Paginated(w, page)
}

func (h *workOrderHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	resp, err := h.workOrderService.Get(r.Context(), p, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *workOrderHandlerImpl) Start(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	resp, err := h.workOrderService.Start(r.Context(), p, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Work order started", resp)
}

// Complete takes an optional {"notes"} body.
func (h *workOrderHandlerImpl) Complete(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req workorder.CompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.workOrderService.Complete(r.Context(), p, id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Work order completed", resp)
}

func (h *workOrderHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req workorder.CancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.workOrderService.Cancel(r.Context(), p, id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Work order cancelled", resp)
}
