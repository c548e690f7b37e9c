package http

import (
	"encoding/json"
	"net/http"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/invitation"
	"github.com/haulpoint/haulpoint-backend-go/internal/handler/http/response"
)

// InvitationHandler serves the staff-facing invitation management API.
type InvitationHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	BulkCreate(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Resend(w http.ResponseWriter, r *http.Request)
	Deactivate(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Extend(w http.ResponseWriter, r *http.Request)
	ExtendOne(w http.ResponseWriter, r *http.Request)
	Cleanup(w http.ResponseWriter, r *http.Request)
	Statistics(w http.ResponseWriter, r *http.Request)
}

type invitationHandlerImpl struct {
	invitationService invitation.InvitationService
	expiringSoonDays  int
}

func NewInvitationHandler(invitationService invitation.InvitationService, expiringSoonDays int) InvitationHandler {
	return &invitationHandlerImpl{
		invitationService: invitationService,
		expiringSoonDays:  expiringSoonDays,
	}
}

func (h *invitationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	req, err := invitation.ParseListRequest(r.URL.Query())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	page, err := h.invitationService.List(r.Context(), p, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Paginated(w, page)
}

func (h *invitationHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req invitation.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.invitationService.Create(r.Context(), p, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Invitation created successfully", resp)
}

func (h *invitationHandlerImpl) BulkCreate(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req invitation.BulkCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.invitationService.BulkCreate(r.Context(), p, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Invitations processed", resp)
}

func (h *invitationHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	resp, err := h.invitationService.Get(r.Context(), p, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *invitationHandlerImpl) Resend(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	resp, err := h.invitationService.Resend(r.Context(), p, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Invitation resent successfully", resp)
}

func (h *invitationHandlerImpl) Deactivate(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	resp, err := h.invitationService.Deactivate(r.Context(), p, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Invitation deactivated", resp)
}

func (h *invitationHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.invitationService.Delete(r.Context(), p, id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Invitation deleted successfully", nil)
}

func (h *invitationHandlerImpl) Extend(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req invitation.ExtendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.invitationService.Extend(r.Context(), p, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Invitations extended", resp)
}

func (h *invitationHandlerImpl) ExtendOne(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req invitation.ExtendOneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.invitationService.ExtendOne(r.Context(), p, id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Invitation extended", resp)
}

func (h *invitationHandlerImpl) Cleanup(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	resp, err := h.invitationService.Cleanup(r.Context(), p)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Expired invitations cleaned up", resp)
}

func (h *invitationHandlerImpl) Statistics(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	req, err := invitation.ParseStatisticsRequest(r.URL.Query(), h.expiringSoonDays)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.invitationService.Statistics(r.Context(), p, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}
