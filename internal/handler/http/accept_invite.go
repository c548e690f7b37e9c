package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/customer"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/invitation"
	"github.com/haulpoint/haulpoint-backend-go/internal/handler/http/middleware"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/jwt"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/metrics"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/validator"
)

// AttemptLimiter counts failed attempts per key.
type AttemptLimiter interface {
	Exhausted(key string) bool
	Hit(key string)
	Reset(key string)
	RetryAfter() time.Duration
}

// AcceptInviteHandler serves the public invitation acceptance form.
type AcceptInviteHandler interface {
	Show(w http.ResponseWriter, r *http.Request)
	Accept(w http.ResponseWriter, r *http.Request)
}

type acceptInviteHandlerImpl struct {
	invitationService invitation.InvitationService
	customerService   customer.CustomerService
	jwtService        jwt.Service
	limiter           AttemptLimiter
	tokenLimiter      AttemptLimiter
	pages             *Pages
	loginPath         string
	dashboardPath     string
}

func NewAcceptInviteHandler(
	invitationService invitation.InvitationService,
	customerService customer.CustomerService,
	jwtService jwt.Service,
	limiter AttemptLimiter,
	tokenLimiter AttemptLimiter,
	pages *Pages,
	loginPath string,
	dashboardPath string,
) AcceptInviteHandler {
	return &acceptInviteHandlerImpl{
		invitationService: invitationService,
		customerService:   customerService,
		jwtService:        jwtService,
		limiter:           limiter,
		tokenLimiter:      tokenLimiter,
		pages:             pages,
		loginPath:         loginPath,
		dashboardPath:     dashboardPath,
	}
}

type acceptPage struct {
	Title   string
	Action  string
	View    invitation.AcceptanceView
	Message string
	Name    string
	Terms   bool
	Errors  map[string]string
}

func newAcceptPage(r *http.Request, view invitation.AcceptanceView) acceptPage {
	return acceptPage{
		Title:  view.CompanyName + " customer portal",
		Action: r.URL.Path,
		View:   view,
	}
}

// unusable sends the invitee away from a link that can no longer be used.
func (h *acceptInviteHandlerImpl) unusable(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, invitation.ErrInvitationNotFound):
		h.pages.Render(w, http.StatusNotFound, "invite_not_found.html", errorPage{
			Title:   "Invitation not found",
			Message: invitation.ReasonMessage(err),
		})
	case errors.Is(err, invitation.ErrInvitationAlreadyUsed),
		errors.Is(err, invitation.ErrInvitationInactive),
		errors.Is(err, invitation.ErrInvitationExpired),
		errors.Is(err, invitation.ErrInvitationNotUsable):
		h.pages.SetFlash(w, invitation.ReasonMessage(err))
		http.Redirect(w, r, h.loginPath, http.StatusSeeOther)
	default:
		slog.Error("Invitation acceptance failed", "error", err)
		h.pages.Error(w, http.StatusInternalServerError, "Something went wrong", "We could not process your invitation. Please try again later.")
	}
}

func (h *acceptInviteHandlerImpl) exhaustedLimiter(key, token string) (AttemptLimiter, bool) {
	if h.tokenLimiter.Exhausted(token) {
		return h.tokenLimiter, true
	}
	if h.limiter.Exhausted(key) {
		return h.limiter, true
	}
	return nil, false
}

// Show implements AcceptInviteHandler.
func (h *acceptInviteHandlerImpl) Show(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	view, err := h.invitationService.Lookup(r.Context(), token)
	if err != nil {
		h.unusable(w, r, err)
		return
	}
	h.pages.Render(w, http.StatusOK, "accept_invite.html", newAcceptPage(r, view))
}

// Accept implements AcceptInviteHandler.
//
// Failed attempts are counted twice: per token and client address, and per
// token alone. The client address comes from forwarding headers, so the
// token-wide budget is what caps a caller rotating them.
func (h *acceptInviteHandlerImpl) Accept(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	ip := middleware.ClientIP(r)
	key := token + "|" + ip

	if limiter, exhausted := h.exhaustedLimiter(key, token); exhausted {
		metrics.InvitationAcceptRateLimited.Inc()
		slog.Warn("Invitation acceptance rate limited", "ip", ip)
		w.Header().Set("Retry-After", strconv.Itoa(int(limiter.RetryAfter().Seconds())))
		h.pages.Error(w, http.StatusTooManyRequests, "Too many attempts", "Too many attempts. Please wait a few minutes and try again.")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.pages.Error(w, http.StatusBadRequest, "Invalid request", "The form could not be read.")
		return
	}

	req := invitation.AcceptRequest{
		Name:                 r.PostFormValue("name"),
		Password:             r.PostFormValue("password"),
		PasswordConfirmation: r.PostFormValue("password_confirmation"),
		Terms:                r.PostFormValue("terms"),
	}

	result, err := h.invitationService.Accept(r.Context(), token, req, ip)
	if err != nil {
		h.limiter.Hit(key)
		h.tokenLimiter.Hit(token)

		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			h.unusable(w, r, err)
			return
		}

		view, lookupErr := h.invitationService.Lookup(r.Context(), token)
		if lookupErr != nil {
			h.unusable(w, r, lookupErr)
			return
		}
		page := newAcceptPage(r, view)
		page.Name = req.Name
		page.Terms = validator.IsAccepted(req.Terms)
		page.Errors = validationErrs.ToMap()
		h.pages.Render(w, http.StatusUnprocessableEntity, "accept_invite.html", page)
		return
	}
	h.limiter.Reset(key)
	h.tokenLimiter.Reset(token)

	session, err := h.customerService.StartSession(r.Context(), result.CompanyID, result.Email)
	if err != nil {
		// the account is active; the invitee can still sign in by hand
		slog.Error("Failed to start customer session after acceptance", "customer_id", result.CustomerID, "error", err)
		h.pages.SetFlash(w, "Your account is ready. Please sign in.")
		http.Redirect(w, r, h.loginPath, http.StatusSeeOther)
		return
	}

	http.SetCookie(w, h.jwtService.CustomerSessionCookie(session.Token, session.ExpiresAt))
	http.Redirect(w, r, h.dashboardPath, http.StatusSeeOther)
}
