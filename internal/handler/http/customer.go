package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/customer"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/dashboard"
	"github.com/haulpoint/haulpoint-backend-go/internal/handler/http/middleware"
	"github.com/haulpoint/haulpoint-backend-go/internal/handler/http/response"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/jwt"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/validator"
)

// CustomerHandler serves the customer portal: its JSON API and its HTML pages.
type CustomerHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	Profile(w http.ResponseWriter, r *http.Request)
	UpdateProfile(w http.ResponseWriter, r *http.Request)
	ChangePassword(w http.ResponseWriter, r *http.Request)
	Dashboard(w http.ResponseWriter, r *http.Request)

	LoginPage(w http.ResponseWriter, r *http.Request)
	LoginSubmit(w http.ResponseWriter, r *http.Request)
	LogoutSubmit(w http.ResponseWriter, r *http.Request)
	DashboardPage(w http.ResponseWriter, r *http.Request)
}

type customerHandlerImpl struct {
	customerService  customer.CustomerService
	dashboardService dashboard.DashboardService
	jwtService       jwt.Service
	pages            *Pages
	loginPath        string
	dashboardPath    string
}

func NewCustomerHandler(
	customerService customer.CustomerService,
	dashboardService dashboard.DashboardService,
	jwtService jwt.Service,
	pages *Pages,
	loginPath string,
	dashboardPath string,
) CustomerHandler {
	return &customerHandlerImpl{
		customerService:  customerService,
		dashboardService: dashboardService,
		jwtService:       jwtService,
		pages:            pages,
		loginPath:        loginPath,
		dashboardPath:    dashboardPath,
	}
}

func (h *customerHandlerImpl) setSession(w http.ResponseWriter, session customer.SessionResponse) {
	http.SetCookie(w, h.jwtService.CustomerSessionCookie(session.Token, session.ExpiresAt))
}

// endSession revokes the presented session token and clears the cookie.
func (h *customerHandlerImpl) endSession(w http.ResponseWriter, r *http.Request) {
	if raw := middleware.CustomerSessionToken(r); raw != "" {
		if claims, err := h.jwtService.ValidateCustomerSessionToken(raw); err == nil {
			h.jwtService.RevokeToken(raw, claims.ExpiresAt)
		}
	}
	cleared := h.jwtService.CustomerSessionCookie("", 0)
	cleared.MaxAge = -1
	http.SetCookie(w, cleared)
}

func (h *customerHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var req customer.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	session, err := h.customerService.Login(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	h.setSession(w, session)
	response.SuccessWithMessage(w, "Logged in successfully", session)
}

func (h *customerHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	h.endSession(w, r)
	response.SuccessWithMessage(w, "Logged out successfully", nil)
}

func (h *customerHandlerImpl) Profile(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	resp, err := h.customerService.Profile(r.Context(), p)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *customerHandlerImpl) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req customer.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.customerService.UpdateProfile(r.Context(), p, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Profile updated successfully", resp)
}

func (h *customerHandlerImpl) ChangePassword(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req customer.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := h.customerService.ChangePassword(r.Context(), p, req); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Password changed successfully", nil)
}

func (h *customerHandlerImpl) Dashboard(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	resp, err := h.dashboardService.CustomerSummary(r.Context(), p)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

type loginPage struct {
	Title   string
	Action  string
	Message string
	Email   string
}

func (h *customerHandlerImpl) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.pages.Render(w, http.StatusOK, "customer_login.html", loginPage{
		Title:   "Customer portal",
		Action:  h.loginPath,
		Message: h.pages.TakeFlash(w, r),
	})
}

func (h *customerHandlerImpl) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.pages.Error(w, http.StatusBadRequest, "Invalid request", "The form could not be read.")
		return
	}

	req := customer.LoginRequest{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	session, err := h.customerService.Login(r.Context(), req)
	if err != nil {
		page := loginPage{Title: "Customer portal", Action: h.loginPath, Email: req.Email}
		status := http.StatusUnauthorized

		var validationErrs validator.ValidationErrors
		switch {
		case errors.As(err, &validationErrs):
			page.Message = "Please enter your email and password."
			status = http.StatusUnprocessableEntity
		case errors.Is(err, customer.ErrInvalidCredentials):
			page.Message = "These credentials do not match our records."
		case errors.Is(err, customer.ErrAccountClosed):
			page.Message = "This account is no longer active."
			status = http.StatusForbidden
		default:
			slog.Error("Customer login failed", "error", err)
			page.Message = "We could not sign you in. Please try again later."
			status = http.StatusInternalServerError
		}
		h.pages.Render(w, status, "customer_login.html", page)
		return
	}

	h.setSession(w, session)
	http.Redirect(w, r, h.dashboardPath, http.StatusSeeOther)
}

func (h *customerHandlerImpl) LogoutSubmit(w http.ResponseWriter, r *http.Request) {
	h.endSession(w, r)
	http.Redirect(w, r, h.loginPath, http.StatusSeeOther)
}

type dashboardPage struct {
	Title        string
	Summary      dashboard.CustomerDashboardResponse
	LogoutAction string
}

func (h *customerHandlerImpl) DashboardPage(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	summary, err := h.dashboardService.CustomerSummary(r.Context(), p)
	if err != nil {
		slog.Error("Failed to load customer dashboard", "customer_id", p.ID, "error", err)
		h.pages.Error(w, http.StatusInternalServerError, "Something went wrong", "Your dashboard could not be loaded.")
		return
	}

	h.pages.Render(w, http.StatusOK, "customer_dashboard.html", dashboardPage{
		Title:        "Customer portal",
		Summary:      summary,
		LogoutAction: "/customer/logout",
	})
}
