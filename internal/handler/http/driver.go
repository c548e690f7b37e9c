package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/driver"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/vehicle"
	"github.com/haulpoint/haulpoint-backend-go/internal/handler/http/middleware"
	"github.com/haulpoint/haulpoint-backend-go/internal/handler/http/response"
)

// DriverHandler serves driver sign-in and the driver's own profile and vehicles.
type DriverHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
	Assignments(w http.ResponseWriter, r *http.Request)
}

type driverHandlerImpl struct {
	driverService  driver.DriverService
	vehicleService vehicle.VehicleService
}

func NewDriverHandler(driverService driver.DriverService, vehicleService vehicle.VehicleService) DriverHandler {
	return &driverHandlerImpl{
		driverService:  driverService,
		vehicleService: vehicleService,
	}
}

func (h *driverHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var req driver.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.driverService.Login(r.Context(), req, middleware.ClientIP(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Logged in successfully", resp)
}

func (h *driverHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.driverService.Logout(r.Context(), p, jwtauth.TokenFromHeader(r)); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Logged out successfully", nil)
}

func (h *driverHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	resp, err := h.driverService.Me(r.Context(), p)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *driverHandlerImpl) Assignments(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	resp, err := h.vehicleService.Assignments(r.Context(), p)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}
