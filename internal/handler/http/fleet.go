package http

import (
	"encoding/json"
	"net/http"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/fuellog"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/inspection"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/maintenance"
	"github.com/haulpoint/haulpoint-backend-go/internal/handler/http/response"
)

// FleetHandler serves the driver's fuel logs, inspections and maintenance requests.
type FleetHandler interface {
	ListFuelLogs(w http.ResponseWriter, r *http.Request)
	CreateFuelLog(w http.ResponseWriter, r *http.Request)

	ListInspections(w http.ResponseWriter, r *http.Request)
	GetInspection(w http.ResponseWriter, r *http.Request)
	CreateInspection(w http.ResponseWriter, r *http.Request)

	ListMaintenance(w http.ResponseWriter, r *http.Request)
	RequestMaintenance(w http.ResponseWriter, r *http.Request)
}

type fleetHandlerImpl struct {
	fuelLogService     fuellog.FuelLogService
	inspectionService  inspection.InspectionService
	maintenanceService maintenance.MaintenanceService
}

func NewFleetHandler(
	fuelLogService fuellog.FuelLogService,
	inspectionService inspection.InspectionService,
	maintenanceService maintenance.MaintenanceService,
) FleetHandler {
	return &fleetHandlerImpl{
		fuelLogService:     fuelLogService,
		inspectionService:  inspectionService,
		maintenanceService: maintenanceService,
	}
}

func (h *fleetHandlerImpl) ListFuelLogs(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	req, err := fuellog.ParseListRequest(r.URL.Query())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	page, err := h.fuelLogService.List(r.Context(), p, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Paginated(w, page)
}

func (h *fleetHandlerImpl) CreateFuelLog(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req fuellog.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.fuelLogService.Create(r.Context(), p, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Fuel log recorded", resp)
}

func (h *fleetHandlerImpl) ListInspections(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	req, err := inspection.ParseListRequest(r.URL.Query())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	page, err := h.inspectionService.List(r.Context(), p, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Paginated(w, page)
}

func (h *fleetHandlerImpl) GetInspection(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	resp, err := h.inspectionService.Get(r.Context(), p, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *fleetHandlerImpl) CreateInspection(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req inspection.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.inspectionService.Create(r.Context(), p, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Inspection recorded", resp)
}

func (h *fleetHandlerImpl) ListMaintenance(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	req, err := maintenance.ParseListRequest(r.URL.Query())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	page, err := h.maintenanceService.List(r.Context(), p, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Paginated(w, page)
}

func (h *fleetHandlerImpl) RequestMaintenance(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req maintenance.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.maintenanceService.Request(r.Context(), p, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Maintenance requested", resp)
}
