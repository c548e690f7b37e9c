package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/company"
	"github.com/haulpoint/haulpoint-backend-go/internal/handler/http/response"
)

const maxLogoUploadBytes = 5 << 20

type CompanyHandler interface {
	GetMine(w http.ResponseWriter, r *http.Request)
	UpdateMine(w http.ResponseWriter, r *http.Request)
	UploadLogo(w http.ResponseWriter, r *http.Request)
}

type CompanyHandlerImpl struct {
	companyService company.CompanyService
}

func NewCompanyHandler(companyService company.CompanyService) CompanyHandler {
	return &CompanyHandlerImpl{companyService: companyService}
}

// GetMine implements CompanyHandler.
func (c *CompanyHandlerImpl) GetMine(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	resp, err := c.companyService.GetMine(r.Context(), p)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// UpdateMine implements CompanyHandler.
func (c *CompanyHandlerImpl) UpdateMine(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req company.UpdateCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	// the logo only changes through the upload endpoint
	req.LogoURL = nil

	resp, err := c.companyService.UpdateMine(r.Context(), p, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Company updated successfully", resp)
}

// UploadLogo implements CompanyHandler.
func (c *CompanyHandlerImpl) UploadLogo(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxLogoUploadBytes)
	if err := r.ParseMultipartForm(maxLogoUploadBytes); err != nil {
		slog.Warn("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	file, header, err := r.FormFile("logo")
	if err != nil {
		response.BadRequest(w, "Field 'logo' is required", nil)
		return
	}
	defer file.Close()

	resp, err := c.companyService.UploadLogo(r.Context(), p, file, header.Filename)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Company logo updated", resp)
}
