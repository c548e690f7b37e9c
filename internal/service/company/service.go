package company

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/company"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/user"
	"github.com/haulpoint/haulpoint-backend-go/internal/service/file"
)

type CompanyServiceImpl struct {
	company.CompanyRepository
	fileService file.FileService
}

func NewCompanyService(companyRepository company.CompanyRepository, fileService file.FileService) company.CompanyService {
	return &CompanyServiceImpl{
		CompanyRepository: companyRepository,
		fileService:       fileService,
	}
}

// GetMine implements company.CompanyService.
func (c *CompanyServiceImpl) GetMine(ctx context.Context, p auth.Principal) (company.CompanyResponse, error) {
	if !p.Can(user.PermissionCompanyView) {
		return company.CompanyResponse{}, auth.ErrForbidden
	}

	companyData, err := c.CompanyRepository.GetByID(ctx, p.CompanyID)
	if err != nil {
		return company.CompanyResponse{}, err
	}
	return company.NewCompanyResponse(companyData), nil
}

// UpdateMine implements company.CompanyService.
func (c *CompanyServiceImpl) UpdateMine(ctx context.Context, p auth.Principal, req company.UpdateCompanyRequest) (company.CompanyResponse, error) {
	if !p.Can(user.PermissionCompanyManage) {
		return company.CompanyResponse{}, auth.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return company.CompanyResponse{}, err
	}

	if err := c.CompanyRepository.Update(ctx, p.CompanyID, req); err != nil {
		return company.CompanyResponse{}, err
	}

	companyData, err := c.CompanyRepository.GetByID(ctx, p.CompanyID)
	if err != nil {
		return company.CompanyResponse{}, fmt.Errorf("failed to reload company: %w", err)
	}
	return company.NewCompanyResponse(companyData), nil
}

// UploadLogo implements company.CompanyService.
func (c *CompanyServiceImpl) UploadLogo(ctx context.Context, p auth.Principal, file io.Reader, filename string) (company.CompanyResponse, error) {
	if !p.Can(user.PermissionCompanyManage) {
		return company.CompanyResponse{}, auth.ErrForbidden
	}

	logoURL, err := c.fileService.UploadCompanyLogo(ctx, p.CompanyID, file, filename)
	if err != nil {
		return company.CompanyResponse{}, err
	}

	if err := c.CompanyRepository.Update(ctx, p.CompanyID, company.UpdateCompanyRequest{LogoURL: &logoURL}); err != nil {
		return company.CompanyResponse{}, err
	}
	slog.Info("Company logo updated", "company_id", p.CompanyID, "url", logoURL)

	companyData, err := c.CompanyRepository.GetByID(ctx, p.CompanyID)
	if err != nil {
		return company.CompanyResponse{}, fmt.Errorf("failed to reload company: %w", err)
	}
	return company.NewCompanyResponse(companyData), nil
}
