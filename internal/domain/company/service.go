package company

import (
	"context"
	"io"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
)

type CompanyService interface {
	GetMine(ctx context.Context, p auth.Principal) (CompanyResponse, error)
	UpdateMine(ctx context.Context, p auth.Principal, req UpdateCompanyRequest) (CompanyResponse, error)
	// UploadLogo replaces the company logo shown on invitation mails and the acceptance page.
	UploadLogo(ctx context.Context, p auth.Principal, file io.Reader, filename string) (CompanyResponse, error)
}
