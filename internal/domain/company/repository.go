package company

import "context"

type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (Company, error)
	Update(ctx context.Context, id string, req UpdateCompanyRequest) error
}
