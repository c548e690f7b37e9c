package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/company"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type companyRepositoryImpl struct {
	db *database.DB
}

func NewCompanyRepository(db *database.DB) company.CompanyRepository {
	return &companyRepositoryImpl{db: db}
}

// GetByID implements company.CompanyRepository.
func (c *companyRepositoryImpl) GetByID(ctx context.Context, id string) (company.Company, error) {
	q := GetQuerier(ctx, c.db)

	query := `
		SELECT id, name, slug, email, phone, address, logo_url, created_at, updated_at
		FROM companies
		WHERE id = $1
	`
	var co company.Company
	err := q.QueryRow(ctx, query, id).Scan(
		&co.ID, &co.Name, &co.Slug, &co.Email, &co.Phone, &co.Address, &co.LogoURL,
		&co.CreatedAt, &co.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return company.Company{}, company.ErrCompanyNotFound
		}
		return company.Company{}, fmt.Errorf("failed to get company by id %s: %w", id, err)
	}
	return co, nil
}

// Update implements company.CompanyRepository.
func (c *companyRepositoryImpl) Update(ctx context.Context, id string, req company.UpdateCompanyRequest) error {
	q := GetQuerier(ctx, c.db)

	var set setList
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		set.set("name", &name)
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		set.set("email", &email)
	}
	set.set("phone", req.Phone)
	set.set("address", req.Address)
	set.set("logo_url", req.LogoURL)

	clause, next := set.sql()
	query := fmt.Sprintf("UPDATE companies %s WHERE id = $%d", clause, next)

	tag, err := q.Exec(ctx, query, append(set.args, id)...)
	if err != nil {
		return fmt.Errorf("failed to update company with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return company.ErrCompanyNotFound
	}
	return nil
}
