package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/customer"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const portalUserColumns = `
	id, company_id, customer_id, email, name, password_hash,
	email_verified_at, last_login_at, created_at, updated_at`

type portalUserRepositoryImpl struct {
	db *database.DB
}

func NewPortalUserRepository(db *database.DB) customer.PortalUserRepository {
	return &portalUserRepositoryImpl{db: db}
}

func scanPortalUser(row pgx.Row) (customer.PortalUser, error) {
	var u customer.PortalUser
	err := row.Scan(
		&u.ID, &u.CompanyID, &u.CustomerID, &u.Email, &u.Name, &u.PasswordHash,
		&u.EmailVerifiedAt, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

func scanPortalAccount(row pgx.Row) (customer.PortalAccount, error) {
	var a customer.PortalAccount
	u, c := &a.User, &a.Customer
	err := row.Scan(
		&u.ID, &u.CompanyID, &u.CustomerID, &u.Email, &u.Name, &u.PasswordHash,
		&u.EmailVerifiedAt, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
		&c.ID, &c.CompanyID, &c.AccountNumber, &c.Name, &c.Email, &c.Phone,
		&c.BillingAddress, &c.ServiceAddress, &c.Status, &c.PortalAccess,
		&c.CreatedAt, &c.UpdatedAt,
	)
	return a, err
}

func portalUserError(err error, action string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return customer.ErrPortalUserNotFound
	}
	return fmt.Errorf("failed to %s portal user: %w", action, err)
}

func (r *portalUserRepositoryImpl) GetByEmail(ctx context.Context, companyID, email string) (customer.PortalUser, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + portalUserColumns + ` FROM customer_portal_users WHERE company_id = $1 AND LOWER(email) = LOWER($2)`
	u, err := scanPortalUser(q.QueryRow(ctx, query, companyID, email))
	if err != nil {
		return customer.PortalUser{}, portalUserError(err, "get")
	}
	return u, nil
}

func (r *portalUserRepositoryImpl) ListAccountsByEmail(ctx context.Context, email string) ([]customer.PortalAccount, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT u.id, u.company_id, u.customer_id, u.email, u.name, u.password_hash,
			u.email_verified_at, u.last_login_at, u.created_at, u.updated_at,
			c.id, c.company_id, c.account_number, c.name, c.email, c.phone,
			c.billing_address, c.service_address, c.status, c.portal_access,
			c.created_at, c.updated_at
		FROM customer_portal_users u
		JOIN customers c ON c.id = u.customer_id
		WHERE LOWER(u.email) = LOWER($1)
		ORDER BY u.created_at ASC, u.id ASC
	`
	rows, err := q.Query(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list portal accounts: %w", err)
	}
	return collect(rows, scanPortalAccount)
}

func (r *portalUserRepositoryImpl) Upsert(ctx context.Context, u customer.PortalUser) (customer.PortalUser, error) {
	q := GetQuerier(ctx, r.db)

	if u.ID == "" {
		u.ID = newID()
	}

	query := `
		INSERT INTO customer_portal_users (
			id, company_id, customer_id, email, name, password_hash, email_verified_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (company_id, LOWER(email)) DO UPDATE
		SET customer_id = EXCLUDED.customer_id,
			name = EXCLUDED.name,
			password_hash = EXCLUDED.password_hash,
			email_verified_at = COALESCE(customer_portal_users.email_verified_at, EXCLUDED.email_verified_at),
			updated_at = NOW()
		RETURNING ` + portalUserColumns

	saved, err := scanPortalUser(q.QueryRow(ctx, query,
		u.ID, u.CompanyID, u.CustomerID, u.Email, u.Name, u.PasswordHash, u.EmailVerifiedAt,
	))
	if err != nil {
		return customer.PortalUser{}, portalUserError(err, "save")
	}
	return saved, nil
}

func (r *portalUserRepositoryImpl) UpdateName(ctx context.Context, companyID, id, name string) (customer.PortalUser, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE customer_portal_users SET name = $1, updated_at = NOW()
		WHERE company_id = $2 AND id = $3
		RETURNING ` + portalUserColumns

	u, err := scanPortalUser(q.QueryRow(ctx, query, name, companyID, id))
	if err != nil {
		return customer.PortalUser{}, portalUserError(err, "update")
	}
	return u, nil
}

func (r *portalUserRepositoryImpl) UpdatePassword(ctx context.Context, companyID, id, passwordHash string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE customer_portal_users SET password_hash = $1, updated_at = NOW()
		WHERE company_id = $2 AND id = $3
	`, passwordHash, companyID, id)
	if err != nil {
		return fmt.Errorf("failed to update portal user password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return customer.ErrPortalUserNotFound
	}
	return nil
}

func (r *portalUserRepositoryImpl) TouchLogin(ctx context.Context, id string, now time.Time) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `UPDATE customer_portal_users SET last_login_at = $1 WHERE id = $2`, now, id); err != nil {
		return fmt.Errorf("failed to record portal login: %w", err)
	}
	return nil
}
