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

const customerColumns = `
	id, company_id, account_number, name, email, phone, billing_address, service_address,
	status, portal_access, created_at, updated_at`

type customerRepositoryImpl struct {
	db *database.DB
}

func NewCustomerRepository(db *database.DB) customer.CustomerRepository {
	return &customerRepositoryImpl{db: db}
}

func scanCustomer(row pgx.Row) (customer.Customer, error) {
	var c customer.Customer
	err := row.Scan(
		&c.ID, &c.CompanyID, &c.AccountNumber, &c.Name, &c.Email, &c.Phone,
		&c.BillingAddress, &c.ServiceAddress, &c.Status, &c.PortalAccess,
		&c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

func customerError(err error, action string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return customer.ErrCustomerNotFound
	}
	if isUniqueViolation(err, "ux_customers_company_email") {
		return customer.ErrEmailTaken
	}
	return fmt.Errorf("failed to %s customer: %w", action, err)
}

func (r *customerRepositoryImpl) GetByID(ctx context.Context, companyID, id string) (customer.Customer, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + customerColumns + ` FROM customers WHERE company_id = $1 AND id = $2`
	c, err := scanCustomer(q.QueryRow(ctx, query, companyID, id))
	if err != nil {
		return customer.Customer{}, customerError(err, "get")
	}
	return c, nil
}

func (r *customerRepositoryImpl) GetByEmail(ctx context.Context, companyID, email string) (customer.Customer, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + customerColumns + ` FROM customers WHERE company_id = $1 AND LOWER(email) = LOWER($2)`
	c, err := scanCustomer(q.QueryRow(ctx, query, companyID, email))
	if err != nil {
		return customer.Customer{}, customerError(err, "get")
	}
	return c, nil
}

func (r *customerRepositoryImpl) Create(ctx context.Context, c customer.Customer) (customer.Customer, error) {
	q := GetQuerier(ctx, r.db)

	if c.ID == "" {
		c.ID = newID()
	}
	if c.Status == "" {
		c.Status = customer.StatusActive
	}

	query := `
		INSERT INTO customers (
			id, company_id, account_number, name, email, phone, billing_address, service_address,
			status, portal_access
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + customerColumns

	created, err := scanCustomer(q.QueryRow(ctx, query,
		c.ID, c.CompanyID, c.AccountNumber, c.Name, c.Email, c.Phone, c.BillingAddress,
		c.ServiceAddress, c.Status, c.PortalAccess,
	))
	if err != nil {
		return customer.Customer{}, customerError(err, "create")
	}
	return created, nil
}

func (r *customerRepositoryImpl) EnablePortal(ctx context.Context, companyID, id string, now time.Time) (customer.Customer, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE customers
		SET portal_access = TRUE, updated_at = $1
		WHERE company_id = $2 AND id = $3
		RETURNING ` + customerColumns

	c, err := scanCustomer(q.QueryRow(ctx, query, now, companyID, id))
	if err != nil {
		return customer.Customer{}, customerError(err, "enable portal for")
	}
	return c, nil
}

func (r *customerRepositoryImpl) UpdateProfile(ctx context.Context, companyID, id string, req customer.UpdateProfileRequest) (customer.Customer, error) {
	var set setList
	set.set("phone", req.Phone)
	set.set("billing_address", req.BillingAddress)
	set.set("service_address", req.ServiceAddress)
	if set.empty() {
		return r.GetByID(ctx, companyID, id)
	}

	q := GetQuerier(ctx, r.db)
	clause, next := set.sql()
	query := fmt.Sprintf("UPDATE customers %s WHERE company_id = $%d AND id = $%d RETURNING %s",
		clause, next, next+1, customerColumns)

	c, err := scanCustomer(q.QueryRow(ctx, query, append(set.args, companyID, id)...))
	if err != nil {
		return customer.Customer{}, customerError(err, "update")
	}
	return c, nil
}
