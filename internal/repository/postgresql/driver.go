package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/driver"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const driverColumns = `
	id, company_id, name, email, phone, license_number, password_hash, status, created_at, updated_at`

type driverRepositoryImpl struct {
	db *database.DB
}

func NewDriverRepository(db *database.DB) driver.DriverRepository {
	return &driverRepositoryImpl{db: db}
}

func (r *driverRepositoryImpl) getOne(ctx context.Context, where string, args ...interface{}) (driver.Driver, error) {
	q := GetQuerier(ctx, r.db)

	var d driver.Driver
	err := q.QueryRow(ctx, `SELECT `+driverColumns+` FROM drivers WHERE `+where, args...).Scan(
		&d.ID, &d.CompanyID, &d.Name, &d.Email, &d.Phone, &d.LicenseNumber, &d.PasswordHash,
		&d.Status, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return driver.Driver{}, driver.ErrDriverNotFound
		}
		return driver.Driver{}, fmt.Errorf("failed to get driver: %w", err)
	}
	return d, nil
}

func (r *driverRepositoryImpl) GetByEmail(ctx context.Context, email string) (driver.Driver, error) {
	return r.getOne(ctx, "LOWER(email) = LOWER($1)", email)
}

func (r *driverRepositoryImpl) GetByID(ctx context.Context, companyID, id string) (driver.Driver, error) {
	return r.getOne(ctx, "company_id = $1 AND id = $2", companyID, id)
}

func (r *driverRepositoryImpl) GetByIDAnyTenant(ctx context.Context, id string) (driver.Driver, error) {
	return r.getOne(ctx, "id = $1", id)
}

type driverTokenRepositoryImpl struct {
	db *database.DB
}

func NewDriverTokenRepository(db *database.DB) driver.TokenRepository {
	return &driverTokenRepositoryImpl{db: db}
}

func (r *driverTokenRepositoryImpl) Create(ctx context.Context, t driver.Token) (driver.Token, error) {
	q := GetQuerier(ctx, r.db)

	if t.ID == "" {
		t.ID = newID()
	}

	err := q.QueryRow(ctx, `
		INSERT INTO driver_tokens (id, driver_id, name, token_hash, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, t.ID, t.DriverID, t.Name, t.TokenHash, t.ExpiresAt).Scan(&t.CreatedAt)
	if err != nil {
		return driver.Token{}, fmt.Errorf("failed to create driver token: %w", err)
	}
	return t, nil
}

func (r *driverTokenRepositoryImpl) GetByID(ctx context.Context, id string) (driver.Token, error) {
	q := GetQuerier(ctx, r.db)

	var t driver.Token
	err := q.QueryRow(ctx, `
		SELECT id, driver_id, name, token_hash, last_used_at, expires_at, created_at
		FROM driver_tokens
		WHERE id = $1
	`, id).Scan(&t.ID, &t.DriverID, &t.Name, &t.TokenHash, &t.LastUsedAt, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return driver.Token{}, driver.ErrInvalidToken
		}
		return driver.Token{}, fmt.Errorf("failed to get driver token: %w", err)
	}
	return t, nil
}

func (r *driverTokenRepositoryImpl) Touch(ctx context.Context, id string, now time.Time) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `UPDATE driver_tokens SET last_used_at = $1 WHERE id = $2`, now, id); err != nil {
		return fmt.Errorf("failed to touch driver token: %w", err)
	}
	return nil
}

func (r *driverTokenRepositoryImpl) Delete(ctx context.Context, id, driverID string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM driver_tokens WHERE id = $1 AND driver_id = $2`, id, driverID); err != nil {
		return fmt.Errorf("failed to delete driver token: %w", err)
	}
	return nil
}

func (r *driverTokenRepositoryImpl) PruneExpired(ctx context.Context, now time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM driver_tokens WHERE expires_at IS NOT NULL AND expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to prune driver tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
