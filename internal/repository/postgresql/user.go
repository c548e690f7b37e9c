package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/user"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const userColumns = `
	id, company_id, email, full_name, password_hash, role, oauth_provider, oauth_provider_id,
	email_verified, created_at, updated_at`

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.CompanyID,
		&u.Email,
		&u.FullName,
		&u.PasswordHash,
		&u.Role,
		&u.OAuthProvider,
		&u.OAuthProviderID,
		&u.EmailVerified,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

func (r *userRepositoryImpl) getOne(ctx context.Context, where string, args ...interface{}) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	u, err := scanUser(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, "LOWER(email) = LOWER($1)", email)
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetByOAuthProviderID implements user.UserRepository.
func (r *userRepositoryImpl) GetByOAuthProviderID(ctx context.Context, provider, providerID string) (user.User, error) {
	return r.getOne(ctx, "oauth_provider = $1 AND oauth_provider_id = $2", provider, providerID)
}

// LinkGoogleAccount implements user.UserRepository.
func (r *userRepositoryImpl) LinkGoogleAccount(ctx context.Context, id, googleID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET oauth_provider = 'google', oauth_provider_id = $1, email_verified = TRUE, updated_at = NOW()
		WHERE id = $2
	`
	tag, err := q.Exec(ctx, query, googleID, id)
	if err != nil {
		if isUniqueViolation(err, "") {
			return user.ErrOAuthProviderIDExists
		}
		return fmt.Errorf("failed to link google account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// UpdatePassword implements user.UserRepository.
func (r *userRepositoryImpl) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}
