package postgresql

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type jwtRepositoryImpl struct {
	db *database.DB
}

// NewJWTRepository creates the refresh token store used by staff sessions.
func NewJWTRepository(db *database.DB) auth.RefreshTokenRepository {
	return &jwtRepositoryImpl{db: db}
}

// hashToken hashes the input string using SHA256 and encodes the result in base64.
func (j *jwtRepositoryImpl) hashToken(input string) string {
	hash := sha256.Sum256([]byte(input))
	return base64.StdEncoding.EncodeToString(hash[:])
}

func (j *jwtRepositoryImpl) CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, sessionReq auth.SessionTrackingRequest) error {
	q := GetQuerier(ctx, j.db)
	query := `
		INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, user_agent, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	tokenHash := j.hashToken(token)
	_, err := q.Exec(ctx, query, newID(), userID, tokenHash, time.Unix(expiresAt, 0).UTC(), sessionReq.UserAgent, sessionReq.IPAddress)
	if err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

// IsRefreshTokenRevoked treats an unknown token as revoked.
func (j *jwtRepositoryImpl) IsRefreshTokenRevoked(ctx context.Context, token string) (string, bool, error) {
	q := GetQuerier(ctx, j.db)

	query := `
		SELECT user_id, revoked_at, expires_at
		FROM refresh_tokens
		WHERE token_hash = $1
		ORDER BY expires_at DESC
		LIMIT 1
	`
	tokenHash := j.hashToken(token)

	var userID string
	var revokedAt *time.Time
	var expiresAt time.Time

	err := q.QueryRow(ctx, query, tokenHash).Scan(&userID, &revokedAt, &expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", true, nil
		}
		return "", false, fmt.Errorf("failed to look up refresh token: %w", err)
	}

	if revokedAt != nil || !expiresAt.After(time.Now()) {
		return userID, true, nil
	}
	return userID, false, nil
}

func (j *jwtRepositoryImpl) RevokeRefreshToken(ctx context.Context, token string) error {
	q := GetQuerier(ctx, j.db)

	query := `
		UPDATE refresh_tokens
		SET revoked_at = NOW()
		WHERE token_hash = $1 AND revoked_at IS NULL
	`
	tokenHash := j.hashToken(token)
	if _, err := q.Exec(ctx, query, tokenHash); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// PruneExpired deletes tokens that can never be used again.
func (j *jwtRepositoryImpl) PruneExpired(ctx context.Context, now time.Time) (int64, error) {
	q := GetQuerier(ctx, j.db)

	tag, err := q.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at <= $1 OR revoked_at IS NOT NULL`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to prune refresh tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
