package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/company"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/user"
	"github.com/haulpoint/haulpoint-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== USER REPOSITORY TESTS =====

func TestUserRepository_GetByEmail_CaseInsensitive(t *testing.T) {
	db := freshDB(t)
	ctx := context.Background()
	companyID := createTestCompany(t, ctx, db, "acme")
	id := createTestUser(t, ctx, db, companyID, "dispatch@acme.test", "dispatcher")

	repo := postgresql.NewUserRepository(db)
	got, err := repo.GetByEmail(ctx, "Dispatch@ACME.test")

	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, user.RoleDispatcher, got.Role)
	assert.NotNil(t, got.PasswordHash)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	db := freshDB(t)
	repo := postgresql.NewUserRepository(db)

	_, err := repo.GetByID(context.Background(), "0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUserRepository_LinkGoogleAccount(t *testing.T) {
	db := freshDB(t)
	ctx := context.Background()
	companyID := createTestCompany(t, ctx, db, "acme")
	id := createTestUser(t, ctx, db, companyID, "owner@acme.test", "owner")

	repo := postgresql.NewUserRepository(db)
	require.NoError(t, repo.LinkGoogleAccount(ctx, id, "google-id-123"))

	linked, err := repo.GetByOAuthProviderID(ctx, "google", "google-id-123")
	require.NoError(t, err)
	assert.Equal(t, id, linked.ID)
	assert.True(t, linked.EmailVerified)
}

// ===== REFRESH TOKEN TESTS =====

func TestJWTRepository_RevokeLifecycle(t *testing.T) {
	db := freshDB(t)
	ctx := context.Background()
	companyID := createTestCompany(t, ctx, db, "acme")
	userID := createTestUser(t, ctx, db, companyID, "owner@acme.test", "owner")

	repo := postgresql.NewJWTRepository(db)
	exp := time.Now().Add(time.Hour).Unix()
	require.NoError(t, repo.CreateRefreshToken(ctx, userID, "refresh-token", exp, auth.SessionTrackingRequest{}))

	owner, revoked, err := repo.IsRefreshTokenRevoked(ctx, "refresh-token")
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.Equal(t, userID, owner)

	require.NoError(t, repo.RevokeRefreshToken(ctx, "refresh-token"))
	_, revoked, err = repo.IsRefreshTokenRevoked(ctx, "refresh-token")
	require.NoError(t, err)
	assert.True(t, revoked)

	pruned, err := repo.PruneExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)

	_, revoked, err = repo.IsRefreshTokenRevoked(ctx, "unknown")
	require.NoError(t, err)
	assert.True(t, revoked)
}

// ===== COMPANY REPOSITORY TESTS =====

func TestCompanyRepository_Update(t *testing.T) {
	db := freshDB(t)
	ctx := context.Background()
	companyID := createTestCompany(t, ctx, db, "acme")

	repo := postgresql.NewCompanyRepository(db)
	err := repo.Update(ctx, companyID, company.UpdateCompanyRequest{
		Name:    strPtr("Acme Hauling"),
		Address: strPtr("456 Oak Ave"),
	})
	require.NoError(t, err)

	updated, err := repo.GetByID(ctx, companyID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Hauling", updated.Name)
	require.NotNil(t, updated.Address)
	assert.Equal(t, "456 Oak Ave", *updated.Address)
	assert.Nil(t, updated.Phone)
}

func TestCompanyRepository_GetByID_NotFound(t *testing.T) {
	db := freshDB(t)
	repo := postgresql.NewCompanyRepository(db)

	_, err := repo.GetByID(context.Background(), "00000000-0000-4000-8000-000000000000")
	assert.ErrorIs(t, err, company.ErrCompanyNotFound)
}
