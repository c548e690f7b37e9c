package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/customer"
	"github.com/haulpoint/haulpoint-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortalUserRepository_SeveralUsersPerCustomer(t *testing.T) {
	db := freshDB(t)
	ctx := context.Background()
	companyID := createTestCompany(t, ctx, db, "acme")
	customerID := createTestCustomer(t, ctx, db, companyID, "AC-1", "billing@acme.test")
	customers := postgresql.NewCustomerRepository(db)
	users := postgresql.NewPortalUserRepository(db)
	now := time.Now().UTC().Truncate(time.Microsecond)

	_, err := customers.EnablePortal(ctx, companyID, customerID, now)
	require.NoError(t, err)

	for _, u := range []customer.PortalUser{
		{CompanyID: companyID, CustomerID: customerID, Email: "jane@acme.test", Name: "Jane", PasswordHash: "hash-jane", EmailVerifiedAt: &now},
		{CompanyID: companyID, CustomerID: customerID, Email: "bob@acme.test", Name: "Bob", PasswordHash: "hash-bob", EmailVerifiedAt: &now},
	} {
		_, err := users.Upsert(ctx, u)
		require.NoError(t, err)
	}

	jane, err := users.GetByEmail(ctx, companyID, "JANE@acme.test")
	require.NoError(t, err)
	assert.Equal(t, "hash-jane", jane.PasswordHash)
	bob, err := users.GetByEmail(ctx, companyID, "bob@acme.test")
	require.NoError(t, err)
	assert.Equal(t, "hash-bob", bob.PasswordHash)

	c, err := customers.GetByID(ctx, companyID, customerID)
	require.NoError(t, err)
	assert.Equal(t, "Test Customer", c.Name)
	assert.True(t, c.PortalAccess)

	accounts, err := users.ListAccountsByEmail(ctx, "jane@acme.test")
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, customerID, accounts[0].Customer.ID)
	assert.True(t, accounts[0].CanSignIn())
}

func TestPortalUserRepository_UpsertReplacesPassword(t *testing.T) {
	db := freshDB(t)
	ctx := context.Background()
	companyID := createTestCompany(t, ctx, db, "acme")
	first := createTestCustomer(t, ctx, db, companyID, "AC-1", "billing@acme.test")
	second := createTestCustomer(t, ctx, db, companyID, "AC-2", "ops@acme.test")
	users := postgresql.NewPortalUserRepository(db)
	verified := time.Now().Add(-time.Hour).UTC().Truncate(time.Microsecond)

	original, err := users.Upsert(ctx, customer.PortalUser{
		CompanyID: companyID, CustomerID: first, Email: "jane@acme.test", Name: "Jane", PasswordHash: "old", EmailVerifiedAt: &verified,
	})
	require.NoError(t, err)

	later := time.Now().UTC()
	moved, err := users.Upsert(ctx, customer.PortalUser{
		CompanyID: companyID, CustomerID: second, Email: "Jane@Acme.test", Name: "Jane Doe", PasswordHash: "new", EmailVerifiedAt: &later,
	})
	require.NoError(t, err)
	assert.Equal(t, original.ID, moved.ID)
	assert.Equal(t, second, moved.CustomerID)
	assert.Equal(t, "new", moved.PasswordHash)
	require.NotNil(t, moved.EmailVerifiedAt)
	assert.True(t, verified.Equal(*moved.EmailVerifiedAt))

	require.NoError(t, users.UpdatePassword(ctx, companyID, moved.ID, "newer"))
	assert.ErrorIs(t, users.UpdatePassword(ctx, companyID, "00000000-0000-0000-0000-000000000000", "x"), customer.ErrPortalUserNotFound)

	_, err = users.GetByEmail(ctx, companyID, "nobody@acme.test")
	assert.ErrorIs(t, err, customer.ErrPortalUserNotFound)
}
