package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFS_ContainsOrderedGooseMigrations(t *testing.T) {
	files, err := fs.Glob(FS, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, name := range files {
		body, err := fs.ReadFile(FS, name)
		require.NoError(t, err)
		assert.True(t, strings.Contains(string(body), "-- +goose Up"), "%s missing Up section", name)
		assert.True(t, strings.Contains(string(body), "-- +goose Down"), "%s missing Down section", name)
	}
}

func TestFS_InvitationUniquenessIndex(t *testing.T) {
	body, err := fs.ReadFile(FS, "00002_customers_invitations.sql")
	require.NoError(t, err)
	assert.Contains(t, string(body), "ux_customer_invitations_active_email")
	assert.Contains(t, string(body), "WHERE active AND accepted_at IS NULL")
}

func TestFS_PortalUsersUniquePerTenantEmail(t *testing.T) {
	body, err := fs.ReadFile(FS, "00002_customers_invitations.sql")
	require.NoError(t, err)
	assert.Contains(t, string(body), "ON customer_portal_users (company_id, LOWER(email))")
	assert.NotContains(t, string(body), "portal_password_hash")
}
