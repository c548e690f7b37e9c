package jwt

import (
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *JWTService {
	return NewJWTService(Options{
		Secret:                 "test-secret-key-for-jwt",
		AccessTokenExpiration:  time.Hour,
		RefreshTokenExpiration: 24 * time.Hour,
		CustomerSessionTTL:     12 * time.Hour,
	}).(*JWTService)
}

func TestGenerateAccessToken_Claims(t *testing.T) {
	svc := newTestService()

	tok, exp, err := svc.GenerateAccessToken("user-1", "ops@x.com", "company-1", user.RoleAdmin)
	require.NoError(t, err)
	assert.Greater(t, exp, time.Now().Unix())

	token, err := jwtauth.VerifyToken(svc.JWTAuth(), tok)
	require.NoError(t, err)

	claims, err := token.AsMap(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "company-1", claims["company_id"])
	assert.Equal(t, "admin", claims["role"])
	assert.Equal(t, TypeAccess, claims["type"])
}

func TestCustomerSessionToken_RoundTrip(t *testing.T) {
	svc := newTestService()

	tok, exp, err := svc.GenerateCustomerSessionToken("cust-1", "company-1", "a@x.com")
	require.NoError(t, err)

	claims, err := svc.ValidateCustomerSessionToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "cust-1", claims.CustomerID)
	assert.Equal(t, "company-1", claims.CompanyID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, exp, claims.ExpiresAt.Unix())
}

func TestValidateCustomerSessionToken_RejectsStaffToken(t *testing.T) {
	svc := newTestService()

	tok, _, err := svc.GenerateAccessToken("user-1", "ops@x.com", "company-1", user.RoleOwner)
	require.NoError(t, err)

	_, err = svc.ValidateCustomerSessionToken(tok)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestValidateCustomerSessionToken_Revoked(t *testing.T) {
	svc := newTestService()

	tok, exp, err := svc.GenerateCustomerSessionToken("cust-1", "company-1", "a@x.com")
	require.NoError(t, err)

	svc.RevokeToken(tok, time.Unix(exp, 0))
	assert.True(t, svc.IsTokenRevoked(tok))

	_, err = svc.ValidateCustomerSessionToken(tok)
	assert.Error(t, err)
}

func TestRevokeToken_PrunesExpiredEntries(t *testing.T) {
	svc := newTestService()
	svc.RevokeToken("old", time.Now().Add(-time.Minute))
	svc.RevokeToken("new", time.Now().Add(time.Minute))

	assert.False(t, svc.IsTokenRevoked("old"))
	assert.True(t, svc.IsTokenRevoked("new"))
}

func TestSSEToken_RoundTrip(t *testing.T) {
	svc := newTestService()

	tok, expiresIn, err := svc.GenerateSSEToken("user:abc")
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	key, err := svc.ValidateSSEToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "user:abc", key)

	refresh, _, err := svc.GenerateRefreshToken("abc")
	require.NoError(t, err)
	_, err = svc.ValidateSSEToken(refresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestCookies(t *testing.T) {
	svc := newTestService()

	c := svc.CustomerSessionCookie("tok", time.Now().Add(time.Hour).Unix())
	assert.Equal(t, CustomerSessionCookie, c.Name)
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.HttpOnly)

	r := svc.RefreshTokenCookie("tok", time.Now().Add(time.Hour).Unix())
	assert.Equal(t, "/api/v1/auth", r.Path)
}
