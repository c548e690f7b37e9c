package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestState_RoundTrip(t *testing.T) {
	svc := NewGoogleService("id", "secret", "http://localhost/cb", []string{"email"})

	state := svc.GenerateState("Mozilla/5.0")
	require.NotEmpty(t, state)

	assert.True(t, svc.ValidateState(state, "Mozilla/5.0"))
	assert.False(t, svc.ValidateState(state, "curl/8.0"))
	assert.False(t, svc.ValidateState("not base64!", "Mozilla/5.0"))
}

func TestRedirectURL_ContainsState(t *testing.T) {
	svc := NewGoogleService("client-123", "secret", "http://localhost/cb", []string{"email"})

	u := svc.RedirectURL("xyz")
	assert.True(t, strings.Contains(u, "state=xyz"))
	assert.True(t, strings.Contains(u, "client_id=client-123"))
}

func TestVerifyUser(t *testing.T) {
	verified := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		if verified {
			_, _ = w.Write([]byte(`{"id":"g-1","email":"ops@greenhaul.test","verified_email":true,"name":"Ops"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"g-1","email":"ops@greenhaul.test","verified_email":false}`))
	}))
	defer srv.Close()

	svc := NewGoogleService("id", "secret", "http://localhost/cb", []string{"email"}).(*GoogleServiceImpl)
	svc.userInfoURL = srv.URL
	tok := &oauth2.Token{AccessToken: "access-token", TokenType: "Bearer"}

	info, err := svc.VerifyUser(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "g-1", info.GoogleID)
	assert.Equal(t, "ops@greenhaul.test", info.Email)

	verified = false
	_, err = svc.VerifyUser(context.Background(), tok)
	assert.ErrorIs(t, err, ErrEmailNotVerified)
}
