package jwt

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/user"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Token types carried in the "type" claim.
const (
	TypeAccess   = "access"
	TypeRefresh  = "refresh"
	TypeCustomer = "customer"
	TypeSSE      = "sse"
)

// CustomerSessionCookie is the cookie the customer portal session lives in.
const CustomerSessionCookie = "customer_session"

var ErrWrongTokenType = errors.New("token type mismatch")

// CustomerClaims identifies a customer portal session.
type CustomerClaims struct {
	CustomerID string
	CompanyID  string
	Email      string
	ExpiresAt  time.Time
}

type Service interface {
	GenerateAccessToken(userID string, email string, companyID string, role user.Role) (token string, expiresAt int64, err error)
	GenerateRefreshToken(userID string) (token string, expiresAt int64, err error)
	GenerateCustomerSessionToken(customerID, companyID, email string) (token string, expiresAt int64, err error)
	ValidateCustomerSessionToken(token string) (CustomerClaims, error)
	GenerateSSEToken(recipientKey string) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (recipientKey string, err error)
	JWTAuth() *jwtauth.JWTAuth
	RefreshTokenCookie(token string, expiresAt int64) *http.Cookie
	CustomerSessionCookie(token string, expiresAt int64) *http.Cookie
	RevokeToken(token string, expiresAt time.Time)
	IsTokenRevoked(token string) bool
}

type JWTService struct {
	accessTokenExpiration  time.Duration
	refreshTokenExpiration time.Duration
	customerSessionTTL     time.Duration
	secureCookies          bool
	tokenAuth              *jwtauth.JWTAuth
	revokedTokens          map[string]time.Time
	mu                     sync.RWMutex
	now                    func() time.Time
}

// Options are the token lifetimes; durations are validated by config.Load.
type Options struct {
	Secret                 string
	AccessTokenExpiration  time.Duration
	RefreshTokenExpiration time.Duration
	CustomerSessionTTL     time.Duration
	SecureCookies          bool
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(opts Options) Service {
	return &JWTService{
		accessTokenExpiration:  opts.AccessTokenExpiration,
		refreshTokenExpiration: opts.RefreshTokenExpiration,
		customerSessionTTL:     opts.CustomerSessionTTL,
		secureCookies:          opts.SecureCookies,
		tokenAuth:              jwtauth.New("HS256", []byte(opts.Secret), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedTokens:          make(map[string]time.Time),
		now:                    time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(userID string, email string, companyID string, role user.Role) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.accessTokenExpiration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id":    userID,
		"email":      email,
		"company_id": companyID,
		"role":       string(role),
		"type":       TypeAccess,
		"exp":        expiresAt,
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) GenerateRefreshToken(userID string) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.refreshTokenExpiration).Unix()
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"jti":     uuid.NewString(),
		"exp":     expiresAt,
		"type":    TypeRefresh,
	})
	return tokenString, expiresAt, err
}

// GenerateCustomerSessionToken issues the token behind the customer portal session.
func (j *JWTService) GenerateCustomerSessionToken(customerID, companyID, email string) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.customerSessionTTL).Unix()
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"customer_id": customerID,
		"company_id":  companyID,
		"email":       email,
		"type":        TypeCustomer,
		"exp":         expiresAt,
	})
	return tokenString, expiresAt, err
}

// ValidateCustomerSessionToken verifies signature, expiry, type and revocation.
func (j *JWTService) ValidateCustomerSessionToken(tokenString string) (CustomerClaims, error) {
	if j.IsTokenRevoked(tokenString) {
		return CustomerClaims{}, jwt.ErrInvalidJWT()
	}

	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return CustomerClaims{}, err
	}

	if tokenType, ok := token.Get("type"); !ok || tokenType != TypeCustomer {
		return CustomerClaims{}, ErrWrongTokenType
	}

	claims := CustomerClaims{ExpiresAt: token.Expiration()}
	var ok bool
	if claims.CustomerID, ok = stringClaim(token, "customer_id"); !ok {
		return CustomerClaims{}, jwt.ErrInvalidJWT()
	}
	if claims.CompanyID, ok = stringClaim(token, "company_id"); !ok {
		return CustomerClaims{}, jwt.ErrInvalidJWT()
	}
	claims.Email, _ = stringClaim(token, "email")

	return claims, nil
}

func stringClaim(token jwt.Token, name string) (string, bool) {
	v, ok := token.Get(name)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

func (j *JWTService) RefreshTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Path:     "/api/v1/auth",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   j.secureCookies,
		SameSite: http.SameSiteStrictMode,
	}
}

// CustomerSessionCookie is readable by both the HTML pages and the /api/v1/customer routes.
func (j *JWTService) CustomerSessionCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     CustomerSessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   j.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

// RevokeToken blocks a still-valid session token until it would have expired anyway.
func (j *JWTService) RevokeToken(token string, expiresAt time.Time) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	for t, exp := range j.revokedTokens {
		if exp.Before(now) {
			delete(j.revokedTokens, t)
		}
	}
	j.revokedTokens[token] = expiresAt
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[token]
	return revoked
}

// GenerateSSEToken issues a five minute token for EventSource clients that cannot send headers.
func (j *JWTService) GenerateSSEToken(recipientKey string) (token string, expiresIn int, err error) {
	expiresIn = 300
	expiresAt := j.now().Add(5 * time.Minute).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"recipient": recipientKey,
		"type":      TypeSSE,
		"exp":       expiresAt,
	})
	if err != nil {
		return "", 0, err
	}

	return tokenString, expiresIn, nil
}

// ValidateSSEToken returns the recipient key the token was issued for.
func (j *JWTService) ValidateSSEToken(tokenString string) (recipientKey string, err error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return "", err
	}

	if tokenType, ok := token.Get("type"); !ok || tokenType != TypeSSE {
		return "", ErrWrongTokenType
	}

	recipientKey, ok := stringClaim(token, "recipient")
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}
	return recipientKey, nil
}
