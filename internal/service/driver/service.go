package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/haulpoint/haulpoint-backend-go/internal/config"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/driver"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/ratelimit"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/token"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/validator"
	"golang.org/x/crypto/bcrypt"
)

// tokenType is echoed back to the app so it knows how to send the token.
const tokenType = "Bearer"

type DriverServiceImpl struct {
	drivers driver.DriverRepository
	tokens  driver.TokenRepository
	limiter *ratelimit.Limiter
	cfg     config.DriverConfig
	now     func() time.Time
}

func NewDriverService(drivers driver.DriverRepository, tokens driver.TokenRepository, cfg config.DriverConfig) *DriverServiceImpl {
	return &DriverServiceImpl{
		drivers: drivers,
		tokens:  tokens,
		limiter: ratelimit.New(cfg.LoginMaxAttempts, cfg.LoginWindow),
		cfg:     cfg,
		now:     time.Now,
	}
}

var _ driver.DriverService = (*DriverServiceImpl)(nil)

// Limiter exposes the login limiter so the scheduler can prune it.
func (s *DriverServiceImpl) Limiter() *ratelimit.Limiter {
	return s.limiter
}

// Login implements driver.DriverService. Failed attempts are counted per IP.
func (s *DriverServiceImpl) Login(ctx context.Context, req driver.LoginRequest, ipAddress string) (driver.LoginResponse, error) {
	if s.limiter.Exhausted(ipAddress) {
		return driver.LoginResponse{}, driver.ErrTooManyAttempts
	}
	if err := req.Validate(); err != nil {
		return driver.LoginResponse{}, err
	}

	d, err := s.drivers.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, driver.ErrDriverNotFound) {
			s.limiter.Hit(ipAddress)
			return driver.LoginResponse{}, driver.ErrInvalidCredentials
		}
		return driver.LoginResponse{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(d.PasswordHash), []byte(req.Password)) != nil {
		s.limiter.Hit(ipAddress)
		return driver.LoginResponse{}, driver.ErrInvalidCredentials
	}
	if d.Status != driver.StatusActive {
		return driver.LoginResponse{}, driver.ErrDriverInactive
	}
	s.limiter.Reset(ipAddress)

	bearer, err := token.NewBearer(uuid.Must(uuid.NewV7()).String())
	if err != nil {
		return driver.LoginResponse{}, fmt.Errorf("failed to generate driver token: %w", err)
	}

	t := driver.Token{
		ID:        bearer.ID,
		DriverID:  d.ID,
		Name:      req.DeviceName,
		TokenHash: token.Hash(bearer.Secret),
	}
	if s.cfg.TokenTTL > 0 {
		expiresAt := s.now().Add(s.cfg.TokenTTL)
		t.ExpiresAt = &expiresAt
	}
	if t, err = s.tokens.Create(ctx, t); err != nil {
		return driver.LoginResponse{}, err
	}

	slog.Info("Driver signed in", "driver_id", d.ID, "company_id", d.CompanyID, "device", req.DeviceName)
	return driver.LoginResponse{
		Token:     bearer.String(),
		TokenType: tokenType,
		ExpiresAt: t.ExpiresAt,
		Driver:    driver.NewDriverResponse(d),
	}, nil
}

// Authenticate implements driver.DriverService.
func (s *DriverServiceImpl) Authenticate(ctx context.Context, raw string) (auth.Principal, error) {
	bearer, ok := token.ParseBearer(raw)
	if !ok || !validator.IsValidUUID(bearer.ID) {
		return auth.Principal{}, driver.ErrInvalidToken
	}

	t, err := s.tokens.GetByID(ctx, bearer.ID)
	if err != nil {
		if errors.Is(err, driver.ErrInvalidToken) {
			return auth.Principal{}, err
		}
		return auth.Principal{}, fmt.Errorf("failed to load driver token: %w", err)
	}
	now := s.now()
	if !token.Equal(bearer.Secret, t.TokenHash) || t.IsExpired(now) {
		return auth.Principal{}, driver.ErrInvalidToken
	}

	d, err := s.drivers.GetByIDAnyTenant(ctx, t.DriverID)
	if err != nil {
		if errors.Is(err, driver.ErrDriverNotFound) {
			return auth.Principal{}, driver.ErrInvalidToken
		}
		return auth.Principal{}, err
	}
	if d.Status != driver.StatusActive {
		return auth.Principal{}, driver.ErrDriverInactive
	}

	if err := s.tokens.Touch(ctx, t.ID, now); err != nil {
		slog.Warn("Failed to touch driver token", "token_id", t.ID, "error", err)
	}

	return auth.Principal{Kind: auth.KindDriver, ID: d.ID, CompanyID: d.CompanyID, Email: d.Email}, nil
}

// Logout revokes the token used for the current request.
func (s *DriverServiceImpl) Logout(ctx context.Context, p auth.Principal, raw string) error {
	if p.Kind != auth.KindDriver {
		return auth.ErrForbidden
	}
	bearer, ok := token.ParseBearer(raw)
	if !ok || !validator.IsValidUUID(bearer.ID) {
		return driver.ErrInvalidToken
	}
	return s.tokens.Delete(ctx, bearer.ID, p.ID)
}

func (s *DriverServiceImpl) Me(ctx context.Context, p auth.Principal) (driver.DriverResponse, error) {
	if p.Kind != auth.KindDriver {
		return driver.DriverResponse{}, auth.ErrForbidden
	}
	d, err := s.drivers.GetByID(ctx, p.CompanyID, p.ID)
	if err != nil {
		return driver.DriverResponse{}, err
	}
	return driver.NewDriverResponse(d), nil
}
