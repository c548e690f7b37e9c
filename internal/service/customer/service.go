package customer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/customer"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type CustomerServiceImpl struct {
	customer.CustomerRepository
	jwt.Service

	portalUsers customer.PortalUserRepository
	now         func() time.Time
}

func NewCustomerService(
	customerRepository customer.CustomerRepository,
	portalUserRepository customer.PortalUserRepository,
	jwtService jwt.Service,
) *CustomerServiceImpl {
	return &CustomerServiceImpl{
		CustomerRepository: customerRepository,
		Service:            jwtService,
		portalUsers:        portalUserRepository,
		now:                time.Now,
	}
}

var _ customer.CustomerService = (*CustomerServiceImpl)(nil)

// Login implements customer.CustomerService. The same email may hold portal
// access with several companies; the oldest account whose password matches wins.
func (s *CustomerServiceImpl) Login(ctx context.Context, req customer.LoginRequest) (customer.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return customer.SessionResponse{}, err
	}

	accounts, err := s.portalUsers.ListAccountsByEmail(ctx, req.Email)
	if err != nil {
		return customer.SessionResponse{}, err
	}

	closed := false
	for _, a := range accounts {
		if bcrypt.CompareHashAndPassword([]byte(a.User.PasswordHash), []byte(req.Password)) != nil {
			continue
		}
		if !a.CanSignIn() {
			closed = closed || a.Customer.Status == customer.StatusClosed
			continue
		}
		return s.issue(ctx, a)
	}

	if closed {
		return customer.SessionResponse{}, customer.ErrAccountClosed
	}
	return customer.SessionResponse{}, customer.ErrInvalidCredentials
}

// StartSession implements customer.CustomerService.
func (s *CustomerServiceImpl) StartSession(ctx context.Context, companyID, email string) (customer.SessionResponse, error) {
	a, err := s.account(ctx, companyID, email)
	if err != nil {
		return customer.SessionResponse{}, err
	}
	if !a.CanSignIn() {
		return customer.SessionResponse{}, customer.ErrInvalidCredentials
	}
	return s.issue(ctx, a)
}

// account loads the tenant's portal user for email and the customer it belongs to.
func (s *CustomerServiceImpl) account(ctx context.Context, companyID, email string) (customer.PortalAccount, error) {
	u, err := s.portalUsers.GetByEmail(ctx, companyID, email)
	if err != nil {
		return customer.PortalAccount{}, err
	}
	c, err := s.CustomerRepository.GetByID(ctx, companyID, u.CustomerID)
	if err != nil {
		return customer.PortalAccount{}, err
	}
	return customer.PortalAccount{User: u, Customer: c}, nil
}

// principalAccount resolves the signed-in portal user, rejecting a session
// whose user has since been moved to another customer.
func (s *CustomerServiceImpl) principalAccount(ctx context.Context, p auth.Principal) (customer.PortalAccount, error) {
	if p.Kind != auth.KindCustomer {
		return customer.PortalAccount{}, auth.ErrForbidden
	}
	a, err := s.account(ctx, p.CompanyID, p.Email)
	if err != nil {
		return customer.PortalAccount{}, err
	}
	if a.Customer.ID != p.ID {
		return customer.PortalAccount{}, customer.ErrPortalUserNotFound
	}
	return a, nil
}

func (s *CustomerServiceImpl) issue(ctx context.Context, a customer.PortalAccount) (customer.SessionResponse, error) {
	token, expiresAt, err := s.Service.GenerateCustomerSessionToken(a.Customer.ID, a.Customer.CompanyID, a.User.Email)
	if err != nil {
		return customer.SessionResponse{}, fmt.Errorf("failed to generate customer session: %w", err)
	}

	now := s.now()
	if err := s.portalUsers.TouchLogin(ctx, a.User.ID, now); err != nil {
		slog.Warn("Failed to record customer login", "customer_id", a.Customer.ID, "portal_user_id", a.User.ID, "error", err)
	} else {
		a.User.LastLoginAt = &now
	}

	return customer.SessionResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Customer:  customer.NewProfileResponse(a),
	}, nil
}

// Profile implements customer.CustomerService.
func (s *CustomerServiceImpl) Profile(ctx context.Context, p auth.Principal) (customer.ProfileResponse, error) {
	a, err := s.principalAccount(ctx, p)
	if err != nil {
		return customer.ProfileResponse{}, err
	}
	return customer.NewProfileResponse(a), nil
}

// UpdateProfile implements customer.CustomerService.
func (s *CustomerServiceImpl) UpdateProfile(ctx context.Context, p auth.Principal, req customer.UpdateProfileRequest) (customer.ProfileResponse, error) {
	if p.Kind != auth.KindCustomer {
		return customer.ProfileResponse{}, auth.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return customer.ProfileResponse{}, err
	}

	a, err := s.principalAccount(ctx, p)
	if err != nil {
		return customer.ProfileResponse{}, err
	}
	if req.Name != nil {
		if a.User, err = s.portalUsers.UpdateName(ctx, p.CompanyID, a.User.ID, strings.TrimSpace(*req.Name)); err != nil {
			return customer.ProfileResponse{}, err
		}
	}
	if a.Customer, err = s.CustomerRepository.UpdateProfile(ctx, p.CompanyID, a.Customer.ID, req); err != nil {
		return customer.ProfileResponse{}, err
	}
	return customer.NewProfileResponse(a), nil
}

// ChangePassword implements customer.CustomerService.
func (s *CustomerServiceImpl) ChangePassword(ctx context.Context, p auth.Principal, req customer.ChangePasswordRequest) error {
	if p.Kind != auth.KindCustomer {
		return auth.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return err
	}

	a, err := s.principalAccount(ctx, p)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(a.User.PasswordHash), []byte(req.CurrentPassword)) != nil {
		return customer.ErrCurrentPasswordBad
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.portalUsers.UpdatePassword(ctx, p.CompanyID, a.User.ID, string(hash))
}
