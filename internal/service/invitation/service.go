package invitation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/config"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/activity"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/company"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/customer"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/invitation"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/notification"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/user"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/database"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/email"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/metrics"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/token"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/validator"
	"golang.org/x/crypto/bcrypt"
)

const subjectType = "customer_invitation"

// Notifier queues in-app notifications.
type Notifier interface {
	QueueNotification(ctx context.Context, req notification.CreateNotificationRequest) error
}

type InvitationServiceImpl struct {
	tx        database.TxManager
	repo      invitation.InvitationRepository
	customers customer.CustomerRepository
	companies company.CompanyRepository
	users     customer.PortalUserRepository
	activity  activity.ActivityRepository
	mailer    email.EmailService
	notifier  Notifier
	cfg       config.InvitationConfig
	urlFor    func(token string) string

	now func() time.Time
}

func NewInvitationService(
	tx database.TxManager,
	repo invitation.InvitationRepository,
	customers customer.CustomerRepository,
	portalUsers customer.PortalUserRepository,
	companies company.CompanyRepository,
	activityRepo activity.ActivityRepository,
	mailer email.EmailService,
	notifier Notifier,
	cfg config.InvitationConfig,
	urlFor func(token string) string,
) *InvitationServiceImpl {
	return &InvitationServiceImpl{
		tx:        tx,
		repo:      repo,
		customers: customers,
		companies: companies,
		users:     portalUsers,
		activity:  activityRepo,
		mailer:    mailer,
		notifier:  notifier,
		cfg:       cfg,
		urlFor:    urlFor,
		now:       time.Now,
	}
}

var _ invitation.InvitationService = (*InvitationServiceImpl)(nil)

// resolveExpiry parses an optional RFC3339 expiry, defaulting to the configured window.
func (s *InvitationServiceImpl) resolveExpiry(raw *string, now time.Time) (time.Time, error) {
	if raw == nil {
		return now.AddDate(0, 0, s.cfg.ExpiryDays), nil
	}
	expiresAt, _ := validator.IsValidDateTime(*raw)
	if !expiresAt.After(now) {
		var errs validator.ValidationErrors
		errs.Add("expires_at", "expires_at must be in the future")
		return time.Time{}, errs
	}
	return expiresAt.UTC(), nil
}

func (s *InvitationServiceImpl) record(ctx context.Context, p auth.Principal, action string, inv invitation.Invitation, props map[string]interface{}) error {
	entry := activity.Entry{
		CompanyID:   inv.CompanyID,
		ActorKind:   string(p.Kind),
		Action:      action,
		SubjectType: subjectType,
		SubjectID:   &inv.ID,
		Properties:  props,
	}
	if p.ID != "" {
		entry.ActorID = &p.ID
	}
	if p.IPAddress != "" {
		entry.IPAddress = &p.IPAddress
	}
	if err := s.activity.Record(ctx, entry); err != nil {
		return fmt.Errorf("failed to record %s activity: %w", action, err)
	}
	return nil
}

// Create implements invitation.InvitationService.
func (s *InvitationServiceImpl) Create(ctx context.Context, p auth.Principal, req invitation.CreateRequest) (invitation.InvitationResponse, error) {
	if !p.Can(user.PermissionInvitationManage) {
		return invitation.InvitationResponse{}, auth.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return invitation.InvitationResponse{}, err
	}

	now := s.now()
	expiresAt, err := s.resolveExpiry(req.ExpiresAt, now)
	if err != nil {
		return invitation.InvitationResponse{}, err
	}

	var cust *customer.Customer
	if req.CustomerID != nil {
		c, err := s.customers.GetByID(ctx, p.CompanyID, *req.CustomerID)
		if err != nil {
			return invitation.InvitationResponse{}, err
		}
		cust = &c
	}

	exists, err := s.repo.ExistsActive(ctx, p.CompanyID, req.Email)
	if err != nil {
		return invitation.InvitationResponse{}, fmt.Errorf("failed to check existing invitations: %w", err)
	}
	if exists {
		return invitation.InvitationResponse{}, invitation.ErrInvitationExists
	}

	inv, err := s.insert(ctx, p, req.Email, req.CustomerID, expiresAt)
	if err != nil {
		return invitation.InvitationResponse{}, err
	}

	if req.ShouldSendEmail() {
		s.sendInvitation(ctx, inv, cust, false)
	}

	return invitation.NewInvitationResponse(inv, now), nil
}

// insert stores one invitation and its audit entry in a single transaction.
func (s *InvitationServiceImpl) insert(ctx context.Context, p auth.Principal, addr string, customerID *string, expiresAt time.Time) (invitation.Invitation, error) {
	secret, err := token.Invitation()
	if err != nil {
		return invitation.Invitation{}, fmt.Errorf("failed to generate invitation token: %w", err)
	}

	var created invitation.Invitation
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		inv := invitation.Invitation{
			CompanyID:  p.CompanyID,
			CustomerID: customerID,
			Email:      addr,
			Token:      secret,
			CreatedBy:  &p.ID,
			ExpiresAt:  expiresAt,
			Active:     true,
		}
		var err error
		if created, err = s.repo.Create(txCtx, inv); err != nil {
			return err
		}
		return s.record(txCtx, p, activity.ActionInvitationCreated, created, map[string]interface{}{
			"email":      created.Email,
			"expires_at": created.ExpiresAt,
		})
	})
	if err != nil {
		return invitation.Invitation{}, err
	}

	metrics.InvitationsCreated.Inc()
	slog.Info("Invitation created", "invitation_id", created.ID, "company_id", created.CompanyID)
	return created, nil
}

// sendInvitation hands the acceptance link to the mailer, which queues it.
// Failures are logged and never surface to the caller.
func (s *InvitationServiceImpl) sendInvitation(ctx context.Context, inv invitation.Invitation, cust *customer.Customer, isResend bool) {
	data := email.CustomerInvitationData{
		AcceptURL: s.urlFor(inv.Token),
		ExpiresAt: inv.ExpiresAt,
		IsResend:  isResend,
	}
	if co, err := s.companies.GetByID(ctx, inv.CompanyID); err == nil {
		data.CompanyName = co.Name
		if co.Email != nil {
			data.SupportEmail = *co.Email
		}
	} else {
		slog.Warn("Failed to load company for invitation email", "company_id", inv.CompanyID, "error", err)
	}
	if cust != nil {
		data.CustomerName = cust.Name
	}

	if err := s.mailer.SendCustomerInvitation(inv.Email, data); err != nil {
		slog.Error("Failed to send invitation email", "invitation_id", inv.ID, "error", err)
	}
}

// BulkCreate implements invitation.InvitationService.
func (s *InvitationServiceImpl) BulkCreate(ctx context.Context, p auth.Principal, req invitation.BulkCreateRequest) (invitation.BulkCreateResponse, error) {
	if !p.Can(user.PermissionInvitationManage) {
		return invitation.BulkCreateResponse{}, auth.ErrForbidden
	}
	if err := req.Validate(s.cfg.BulkMax); err != nil {
		return invitation.BulkCreateResponse{}, err
	}

	now := s.now()
	expiresAt, err := s.resolveExpiry(req.ExpiresAt, now)
	if err != nil {
		return invitation.BulkCreateResponse{}, err
	}

	cust, err := s.customers.GetByID(ctx, p.CompanyID, req.CustomerID)
	if err != nil {
		return invitation.BulkCreateResponse{}, err
	}

	resp := invitation.BulkCreateResponse{
		Created: []invitation.InvitationResponse{},
		Skipped: []invitation.BulkSkipped{},
		Failed:  []invitation.BulkFailed{},
	}
	for _, addr := range req.Emails {
		exists, err := s.repo.ExistsActive(ctx, p.CompanyID, addr)
		if err != nil {
			return invitation.BulkCreateResponse{}, fmt.Errorf("failed to check existing invitations: %w", err)
		}
		if exists {
			resp.Skipped = append(resp.Skipped, invitation.BulkSkipped{Email: addr, Reason: invitation.ReasonAlreadyInvited})
			continue
		}

		inv, err := s.insert(ctx, p, addr, &cust.ID, expiresAt)
		switch {
		case errors.Is(err, invitation.ErrInvitationExists):
			resp.Skipped = append(resp.Skipped, invitation.BulkSkipped{Email: addr, Reason: invitation.ReasonAlreadyInvited})
			continue
		case err != nil:
			slog.Error("Failed to create bulk invitation", "company_id", p.CompanyID, "email", addr, "error", err)
			resp.Failed = append(resp.Failed, invitation.BulkFailed{Email: addr, Error: "could not create invitation"})
			continue
		}

		if req.ShouldSendEmail() {
			s.sendInvitation(ctx, inv, &cust, false)
		}
		resp.Created = append(resp.Created, invitation.NewInvitationResponse(inv, now))
	}

	resp.CreatedCount = len(resp.Created)
	resp.SkippedCount = len(resp.Skipped)
	resp.FailedCount = len(resp.Failed)
	return resp, nil
}

// List implements invitation.InvitationService.
func (s *InvitationServiceImpl) List(ctx context.Context, p auth.Principal, req invitation.ListRequest) (pagination.Page[invitation.InvitationResponse], error) {
	if !p.Can(user.PermissionInvitationView) {
		return pagination.Page[invitation.InvitationResponse]{}, auth.ErrForbidden
	}

	now := s.now()
	items, total, err := s.repo.List(ctx, p.CompanyID, req.Filter, req.Page, now)
	if err != nil {
		return pagination.Page[invitation.InvitationResponse]{}, err
	}

	page := pagination.NewPage(items, total, req.Page)
	return pagination.Map(page, func(inv invitation.Invitation) invitation.InvitationResponse {
		return invitation.NewInvitationResponse(inv, now)
	}), nil
}

// Get implements invitation.InvitationService.
func (s *InvitationServiceImpl) Get(ctx context.Context, p auth.Principal, id string) (invitation.InvitationResponse, error) {
	if !p.Can(user.PermissionInvitationView) {
		return invitation.InvitationResponse{}, auth.ErrForbidden
	}

	inv, err := s.repo.GetByID(ctx, p.CompanyID, id)
	if err != nil {
		return invitation.InvitationResponse{}, err
	}
	return invitation.NewInvitationResponse(inv, s.now()), nil
}

// Resend implements invitation.InvitationService.
func (s *InvitationServiceImpl) Resend(ctx context.Context, p auth.Principal, id string) (invitation.InvitationResponse, error) {
	if !p.Can(user.PermissionInvitationManage) {
		return invitation.InvitationResponse{}, auth.ErrForbidden
	}

	inv, err := s.repo.GetByID(ctx, p.CompanyID, id)
	if err != nil {
		return invitation.InvitationResponse{}, err
	}
	if inv.IsAccepted() {
		return invitation.InvitationResponse{}, invitation.ErrCannotResendAccepted
	}

	secret, err := token.Invitation()
	if err != nil {
		return invitation.InvitationResponse{}, fmt.Errorf("failed to generate invitation token: %w", err)
	}

	now := s.now()
	var refreshed invitation.Invitation
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		refreshed, err = s.repo.Refresh(txCtx, p.CompanyID, id, secret, inv.ExtendedExpiry(now, s.cfg.ResendWindowDays))
		if err != nil {
			return err
		}
		return s.record(txCtx, p, activity.ActionInvitationResent, refreshed, map[string]interface{}{
			"email":      refreshed.Email,
			"expires_at": refreshed.ExpiresAt,
		})
	})
	if err != nil {
		return invitation.InvitationResponse{}, err
	}
	metrics.InvitationsResent.Inc()

	var cust *customer.Customer
	if refreshed.CustomerID != nil {
		if c, err := s.customers.GetByID(ctx, p.CompanyID, *refreshed.CustomerID); err == nil {
			cust = &c
		}
	}
	s.sendInvitation(ctx, refreshed, cust, true)

	return invitation.NewInvitationResponse(refreshed, now), nil
}

// Delete implements invitation.InvitationService.
func (s *InvitationServiceImpl) Delete(ctx context.Context, p auth.Principal, id string) error {
	if !p.Can(user.PermissionInvitationManage) {
		return auth.ErrForbidden
	}

	inv, err := s.repo.GetByID(ctx, p.CompanyID, id)
	if err != nil {
		return err
	}

	return s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.Delete(txCtx, p.CompanyID, id); err != nil {
			return err
		}
		return s.record(txCtx, p, activity.ActionInvitationDeleted, inv, map[string]interface{}{
			"email": inv.Email,
		})
	})
}

// Deactivate implements invitation.InvitationService.
func (s *InvitationServiceImpl) Deactivate(ctx context.Context, p auth.Principal, id string) (invitation.InvitationResponse, error) {
	if !p.Can(user.PermissionInvitationManage) {
		return invitation.InvitationResponse{}, auth.ErrForbidden
	}

	var inv invitation.Invitation
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		if inv, err = s.repo.Deactivate(txCtx, p.CompanyID, id); err != nil {
			return err
		}
		return s.record(txCtx, p, activity.ActionInvitationDeactivated, inv, map[string]interface{}{
			"email": inv.Email,
		})
	})
	if err != nil {
		return invitation.InvitationResponse{}, err
	}
	return invitation.NewInvitationResponse(inv, s.now()), nil
}

func (s *InvitationServiceImpl) extend(ctx context.Context, p auth.Principal, id string, days int, now time.Time) (invitation.Invitation, error) {
	var inv invitation.Invitation
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		if inv, err = s.repo.Extend(txCtx, p.CompanyID, id, days, now); err != nil {
			return err
		}
		return s.record(txCtx, p, activity.ActionInvitationExtended, inv, map[string]interface{}{
			"days":       days,
			"expires_at": inv.ExpiresAt,
		})
	})
	return inv, err
}

// Extend implements invitation.InvitationService. Unknown and accepted ids are
// reported as skipped instead of failing the batch.
func (s *InvitationServiceImpl) Extend(ctx context.Context, p auth.Principal, req invitation.ExtendRequest) (invitation.ExtendResponse, error) {
	if !p.Can(user.PermissionInvitationManage) {
		return invitation.ExtendResponse{}, auth.ErrForbidden
	}
	if err := req.Validate(s.cfg.MaxExtendDays); err != nil {
		return invitation.ExtendResponse{}, err
	}

	now := s.now()
	resp := invitation.ExtendResponse{
		Extended: []invitation.ExtendedItem{},
		Skipped:  []invitation.ExtendSkipped{},
	}
	seen := make(map[string]struct{}, len(req.InvitationIDs))
	for _, id := range req.InvitationIDs {
		id = strings.ToLower(id)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		inv, err := s.extend(ctx, p, id, req.Days, now)
		switch {
		case errors.Is(err, invitation.ErrInvitationNotFound):
			resp.Skipped = append(resp.Skipped, invitation.ExtendSkipped{ID: id, Reason: invitation.ReasonNotFound})
		case errors.Is(err, invitation.ErrInvitationAlreadyUsed):
			resp.Skipped = append(resp.Skipped, invitation.ExtendSkipped{ID: id, Reason: invitation.ReasonAlreadyAccepted})
		case err != nil:
			return invitation.ExtendResponse{}, err
		default:
			resp.Extended = append(resp.Extended, invitation.ExtendedItem{ID: inv.ID, ExpiresAt: inv.ExpiresAt})
		}
	}

	resp.ExtendedCount = len(resp.Extended)
	resp.SkippedCount = len(resp.Skipped)
	return resp, nil
}

// ExtendOne implements invitation.InvitationService.
func (s *InvitationServiceImpl) ExtendOne(ctx context.Context, p auth.Principal, id string, req invitation.ExtendOneRequest) (invitation.InvitationResponse, error) {
	if !p.Can(user.PermissionInvitationManage) {
		return invitation.InvitationResponse{}, auth.ErrForbidden
	}
	if err := req.Validate(s.cfg.MaxExtendDays); err != nil {
		return invitation.InvitationResponse{}, err
	}

	now := s.now()
	inv, err := s.extend(ctx, p, id, req.Days, now)
	if err != nil {
		return invitation.InvitationResponse{}, err
	}
	return invitation.NewInvitationResponse(inv, now), nil
}

// Cleanup implements invitation.InvitationService.
func (s *InvitationServiceImpl) Cleanup(ctx context.Context, p auth.Principal) (invitation.CleanupResponse, error) {
	if !p.Can(user.PermissionInvitationManage) {
		return invitation.CleanupResponse{}, auth.ErrForbidden
	}

	var n int64
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		if n, err = s.repo.CleanupExpired(txCtx, &p.CompanyID, s.now()); err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		entry := activity.Entry{
			CompanyID:   p.CompanyID,
			ActorKind:   string(p.Kind),
			ActorID:     &p.ID,
			Action:      activity.ActionInvitationCleanup,
			SubjectType: subjectType,
			Properties:  map[string]interface{}{"deactivated": n},
		}
		return s.activity.Record(txCtx, entry)
	})
	if err != nil {
		return invitation.CleanupResponse{}, err
	}

	metrics.InvitationsCleanedUp.Add(float64(n))
	return invitation.CleanupResponse{Deactivated: n}, nil
}

// CleanupAll implements invitation.InvitationService. It is run by the scheduler
// across every tenant.
func (s *InvitationServiceImpl) CleanupAll(ctx context.Context) (int64, error) {
	n, err := s.repo.CleanupExpired(ctx, nil, s.now())
	if err != nil {
		return 0, err
	}
	metrics.InvitationsCleanedUp.Add(float64(n))
	return n, nil
}

// Statistics implements invitation.InvitationService.
func (s *InvitationServiceImpl) Statistics(ctx context.Context, p auth.Principal, req invitation.StatisticsRequest) (invitation.StatisticsResponse, error) {
	if !p.Can(user.PermissionInvitationView) {
		return invitation.StatisticsResponse{}, auth.ErrForbidden
	}

	stats, err := s.repo.Statistics(ctx, p.CompanyID, req.CustomerID, invitation.NewStatisticsWindow(s.now(), req.Days))
	if err != nil {
		return invitation.StatisticsResponse{}, err
	}

	return invitation.StatisticsResponse{
		Total:              stats.Total,
		Pending:            stats.Pending,
		Accepted:           stats.Accepted,
		Expired:            stats.Expired,
		Inactive:           stats.Inactive,
		AcceptanceRate:     acceptanceRate(stats.Accepted, stats.Total),
		CreatedToday:       stats.CreatedToday,
		CreatedThisWeek:    stats.CreatedThisWeek,
		CreatedThisMonth:   stats.CreatedThisMonth,
		ExpiringSoon:       stats.ExpiringSoon,
		ExpiringWithinDays: req.Days,
	}, nil
}

// acceptanceRate is a percentage rounded to two decimals.
func acceptanceRate(accepted, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(accepted)/float64(total)*10000) / 100
}

// usableByToken loads the invitation behind a public token and checks it can
// still be accepted.
func (s *InvitationServiceImpl) usableByToken(ctx context.Context, secret string) (invitation.Invitation, error) {
	if !validator.IsHexToken(secret, token.InvitationLength) {
		return invitation.Invitation{}, invitation.ErrInvitationNotFound
	}
	inv, err := s.repo.GetByToken(ctx, secret)
	if err != nil {
		return invitation.Invitation{}, err
	}
	if err := inv.CheckUsable(s.now()); err != nil {
		return inv, err
	}
	return inv, nil
}

// Lookup implements invitation.InvitationService.
func (s *InvitationServiceImpl) Lookup(ctx context.Context, secret string) (invitation.AcceptanceView, error) {
	inv, err := s.usableByToken(ctx, secret)
	if err != nil {
		return invitation.AcceptanceView{}, err
	}

	view := invitation.AcceptanceView{Email: inv.Email, ExpiresAt: inv.ExpiresAt}
	co, err := s.companies.GetByID(ctx, inv.CompanyID)
	if err != nil {
		return invitation.AcceptanceView{}, fmt.Errorf("failed to load company: %w", err)
	}
	view.CompanyName = co.Name
	view.CompanyLogoURL = co.LogoURL

	if cust, err := s.findCustomer(ctx, inv); err == nil {
		view.CustomerName = cust.Name
	} else if !errors.Is(err, customer.ErrCustomerNotFound) {
		return invitation.AcceptanceView{}, err
	}
	return view, nil
}

// findCustomer resolves the linked customer, falling back to the tenant
// customer with the invited email.
func (s *InvitationServiceImpl) findCustomer(ctx context.Context, inv invitation.Invitation) (customer.Customer, error) {
	if inv.CustomerID != nil {
		c, err := s.customers.GetByID(ctx, inv.CompanyID, *inv.CustomerID)
		if !errors.Is(err, customer.ErrCustomerNotFound) {
			return c, err
		}
	}
	return s.customers.GetByEmail(ctx, inv.CompanyID, inv.Email)
}

// Accept implements invitation.InvitationService.
func (s *InvitationServiceImpl) Accept(ctx context.Context, secret string, req invitation.AcceptRequest, ipAddress string) (invitation.AcceptResult, error) {
	pending, err := s.usableByToken(ctx, secret)
	if err != nil {
		return invitation.AcceptResult{}, err
	}
	if err := req.Validate(); err != nil {
		return invitation.AcceptResult{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return invitation.AcceptResult{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	var result invitation.AcceptResult
	var createdBy *string
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		inv, err := s.repo.MarkAccepted(txCtx, pending.ID, secret, now)
		if errors.Is(err, invitation.ErrInvitationNotUsable) {
			return s.explainUnusable(txCtx, secret, now)
		}
		if err != nil {
			return err
		}
		createdBy = inv.CreatedBy

		cust, err := s.findCustomer(txCtx, inv)
		if errors.Is(err, customer.ErrCustomerNotFound) {
			cust, err = s.newCustomer(txCtx, inv, req.Name)
		}
		if err != nil {
			return err
		}

		// the customer account keeps its own name; the invitee gets a sign-in of their own
		cust, err = s.customers.EnablePortal(txCtx, inv.CompanyID, cust.ID, now)
		if err != nil {
			return err
		}
		if _, err := s.users.Upsert(txCtx, customer.PortalUser{
			CompanyID:       inv.CompanyID,
			CustomerID:      cust.ID,
			Email:           inv.Email,
			Name:            req.Name,
			PasswordHash:    string(hash),
			EmailVerifiedAt: &now,
		}); err != nil {
			return err
		}
		if inv.CustomerID == nil || *inv.CustomerID != cust.ID {
			if err := s.repo.LinkCustomer(txCtx, inv.ID, cust.ID); err != nil {
				return err
			}
		}

		actor := auth.Principal{Kind: auth.KindCustomer, ID: cust.ID, CompanyID: inv.CompanyID, IPAddress: ipAddress}
		if err := s.record(txCtx, actor, activity.ActionInvitationAccepted, inv, map[string]interface{}{
			"email":       inv.Email,
			"customer_id": cust.ID,
		}); err != nil {
			return err
		}

		result = invitation.AcceptResult{
			InvitationID: inv.ID,
			CustomerID:   cust.ID,
			CompanyID:    inv.CompanyID,
			Email:        inv.Email,
			Name:         req.Name,
		}
		return nil
	})
	if err != nil {
		return invitation.AcceptResult{}, err
	}

	metrics.InvitationsAccepted.Inc()
	slog.Info("Invitation accepted", "invitation_id", result.InvitationID, "customer_id", result.CustomerID)

	if createdBy != nil && s.notifier != nil {
		err := s.notifier.QueueNotification(ctx, notification.CreateNotificationRequest{
			CompanyID: result.CompanyID,
			Recipient: notification.Recipient{Kind: notification.RecipientUser, ID: *createdBy},
			Type:      notification.TypeInvitationAccepted,
			Title:     "Invitation accepted",
			Message:   fmt.Sprintf("%s accepted the customer portal invitation.", result.Email),
			Data: map[string]interface{}{
				"invitation_id": result.InvitationID,
				"customer_id":   result.CustomerID,
			},
		})
		if err != nil {
			slog.Warn("Failed to queue invitation accepted notification", "invitation_id", result.InvitationID, "error", err)
		}
	}

	return result, nil
}

// explainUnusable re-reads an invitation whose conditional accept matched no
// row and reports the precise reason.
func (s *InvitationServiceImpl) explainUnusable(ctx context.Context, secret string, now time.Time) error {
	inv, err := s.repo.GetByToken(ctx, secret)
	if err != nil {
		return err
	}
	if err := inv.CheckUsable(now); err != nil {
		return err
	}
	return invitation.ErrInvitationNotUsable
}

func (s *InvitationServiceImpl) newCustomer(ctx context.Context, inv invitation.Invitation, name string) (customer.Customer, error) {
	suffix, err := token.Hex(4)
	if err != nil {
		return customer.Customer{}, fmt.Errorf("failed to generate account number: %w", err)
	}
	addr := inv.Email
	return s.customers.Create(ctx, customer.Customer{
		CompanyID:     inv.CompanyID,
		AccountNumber: "CUST-" + strings.ToUpper(suffix),
		Name:          name,
		Email:         &addr,
		Status:        customer.StatusActive,
	})
}
