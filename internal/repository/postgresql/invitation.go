package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/invitation"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/database"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

const activeEmailIndex = "ux_customer_invitations_active_email"

const invitationColumns = `
	ci.id, ci.company_id, ci.customer_id, ci.email, ci.token, ci.created_by,
	ci.expires_at, ci.accepted_at, ci.active, ci.created_at, ci.updated_at`

type invitationRepositoryImpl struct {
	db *database.DB
}

// NewInvitationRepository creates a new invitation repository instance
func NewInvitationRepository(db *database.DB) invitation.InvitationRepository {
	return &invitationRepositoryImpl{db: db}
}

func scanInvitation(row pgx.Row) (invitation.Invitation, error) {
	var inv invitation.Invitation
	err := row.Scan(
		&inv.ID, &inv.CompanyID, &inv.CustomerID, &inv.Email, &inv.Token, &inv.CreatedBy,
		&inv.ExpiresAt, &inv.AcceptedAt, &inv.Active, &inv.CreatedAt, &inv.UpdatedAt,
	)
	return inv, err
}

// Create implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) Create(ctx context.Context, inv invitation.Invitation) (invitation.Invitation, error) {
	q := GetQuerier(ctx, r.db)

	if inv.ID == "" {
		inv.ID = newID()
	}

	query := `
		INSERT INTO customer_invitations AS ci (
			id, company_id, customer_id, email, token, created_by, expires_at, active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
		RETURNING ` + invitationColumns

	created, err := scanInvitation(q.QueryRow(ctx, query,
		inv.ID, inv.CompanyID, inv.CustomerID, inv.Email, inv.Token, inv.CreatedBy, inv.ExpiresAt,
	))
	if err != nil {
		if isUniqueViolation(err, activeEmailIndex) {
			return invitation.Invitation{}, invitation.ErrInvitationExists
		}
		return invitation.Invitation{}, fmt.Errorf("failed to create invitation: %w", err)
	}

	return created, nil
}

func (r *invitationRepositoryImpl) getOne(ctx context.Context, where string, args ...interface{}) (invitation.Invitation, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + invitationColumns + ` FROM customer_invitations ci WHERE ` + where
	inv, err := scanInvitation(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return invitation.Invitation{}, invitation.ErrInvitationNotFound
		}
		return invitation.Invitation{}, fmt.Errorf("failed to get invitation: %w", err)
	}
	return inv, nil
}

// GetByID implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) GetByID(ctx context.Context, companyID, id string) (invitation.Invitation, error) {
	return r.getOne(ctx, "ci.company_id = $1 AND ci.id = $2", companyID, id)
}

// GetByToken implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) GetByToken(ctx context.Context, token string) (invitation.Invitation, error) {
	return r.getOne(ctx, "ci.token = $1", token)
}

// ExistsActive implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) ExistsActive(ctx context.Context, companyID, email string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS(
			SELECT 1 FROM customer_invitations
			WHERE company_id = $1 AND email = $2 AND active AND accepted_at IS NULL
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, companyID, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check active invitation: %w", err)
	}
	return exists, nil
}

// statusCondition mirrors Invitation.Status: accepted, then expired, then inactive.
func statusCondition(w *whereBuilder, status invitation.Status, now time.Time) {
	switch status {
	case invitation.StatusAccepted:
		w.add("ci.accepted_at IS NOT NULL")
	case invitation.StatusExpired:
		w.add("ci.accepted_at IS NULL AND ci.expires_at <= ?", now)
	case invitation.StatusInactive:
		w.add("ci.accepted_at IS NULL AND NOT ci.active AND ci.expires_at > ?", now)
	case invitation.StatusPending:
		w.add("ci.accepted_at IS NULL AND ci.active AND ci.expires_at > ?", now)
	}
}

// escapeLike quotes LIKE wildcards so the value matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// List implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) List(ctx context.Context, companyID string, filter invitation.ListFilter, page pagination.Params, now time.Time) ([]invitation.Invitation, int64, error) {
	q := GetQuerier(ctx, r.db)

	w := newWhere("ci.company_id = ?", companyID)
	if filter.Status != nil {
		statusCondition(w, *filter.Status, now)
	}
	if filter.CustomerID != nil {
		w.add("ci.customer_id = ?", *filter.CustomerID)
	}
	if filter.Email != nil {
		w.add("ci.email ILIKE '%' || ? || '%'", escapeLike(*filter.Email))
	}

	items, total, err := fetchPage(ctx, q, listQuery{
		columns:  invitationColumns,
		from:     "customer_invitations ci",
		where:    w,
		tiebreak: "ci.id",
	}, page, scanInvitation)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list invitations: %w", err)
	}
	return items, total, nil
}

// explainMiss re-reads a row an update did not touch. A missing row is
// ErrInvitationNotFound; an existing one returns ifExists.
func (r *invitationRepositoryImpl) explainMiss(ctx context.Context, companyID, id string, ifExists error) error {
	if _, err := r.GetByID(ctx, companyID, id); err != nil {
		return err
	}
	return ifExists
}

// Refresh implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) Refresh(ctx context.Context, companyID, id, token string, expiresAt time.Time) (invitation.Invitation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE customer_invitations ci
		SET token = $1, expires_at = $2, active = TRUE, updated_at = NOW()
		WHERE ci.company_id = $3 AND ci.id = $4 AND ci.accepted_at IS NULL
		RETURNING ` + invitationColumns

	inv, err := scanInvitation(q.QueryRow(ctx, query, token, expiresAt, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return invitation.Invitation{}, r.explainMiss(ctx, companyID, id, invitation.ErrCannotResendAccepted)
		}
		if isUniqueViolation(err, activeEmailIndex) {
			return invitation.Invitation{}, invitation.ErrInvitationExists
		}
		return invitation.Invitation{}, fmt.Errorf("failed to refresh invitation: %w", err)
	}
	return inv, nil
}

// Extend implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) Extend(ctx context.Context, companyID, id string, days int, now time.Time) (invitation.Invitation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE customer_invitations ci
		SET expires_at = GREATEST(ci.expires_at, $1) + make_interval(days => $2), updated_at = $1
		WHERE ci.company_id = $3 AND ci.id = $4 AND ci.accepted_at IS NULL
		RETURNING ` + invitationColumns

	inv, err := scanInvitation(q.QueryRow(ctx, query, now, days, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return invitation.Invitation{}, r.explainMiss(ctx, companyID, id, invitation.ErrInvitationAlreadyUsed)
		}
		return invitation.Invitation{}, fmt.Errorf("failed to extend invitation: %w", err)
	}
	return inv, nil
}

// Deactivate implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) Deactivate(ctx context.Context, companyID, id string) (invitation.Invitation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE customer_invitations ci
		SET active = FALSE, updated_at = NOW()
		WHERE ci.company_id = $1 AND ci.id = $2
		RETURNING ` + invitationColumns

	inv, err := scanInvitation(q.QueryRow(ctx, query, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return invitation.Invitation{}, invitation.ErrInvitationNotFound
		}
		return invitation.Invitation{}, fmt.Errorf("failed to deactivate invitation: %w", err)
	}
	return inv, nil
}

// Delete implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) Delete(ctx context.Context, companyID, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM customer_invitations WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return fmt.Errorf("failed to delete invitation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return invitation.ErrInvitationNotFound
	}
	return nil
}

// MarkAccepted implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) MarkAccepted(ctx context.Context, id, token string, now time.Time) (invitation.Invitation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE customer_invitations ci
		SET accepted_at = $1, active = FALSE, updated_at = $1
		WHERE ci.id = $2 AND ci.token = $3
		  AND ci.active AND ci.accepted_at IS NULL AND ci.expires_at > $1
		RETURNING ` + invitationColumns

	inv, err := scanInvitation(q.QueryRow(ctx, query, now, id, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return invitation.Invitation{}, invitation.ErrInvitationNotUsable
		}
		return invitation.Invitation{}, fmt.Errorf("failed to mark invitation as accepted: %w", err)
	}
	return inv, nil
}

// LinkCustomer implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) LinkCustomer(ctx context.Context, id, customerID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE customer_invitations SET customer_id = $1, updated_at = NOW() WHERE id = $2`, customerID, id)
	if err != nil {
		return fmt.Errorf("failed to link invitation customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return invitation.ErrInvitationNotFound
	}
	return nil
}

// CleanupExpired implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) CleanupExpired(ctx context.Context, companyID *string, now time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	w := newWhere("active AND accepted_at IS NULL AND expires_at < ?", now)
	if companyID != nil {
		w.add("company_id = ?", *companyID)
	}
	query := "UPDATE customer_invitations SET active = FALSE, updated_at = $1 WHERE " + w.sql()

	tag, err := q.Exec(ctx, query, w.args...)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up expired invitations: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Statistics implements invitation.InvitationRepository with a single aggregate scan.
func (r *invitationRepositoryImpl) Statistics(ctx context.Context, companyID string, customerID *string, window invitation.StatisticsWindow) (invitation.Statistics, error) {
	q := GetQuerier(ctx, r.db)

	w := newWhere("company_id = ?", companyID)
	if customerID != nil {
		w.add("customer_id = ?", *customerID)
	}

	n := len(w.args)
	now, day, week, month, until := n+1, n+2, n+3, n+4, n+5
	query := fmt.Sprintf(`
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE accepted_at IS NULL AND active AND expires_at > $%[1]d),
			COUNT(*) FILTER (WHERE accepted_at IS NOT NULL),
			COUNT(*) FILTER (WHERE accepted_at IS NULL AND expires_at <= $%[1]d),
			COUNT(*) FILTER (WHERE accepted_at IS NULL AND NOT active AND expires_at > $%[1]d),
			COUNT(*) FILTER (WHERE created_at >= $%[2]d),
			COUNT(*) FILTER (WHERE created_at >= $%[3]d),
			COUNT(*) FILTER (WHERE created_at >= $%[4]d),
			COUNT(*) FILTER (WHERE accepted_at IS NULL AND active AND expires_at > $%[1]d AND expires_at <= $%[5]d)
		FROM customer_invitations
		WHERE %[6]s
	`, now, day, week, month, until, w.sql())

	args := append(w.args, window.Now, window.DayStart, window.WeekStart, window.MonthStart, window.ExpiringUntil)

	var s invitation.Statistics
	err := q.QueryRow(ctx, query, args...).Scan(
		&s.Total, &s.Pending, &s.Accepted, &s.Expired, &s.Inactive,
		&s.CreatedToday, &s.CreatedThisWeek, &s.CreatedThisMonth, &s.ExpiringSoon,
	)
	if err != nil {
		return invitation.Statistics{}, fmt.Errorf("failed to compute invitation statistics: %w", err)
	}
	return s, nil
}
