package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/notification"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/database"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

const notificationColumns = `
	id, company_id, recipient_kind, recipient_id, sender_id, type, title, message, data,
	read_at, created_at`

type notificationRepository struct {
	db *database.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *database.DB) notification.Repository {
	return &notificationRepository{db: db}
}

// marshalData stores an empty payload as SQL NULL.
func marshalData(data map[string]interface{}) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notification data: %w", err)
	}
	return b, nil
}

func scanNotification(row pgx.Row) (notification.Notification, error) {
	var n notification.Notification
	var dataJSON []byte
	err := row.Scan(
		&n.ID, &n.CompanyID, &n.Recipient.Kind, &n.Recipient.ID, &n.SenderID, &n.Type,
		&n.Title, &n.Message, &dataJSON, &n.ReadAt, &n.CreatedAt,
	)
	if err != nil {
		return n, err
	}
	if len(dataJSON) > 0 {
		if err := json.Unmarshal(dataJSON, &n.Data); err != nil {
			return n, fmt.Errorf("failed to unmarshal notification data: %w", err)
		}
	}
	return n, nil
}

// Create creates a new notification
func (r *notificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	return r.CreateBatch(ctx, []*notification.Notification{n})
}

// CreateBatch creates multiple notifications in a single statement
func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []*notification.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	const cols = 10
	valueStrings := make([]string, 0, len(notifications))
	valueArgs := make([]interface{}, 0, len(notifications)*cols)

	for i, n := range notifications {
		if n.ID == "" {
			n.ID = newID()
		}
		if n.CreatedAt.IsZero() {
			n.CreatedAt = time.Now()
		}

		dataJSON, err := marshalData(n.Data)
		if err != nil {
			return err
		}

		base := i * cols
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9, base+10,
		))
		valueArgs = append(valueArgs,
			n.ID,
			n.CompanyID,
			string(n.Recipient.Kind),
			n.Recipient.ID,
			n.SenderID,
			string(n.Type),
			n.Title,
			n.Message,
			dataJSON,
			n.CreatedAt,
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO notifications (id, company_id, recipient_kind, recipient_id, sender_id, type, title, message, data, created_at)
		VALUES %s
	`, strings.Join(valueStrings, ", "))

	if _, err := q.Exec(ctx, query, valueArgs...); err != nil {
		return fmt.Errorf("failed to batch create notifications: %w", err)
	}

	return nil
}

func recipientWhere(companyID string, rcpt notification.Recipient) *whereBuilder {
	w := newWhere("company_id = ?", companyID)
	w.add("recipient_kind = ? AND recipient_id = ?", string(rcpt.Kind), rcpt.ID)
	return w
}

// List returns the recipient's notifications, newest first by default
func (r *notificationRepository) List(ctx context.Context, companyID string, rcpt notification.Recipient, unreadOnly bool, page pagination.Params) ([]notification.Notification, int64, error) {
	q := GetQuerier(ctx, r.db)

	w := recipientWhere(companyID, rcpt)
	if unreadOnly {
		w.add("read_at IS NULL")
	}

	items, total, err := fetchPage(ctx, q, listQuery{
		columns:  notificationColumns,
		from:     "notifications",
		where:    w,
		tiebreak: "id DESC",
	}, page, scanNotification)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	return items, total, nil
}

// UnreadCount counts the recipient's unread notifications
func (r *notificationRepository) UnreadCount(ctx context.Context, companyID string, rcpt notification.Recipient) (int64, error) {
	q := GetQuerier(ctx, r.db)

	w := recipientWhere(companyID, rcpt)
	w.add("read_at IS NULL")

	var count int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM notifications WHERE "+w.sql(), w.args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead marks one notification as read. Marking an already read one is a no-op.
func (r *notificationRepository) MarkRead(ctx context.Context, companyID string, rcpt notification.Recipient, id string, now time.Time) error {
	q := GetQuerier(ctx, r.db)

	w := recipientWhere(companyID, rcpt)
	w.add("id = ?", id)
	w.args = append(w.args, now)
	query := fmt.Sprintf("UPDATE notifications SET read_at = COALESCE(read_at, $%d) WHERE %s", len(w.args), w.sql())

	tag, err := q.Exec(ctx, query, w.args...)
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notification.ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification of the recipient as read
func (r *notificationRepository) MarkAllRead(ctx context.Context, companyID string, rcpt notification.Recipient, now time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	w := recipientWhere(companyID, rcpt)
	w.add("read_at IS NULL")
	w.args = append(w.args, now)
	query := fmt.Sprintf("UPDATE notifications SET read_at = $%d WHERE %s", len(w.args), w.sql())

	tag, err := q.Exec(ctx, query, w.args...)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications as read: %w", err)
	}
	return tag.RowsAffected(), nil
}

type recipientResolver struct {
	db *database.DB
}

// NewRecipientResolver checks recipients against the customers, drivers and users tables.
func NewRecipientResolver(db *database.DB) notification.RecipientResolver {
	return &recipientResolver{db: db}
}

var recipientTables = map[notification.RecipientKind]string{
	notification.RecipientCustomer: "customers",
	notification.RecipientDriver:   "drivers",
	notification.RecipientUser:     "users",
}

func (r *recipientResolver) RecipientExists(ctx context.Context, companyID string, rcpt notification.Recipient) (bool, error) {
	table, ok := recipientTables[rcpt.Kind]
	if !ok {
		return false, notification.ErrInvalidRecipient
	}

	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE company_id = $1 AND id = $2)", table)
	var exists bool
	if err := q.QueryRow(ctx, query, companyID, rcpt.ID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to resolve notification recipient: %w", err)
	}
	return exists, nil
}
