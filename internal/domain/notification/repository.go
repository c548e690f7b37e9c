package notification

import (
	"context"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
)

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	CreateBatch(ctx context.Context, notifications []*Notification) error
	List(ctx context.Context, companyID string, r Recipient, unreadOnly bool, page pagination.Params) ([]Notification, int64, error)
	UnreadCount(ctx context.Context, companyID string, r Recipient) (int64, error)
	MarkRead(ctx context.Context, companyID string, r Recipient, id string, now time.Time) error
	MarkAllRead(ctx context.Context, companyID string, r Recipient, now time.Time) (int64, error)
}

// RecipientResolver checks that a recipient exists inside a tenant.
type RecipientResolver interface {
	RecipientExists(ctx context.Context, companyID string, r Recipient) (bool, error)
}
