package notification

import (
	"context"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
)

type Service interface {
	// QueueNotification hands the notification to the background writers.
	QueueNotification(ctx context.Context, req CreateNotificationRequest) error
	Send(ctx context.Context, p auth.Principal, req SendRequest) error

	List(ctx context.Context, p auth.Principal, req ListRequest) (pagination.Page[NotificationResponse], error)
	UnreadCount(ctx context.Context, p auth.Principal) (UnreadCountResponse, error)
	MarkRead(ctx context.Context, p auth.Principal, id string) error
	MarkAllRead(ctx context.Context, p auth.Principal) (MarkAllReadResponse, error)

	// Subscribe streams new notifications for key until ctx ends.
	Subscribe(ctx context.Context, key string) (<-chan NotificationResponse, func())
	Stop()
}
