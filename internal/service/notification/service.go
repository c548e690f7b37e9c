package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/notification"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/user"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/metrics"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/sse"
)

// Config holds notification service configuration
type Config struct {
	BatchSize     int           // default: 100
	FlushInterval time.Duration // default: 5 seconds
	WorkerCount   int           // default: 2
	QueueSize     int           // default: 1000
}

const eventName = "notification"

type service struct {
	repo     notification.Repository
	resolver notification.RecipientResolver
	hub      *sse.Hub
	config   Config

	queue    chan notification.CreateNotificationRequest
	wg       sync.WaitGroup
	stopCh   chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

// NewNotificationService creates a new notification service with background workers
func NewNotificationService(repo notification.Repository, resolver notification.RecipientResolver, hub *sse.Hub, cfg Config) notification.Service {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}

	s := &service{
		repo:     repo,
		resolver: resolver,
		hub:      hub,
		config:   cfg,
		queue:    make(chan notification.CreateNotificationRequest, cfg.QueueSize),
		stopCh:   make(chan struct{}),
		now:      time.Now,
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("Notification service started",
		"workers", cfg.WorkerCount, "batch_size", cfg.BatchSize, "flush_interval", cfg.FlushInterval)

	return s
}

// worker drains the queue, writing in batches of BatchSize or every FlushInterval.
func (s *service) worker(id int) {
	defer s.wg.Done()

	batch := make([]notification.CreateNotificationRequest, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		notifications := make([]*notification.Notification, len(batch))
		for i, req := range batch {
			notifications[i] = s.newNotification(req)
		}

		if err := s.repo.CreateBatch(ctx, notifications); err != nil {
			slog.Error("Failed to batch insert notifications", "worker", id, "count", len(notifications), "error", err)
		} else {
			slog.Debug("Inserted notifications", "worker", id, "count", len(notifications))
			for _, n := range notifications {
				s.delivered(n)
			}
		}

		batch = batch[:0]
	}

	for {
		select {
		case req := <-s.queue:
			batch = append(batch, req)
			if len(batch) >= s.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.stopCh:
			// drain what is already queued before exiting
			for {
				select {
				case req := <-s.queue:
					batch = append(batch, req)
					if len(batch) >= s.config.BatchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}

func (s *service) newNotification(req notification.CreateNotificationRequest) *notification.Notification {
	typ := req.Type
	if typ == "" {
		typ = notification.TypeGeneral
	}
	return &notification.Notification{
		ID:        uuid.Must(uuid.NewV7()).String(),
		CompanyID: req.CompanyID,
		Recipient: req.Recipient,
		SenderID:  req.SenderID,
		Type:      typ,
		Title:     req.Title,
		Message:   req.Message,
		Data:      req.Data,
		CreatedAt: s.now().UTC(),
	}
}

// delivered pushes a persisted notification to the recipient's open streams.
func (s *service) delivered(n *notification.Notification) {
	metrics.NotificationsDelivered.WithLabelValues(string(n.Recipient.Kind)).Inc()
	s.hub.Publish(n.Recipient.Key(), sse.Event{
		Event: eventName,
		Data:  notification.NewNotificationResponse(*n),
	})
}

// QueueNotification queues a notification for async processing
func (s *service) QueueNotification(ctx context.Context, req notification.CreateNotificationRequest) error {
	if !req.Recipient.Kind.IsValid() || req.Recipient.ID == "" {
		return notification.ErrInvalidRecipient
	}

	select {
	case s.queue <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		// Queue full, try direct insert
		return s.directInsert(ctx, req)
	}
}

// directInsert inserts a notification directly when queue is full
func (s *service) directInsert(ctx context.Context, req notification.CreateNotificationRequest) error {
	n := s.newNotification(req)
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	s.delivered(n)
	return nil
}

// Send implements notification.Service. The recipient must exist inside the
// sender's company.
func (s *service) Send(ctx context.Context, p auth.Principal, req notification.SendRequest) error {
	if !p.Can(user.PermissionNotificationSend) {
		return auth.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return err
	}

	recipient := req.Recipient()
	ok, err := s.resolver.RecipientExists(ctx, p.CompanyID, recipient)
	if err != nil {
		return err
	}
	if !ok {
		return notification.ErrRecipientNotFound
	}

	return s.QueueNotification(ctx, notification.CreateNotificationRequest{
		CompanyID: p.CompanyID,
		Recipient: recipient,
		SenderID:  &p.ID,
		Type:      notification.Type(req.Type),
		Title:     req.Title,
		Message:   req.Message,
		Data:      req.Data,
	})
}

// List returns the caller's own notifications, newest first.
func (s *service) List(ctx context.Context, p auth.Principal, req notification.ListRequest) (pagination.Page[notification.NotificationResponse], error) {
	items, total, err := s.repo.List(ctx, p.CompanyID, notification.RecipientFor(p), req.UnreadOnly, req.Page)
	if err != nil {
		return pagination.Page[notification.NotificationResponse]{}, err
	}
	return pagination.Map(pagination.NewPage(items, total, req.Page), notification.NewNotificationResponse), nil
}

func (s *service) UnreadCount(ctx context.Context, p auth.Principal) (notification.UnreadCountResponse, error) {
	n, err := s.repo.UnreadCount(ctx, p.CompanyID, notification.RecipientFor(p))
	if err != nil {
		return notification.UnreadCountResponse{}, err
	}
	return notification.UnreadCountResponse{UnreadCount: n}, nil
}

func (s *service) MarkRead(ctx context.Context, p auth.Principal, id string) error {
	return s.repo.MarkRead(ctx, p.CompanyID, notification.RecipientFor(p), id, s.now())
}

func (s *service) MarkAllRead(ctx context.Context, p auth.Principal) (notification.MarkAllReadResponse, error) {
	n, err := s.repo.MarkAllRead(ctx, p.CompanyID, notification.RecipientFor(p), s.now())
	if err != nil {
		return notification.MarkAllReadResponse{}, err
	}
	return notification.MarkAllReadResponse{Updated: n}, nil
}

// Subscribe creates an SSE subscription for a recipient key
func (s *service) Subscribe(ctx context.Context, key string) (<-chan notification.NotificationResponse, func()) {
	ch, cleanup := s.hub.Subscribe(key)

	out := make(chan notification.NotificationResponse, 10)

	go func() {
		defer close(out)
		for {
			select {
			case event, ok := <-ch:
				if !ok {
					return
				}
				resp, ok := event.Data.(notification.NotificationResponse)
				if !ok {
					continue
				}
				select {
				case out <- resp:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cleanup
}

// Stop flushes queued notifications and stops the workers.
func (s *service) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		s.wg.Wait()
		slog.Info("Notification service stopped")
	})
}
