package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/notification"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/user"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	mu      sync.Mutex
	rows    []notification.Notification
	batches int
	fail    error
}

func (m *memoryRepo) Create(ctx context.Context, n *notification.Notification) error {
	return m.CreateBatch(ctx, []*notification.Notification{n})
}

func (m *memoryRepo) CreateBatch(_ context.Context, ns []*notification.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.batches++
	for _, n := range ns {
		m.rows = append(m.rows, *n)
	}
	return nil
}

func (m *memoryRepo) mine(companyID string, r notification.Recipient) []int {
	var idx []int
	for i, n := range m.rows {
		if n.CompanyID == companyID && n.Recipient == r {
			idx = append(idx, i)
		}
	}
	return idx
}

func (m *memoryRepo) List(_ context.Context, companyID string, r notification.Recipient, unreadOnly bool, _ pagination.Params) ([]notification.Notification, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []notification.Notification
	for _, i := range m.mine(companyID, r) {
		if unreadOnly && m.rows[i].IsRead() {
			continue
		}
		out = append(out, m.rows[i])
	}
	return out, int64(len(out)), nil
}

func (m *memoryRepo) UnreadCount(_ context.Context, companyID string, r notification.Recipient) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, i := range m.mine(companyID, r) {
		if !m.rows[i].IsRead() {
			n++
		}
	}
	return n, nil
}

func (m *memoryRepo) MarkRead(_ context.Context, companyID string, r notification.Recipient, id string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, i := range m.mine(companyID, r) {
		if m.rows[i].ID == id {
			m.rows[i].ReadAt = &now
			return nil
		}
	}
	return notification.ErrNotificationNotFound
}

func (m *memoryRepo) MarkAllRead(_ context.Context, companyID string, r notification.Recipient, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, i := range m.mine(companyID, r) {
		if !m.rows[i].IsRead() {
			m.rows[i].ReadAt = &now
			n++
		}
	}
	return n, nil
}

func (m *memoryRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

type staticResolver map[notification.Recipient]bool

func (s staticResolver) RecipientExists(_ context.Context, _ string, r notification.Recipient) (bool, error) {
	return s[r], nil
}

var jane = notification.Recipient{Kind: notification.RecipientCustomer, ID: "0190a1b2-0000-7000-8000-000000000001"}

func dispatcher() auth.Principal {
	return auth.Principal{Kind: auth.KindUser, ID: "u-1", CompanyID: "c-1", Role: user.RoleDispatcher}
}

func TestQueueNotification_FlushesOnStop(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewNotificationService(repo, staticResolver{}, sse.NewHub(), Config{BatchSize: 50, FlushInterval: time.Hour, WorkerCount: 1})

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.QueueNotification(context.Background(), notification.CreateNotificationRequest{
			CompanyID: "c-1", Recipient: jane, Title: "Pickup moved", Message: "Your pickup moved to Friday.",
		}))
	}
	svc.Stop()
	svc.Stop()

	require.Equal(t, 3, repo.count())
	assert.Equal(t, 1, repo.batches)
	assert.Equal(t, notification.TypeGeneral, repo.rows[0].Type)
	assert.NotEmpty(t, repo.rows[0].ID)
}

func TestQueueNotification_BatchSizeTriggersFlush(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewNotificationService(repo, staticResolver{}, sse.NewHub(), Config{BatchSize: 2, FlushInterval: time.Hour, WorkerCount: 1})
	defer svc.Stop()

	for i := 0; i < 2; i++ {
		require.NoError(t, svc.QueueNotification(context.Background(), notification.CreateNotificationRequest{CompanyID: "c-1", Recipient: jane, Title: "t", Message: "m"}))
	}
	assert.Eventually(t, func() bool { return repo.count() == 2 }, time.Second, 10*time.Millisecond)
}

func TestQueueNotification_RejectsBadRecipient(t *testing.T) {
	svc := NewNotificationService(&memoryRepo{}, staticResolver{}, sse.NewHub(), Config{WorkerCount: 1})
	defer svc.Stop()

	err := svc.QueueNotification(context.Background(), notification.CreateNotificationRequest{Recipient: notification.Recipient{Kind: "vendor", ID: "x"}})
	assert.ErrorIs(t, err, notification.ErrInvalidRecipient)
}

func TestQueueNotification_PublishesToRecipientStream(t *testing.T) {
	repo := &memoryRepo{}
	hub := sse.NewHub()
	svc := NewNotificationService(repo, staticResolver{}, hub, Config{BatchSize: 1, FlushInterval: time.Hour, WorkerCount: 1})
	defer svc.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stream, cleanup := svc.Subscribe(ctx, jane.Key())
	defer cleanup()
	other, cleanupOther := svc.Subscribe(ctx, "driver:"+jane.ID)
	defer cleanupOther()

	require.NoError(t, svc.QueueNotification(ctx, notification.CreateNotificationRequest{
		CompanyID: "c-1", Recipient: jane, Type: notification.TypeInvoiceIssued, Title: "Invoice INV-1", Message: "A new invoice is ready.",
	}))

	select {
	case got := <-stream:
		assert.Equal(t, "Invoice INV-1", got.Title)
		assert.Equal(t, "Invoice issued", got.TypeLabel)
		assert.False(t, got.IsRead)
	case <-time.After(2 * time.Second):
		t.Fatal("no notification pushed to the customer stream")
	}

	select {
	case <-other:
		t.Fatal("a driver with the same id must not receive customer notifications")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestQueueNotification_FailedBatchIsNotPublished(t *testing.T) {
	repo := &memoryRepo{fail: errors.New("db down")}
	hub := sse.NewHub()
	svc := NewNotificationService(repo, staticResolver{}, hub, Config{BatchSize: 10, FlushInterval: time.Hour, WorkerCount: 1})

	ch, cleanup := hub.Subscribe(jane.Key())
	defer cleanup()

	require.NoError(t, svc.QueueNotification(context.Background(), notification.CreateNotificationRequest{CompanyID: "c-1", Recipient: jane, Title: "t", Message: "m"}))
	svc.Stop()

	assert.Len(t, ch, 0)
}

func TestSend(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewNotificationService(repo, staticResolver{jane: true}, sse.NewHub(), Config{FlushInterval: time.Hour, WorkerCount: 1})
	ctx := context.Background()

	req := notification.SendRequest{RecipientKind: "customer", RecipientID: jane.ID, Title: "Route change", Message: "Thursday pickups move to Friday."}
	require.NoError(t, svc.Send(ctx, dispatcher(), req))

	stranger := req
	stranger.RecipientID = "0190a1b2-0000-7000-8000-000000000099"
	assert.ErrorIs(t, svc.Send(ctx, dispatcher(), stranger), notification.ErrRecipientNotFound)

	viewer := dispatcher()
	viewer.Role = user.RoleViewer
	assert.ErrorIs(t, svc.Send(ctx, viewer, req), auth.ErrForbidden)

	svc.Stop()
	require.Equal(t, 1, repo.count())
	assert.Equal(t, "u-1", *repo.rows[0].SenderID)
}

func TestReadState(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewNotificationService(repo, staticResolver{}, sse.NewHub(), Config{FlushInterval: time.Hour, WorkerCount: 1})
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, svc.QueueNotification(ctx, notification.CreateNotificationRequest{CompanyID: "c-1", Recipient: jane, Title: "t", Message: "m"}))
	}
	svc.Stop()

	me := auth.Principal{Kind: auth.KindCustomer, ID: jane.ID, CompanyID: "c-1"}
	count, err := svc.UnreadCount(ctx, me)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count.UnreadCount)

	require.NoError(t, svc.MarkRead(ctx, me, repo.rows[0].ID))
	unread, err := svc.List(ctx, me, notification.ListRequest{UnreadOnly: true, Page: notification.ListSpec.Defaults()})
	require.NoError(t, err)
	assert.Len(t, unread.Items, 2)

	all, err := svc.MarkAllRead(ctx, me)
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Updated)

	// another tenant sees nothing
	outsider := me
	outsider.CompanyID = "c-2"
	assert.ErrorIs(t, svc.MarkRead(ctx, outsider, repo.rows[1].ID), notification.ErrNotificationNotFound)
}
