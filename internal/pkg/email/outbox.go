package email

import (
	"errors"
	"log/slog"
	"sync"
)

var (
	ErrOutboxFull    = errors.New("email outbox is full")
	ErrOutboxStopped = errors.New("email outbox is stopped")
)

type outboxJob struct {
	to   string
	data CustomerInvitationData
}

// Outbox hands mail to a fixed pool of workers so callers never wait on SMTP.
// It satisfies EmailService; a nil error means the mail was queued.
type Outbox struct {
	next EmailService
	jobs chan outboxJob
	wg   sync.WaitGroup

	mu      sync.RWMutex
	stopped bool
}

var _ EmailService = (*Outbox)(nil)

// NewOutbox starts workers goroutines that deliver through next.
func NewOutbox(next EmailService, workers, queueSize int) *Outbox {
	if workers <= 0 {
		workers = 2
	}
	if queueSize <= 0 {
		queueSize = 200
	}

	o := &Outbox{
		next: next,
		jobs: make(chan outboxJob, queueSize),
	}
	for i := 0; i < workers; i++ {
		o.wg.Add(1)
		go o.worker()
	}
	return o
}

func (o *Outbox) worker() {
	defer o.wg.Done()
	for job := range o.jobs {
		if err := o.next.SendCustomerInvitation(job.to, job.data); err != nil {
			slog.Error("Failed to deliver queued email", "to", job.to, "error", err)
		}
	}
}

// SendCustomerInvitation queues the mail. It never blocks.
func (o *Outbox) SendCustomerInvitation(to string, data CustomerInvitationData) error {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.stopped {
		return ErrOutboxStopped
	}

	select {
	case o.jobs <- outboxJob{to: to, data: data}:
		return nil
	default:
		return ErrOutboxFull
	}
}

// Stop refuses new mail and waits until everything already queued is delivered.
func (o *Outbox) Stop() {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return
	}
	o.stopped = true
	close(o.jobs)
	o.mu.Unlock()

	o.wg.Wait()
	slog.Info("Email outbox drained")
}
