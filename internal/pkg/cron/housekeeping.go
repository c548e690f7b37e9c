package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/metrics"
)

// InvitationCleaner deactivates expired, unaccepted invitations across all tenants.
type InvitationCleaner interface {
	CleanupAll(ctx context.Context) (int64, error)
}

// TokenPruner deletes credentials that can no longer be used.
type TokenPruner interface {
	PruneExpired(ctx context.Context, now time.Time) (int64, error)
}

// LimiterCleaner drops idle rate limiter buckets.
type LimiterCleaner interface {
	Cleanup() int
}

type HousekeepingJobs struct {
	invitations InvitationCleaner
	tokens      []TokenPruner
	limiters    []LimiterCleaner
	now         func() time.Time
}

func NewHousekeepingJobs(invitations InvitationCleaner, tokens []TokenPruner, limiters []LimiterCleaner) *HousekeepingJobs {
	return &HousekeepingJobs{
		invitations: invitations,
		tokens:      tokens,
		limiters:    limiters,
		now:         time.Now,
	}
}

// RegisterJobs adds the housekeeping jobs. The invitation sweep is only added when enabled.
func (j *HousekeepingJobs) RegisterJobs(scheduler *Scheduler, cleanupEnabled bool, cleanupInterval time.Duration) {
	if cleanupEnabled && j.invitations != nil {
		scheduler.AddJob("cleanup_expired_invitations", cleanupInterval, j.CleanupExpiredInvitations)
	}
	if len(j.tokens) > 0 {
		scheduler.AddJob("prune_expired_tokens", 6*time.Hour, j.PruneExpiredTokens)
	}
	if len(j.limiters) > 0 {
		scheduler.AddJob("cleanup_rate_limiters", 10*time.Minute, j.CleanupRateLimiters)
	}
}

func (j *HousekeepingJobs) CleanupExpiredInvitations(ctx context.Context) error {
	count, err := j.invitations.CleanupAll(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		metrics.InvitationsCleanedUp.Add(float64(count))
		slog.Info("Cron: deactivated expired invitations", "count", count)
	}
	return nil
}

func (j *HousekeepingJobs) PruneExpiredTokens(ctx context.Context) error {
	now := j.now()
	for _, p := range j.tokens {
		count, err := p.PruneExpired(ctx, now)
		if err != nil {
			return err
		}
		if count > 0 {
			slog.Info("Cron: pruned expired tokens", "count", count)
		}
	}
	return nil
}

func (j *HousekeepingJobs) CleanupRateLimiters(ctx context.Context) error {
	removed := 0
	for _, l := range j.limiters {
		removed += l.Cleanup()
	}
	if removed > 0 {
		slog.Debug("Cron: removed idle rate limiter buckets", "count", removed)
	}
	return nil
}
