package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunOnceJoinsErrors(t *testing.T) {
	s := NewScheduler()
	var ran atomic.Int32

	s.AddJob("ok", time.Minute, func(ctx context.Context) error {
		ran.Add(1)
		return nil
	})
	s.AddJob("broken", time.Minute, func(ctx context.Context) error {
		ran.Add(1)
		return errors.New("boom")
	})

	err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "broken: boom")
	assert.Equal(t, int32(2), ran.Load())
}

func TestScheduler_StartRunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler()
	done := make(chan struct{}, 1)

	s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		select {
		case done <- struct{}{}:
		default:
		}
		return nil
	})
	s.Start()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
}

type fakeCleaner struct {
	count int64
	calls int
}

func (f *fakeCleaner) CleanupAll(ctx context.Context) (int64, error) {
	f.calls++
	c := f.count
	f.count = 0
	return c, nil
}

type fakeLimiter struct{ removed int }

func (f *fakeLimiter) Cleanup() int { return f.removed }

func TestHousekeepingJobs_Register(t *testing.T) {
	cleaner := &fakeCleaner{count: 3}
	jobs := NewHousekeepingJobs(cleaner, nil, []LimiterCleaner{&fakeLimiter{removed: 2}})

	s := NewScheduler()
	jobs.RegisterJobs(s, true, time.Hour)
	assert.Equal(t, []string{"cleanup_expired_invitations", "cleanup_rate_limiters"}, s.Jobs())

	require.NoError(t, s.RunOnce(context.Background()))
	require.NoError(t, s.RunOnce(context.Background()))
	assert.Equal(t, 2, cleaner.calls)
	assert.Equal(t, int64(0), cleaner.count)
}

func TestHousekeepingJobs_CleanupDisabled(t *testing.T) {
	jobs := NewHousekeepingJobs(&fakeCleaner{}, nil, nil)

	s := NewScheduler()
	jobs.RegisterJobs(s, false, time.Hour)
	assert.Empty(t, s.Jobs())
}
