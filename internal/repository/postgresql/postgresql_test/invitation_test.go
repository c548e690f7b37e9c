package postgresql_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/invitation"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/database"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/token"
	"github.com/haulpoint/haulpoint-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInvitation(t *testing.T, companyID, email string, expiresAt time.Time) invitation.Invitation {
	t.Helper()
	tok, err := token.Invitation()
	require.NoError(t, err)
	return invitation.Invitation{CompanyID: companyID, Email: email, Token: tok, ExpiresAt: expiresAt}
}

func seedInvitation(t *testing.T, ctx context.Context, db *database.DB, inv invitation.Invitation) invitation.Invitation {
	t.Helper()
	created, err := postgresql.NewInvitationRepository(db).Create(ctx, inv)
	require.NoError(t, err)
	return created
}

func TestInvitationRepository_DuplicateActiveEmail(t *testing.T) {
	db := freshDB(t)
	ctx := context.Background()
	companyID := createTestCompany(t, ctx, db, "acme")
	otherID := createTestCompany(t, ctx, db, "globex")
	repo := postgresql.NewInvitationRepository(db)
	exp := time.Now().Add(7 * 24 * time.Hour)

	first := seedInvitation(t, ctx, db, newInvitation(t, companyID, "a@x.com", exp))
	assert.True(t, first.Active)
	assert.Len(t, first.Token, 64)

	_, err := repo.Create(ctx, newInvitation(t, companyID, "a@x.com", exp))
	assert.ErrorIs(t, err, invitation.ErrInvitationExists)

	// Another tenant may invite the same address.
	_, err = repo.Create(ctx, newInvitation(t, otherID, "a@x.com", exp))
	assert.NoError(t, err)

	// Once deactivated the address is free again.
	_, err = repo.Deactivate(ctx, companyID, first.ID)
	require.NoError(t, err)
	_, err = repo.Create(ctx, newInvitation(t, companyID, "a@x.com", exp))
	assert.NoError(t, err)
}

func TestInvitationRepository_ConcurrentCreateOneWins(t *testing.T) {
	db := freshDB(t)
	ctx := context.Background()
	companyID := createTestCompany(t, ctx, db, "acme")
	repo := postgresql.NewInvitationRepository(db)
	exp := time.Now().Add(time.Hour)

	const workers = 5
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tok, err := token.Invitation()
			if err != nil {
				errs[i] = err
				return
			}
			_, errs[i] = repo.Create(ctx, invitation.Invitation{CompanyID: companyID, Email: "race@x.com", Token: tok, ExpiresAt: exp})
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, invitation.ErrInvitationExists)
		}
	}
	assert.Equal(t, 1, ok)
}

func TestInvitationRepository_MarkAcceptedOnce(t *testing.T) {
	db := freshDB(t)
	ctx := context.Background()
	companyID := createTestCompany(t, ctx, db, "acme")
	repo := postgresql.NewInvitationRepository(db)
	now := time.Now()

	inv := seedInvitation(t, ctx, db, newInvitation(t, companyID, "a@x.com", now.Add(time.Hour)))

	accepted, err := repo.MarkAccepted(ctx, inv.ID, inv.Token, now)
	require.NoError(t, err)
	assert.False(t, accepted.Active)
	require.NotNil(t, accepted.AcceptedAt)

	_, err = repo.MarkAccepted(ctx, inv.ID, inv.Token, now)
	assert.ErrorIs(t, err, invitation.ErrInvitationNotUsable)

	reloaded, err := repo.GetByToken(ctx, inv.Token)
	require.NoError(t, err)
	assert.Equal(t, invitation.StatusAccepted, reloaded.Status(now))
}

func TestInvitationRepository_MarkAcceptedExpiredLeavesRow(t *testing.T) {
	db := freshDB(t)
	ctx := context.Background()
	companyID := createTestCompany(t, ctx, db, "acme")
	repo := postgresql.NewInvitationRepository(db)
	now := time.Now()

	inv := seedInvitation(t, ctx, db, newInvitation(t, companyID, "a@x.com", now.Add(-time.Minute)))

	_, err := repo.MarkAccepted(ctx, inv.ID, inv.Token, now)
	assert.ErrorIs(t, err, invitation.ErrInvitationNotUsable)

	reloaded, err := repo.GetByID(ctx, companyID, inv.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Active)
	assert.Nil(t, reloaded.AcceptedAt)
	assert.WithinDuration(t, inv.UpdatedAt, reloaded.UpdatedAt, time.Millisecond)
}

func TestInvitationRepository_ExtendIsMonotonic(t *testing.T) {
	db := freshDB(t)
	ctx := context.Background()
	companyID := createTestCompany(t, ctx, db, "acme")
	repo := postgresql.NewInvitationRepository(db)
	now := time.Now().UTC().Truncate(time.Microsecond)

	lapsed := seedInvitation(t, ctx, db, newInvitation(t, companyID, "old@x.com", now.Add(-48*time.Hour)))
	live := seedInvitation(t, ctx, db, newInvitation(t, companyID, "new@x.com", now.Add(72*time.Hour)))

	got, err := repo.Extend(ctx, companyID, lapsed.ID, 3, now)
	require.NoError(t, err)
	assert.WithinDuration(t, now.AddDate(0, 0, 3), got.ExpiresAt, time.Second)

	got, err = repo.Extend(ctx, companyID, live.ID, 3, now)
	require.NoError(t, err)
	assert.WithinDuration(t, live.ExpiresAt.AddDate(0, 0, 3), got.ExpiresAt, time.Second)

	_, err = repo.MarkAccepted(ctx, got.ID, got.Token, now)
	require.NoError(t, err)
	_, err = repo.Extend(ctx, companyID, live.ID, 3, now)
	assert.ErrorIs(t, err, invitation.ErrInvitationAlreadyUsed)

	_, err = repo.Extend(ctx, companyID, "0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b", 3, now)
	assert.ErrorIs(t, err, invitation.ErrInvitationNotFound)
}

func TestInvitationRepository_CleanupIsIdempotent(t *testing.T) {
	db := freshDB(t)
	ctx := context.Background()
	companyID := createTestCompany(t, ctx, db, "acme")
	otherID := createTestCompany(t, ctx, db, "globex")
	repo := postgresql.NewInvitationRepository(db)
	now := time.Now()

	seedInvitation(t, ctx, db, newInvitation(t, companyID, "a@x.com", now.Add(-time.Hour)))
	seedInvitation(t, ctx, db, newInvitation(t, companyID, "b@x.com", now.Add(-time.Hour)))
	seedInvitation(t, ctx, db, newInvitation(t, companyID, "c@x.com", now.Add(time.Hour)))
	seedInvitation(t, ctx, db, newInvitation(t, otherID, "a@x.com", now.Add(-time.Hour)))

	n, err := repo.CleanupExpired(ctx, &companyID, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.CleanupExpired(ctx, &companyID, now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	n, err = repo.CleanupExpired(ctx, nil, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestInvitationRepository_StatisticsPartition(t *testing.T) {
	db := freshDB(t)
	ctx := context.Background()
	companyID := createTestCompany(t, ctx, db, "acme")
	repo := postgresql.NewInvitationRepository(db)
	now := time.Now()

	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		inv := seedInvitation(t, ctx, db, newInvitation(t, companyID, email, now.Add(time.Hour)))
		_, err := repo.MarkAccepted(ctx, inv.ID, inv.Token, now)
		require.NoError(t, err)
	}
	seedInvitation(t, ctx, db, newInvitation(t, companyID, "d@x.com", now.Add(-time.Hour)))
	seedInvitation(t, ctx, db, newInvitation(t, companyID, "e@x.com", now.Add(24*time.Hour)))

	stats, err := repo.Statistics(ctx, companyID, nil, invitation.NewStatisticsWindow(now, 3))
	require.NoError(t, err)

	assert.Equal(t, int64(5), stats.Total)
	assert.Equal(t, int64(3), stats.Accepted)
	assert.Equal(t, int64(1), stats.Expired)
	assert.Equal(t, int64(1), stats.Pending)
	assert.Equal(t, int64(0), stats.Inactive)
	assert.Equal(t, stats.Total, stats.Pending+stats.Accepted+stats.Expired+stats.Inactive)
	assert.Equal(t, int64(1), stats.ExpiringSoon)
	assert.Equal(t, int64(5), stats.CreatedToday)
}

func TestInvitationRepository_ListFilters(t *testing.T) {
	db := freshDB(t)
	ctx := context.Background()
	companyID := createTestCompany(t, ctx, db, "acme")
	repo := postgresql.NewInvitationRepository(db)
	now := time.Now()

	seedInvitation(t, ctx, db, newInvitation(t, companyID, "alice@x.com", now.Add(time.Hour)))
	seedInvitation(t, ctx, db, newInvitation(t, companyID, "bob@x.com", now.Add(-time.Hour)))
	seedInvitation(t, ctx, db, newInvitation(t, companyID, "al_ice@y.com", now.Add(time.Hour)))

	pending := invitation.StatusPending
	items, total, err := repo.List(ctx, companyID, invitation.ListFilter{Status: &pending}, invitation.ListSpec.Defaults(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, items, 2)

	email := "al_"
	items, total, err = repo.List(ctx, companyID, invitation.ListFilter{Email: &email}, invitation.ListSpec.Defaults(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "al_ice@y.com", items[0].Email)
}
