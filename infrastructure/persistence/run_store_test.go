package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/sagohq/sago/domain/monitor"
	"github.com/sagohq/sago/domain/research"
	"github.com/sagohq/sago/infrastructure/persistence"
	"github.com/sagohq/sago/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStoreSaveAndGet(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewRunStore(testdb.New(t))

	saved, err := store.Save(ctx, monitor.NewRun(1, 7, time.Now()))
	require.NoError(t, err)
	require.NotZero(t, saved.ID())

	loaded, err := store.Get(ctx, saved.ID())
	require.NoError(t, err)
	assert.Equal(t, int64(1), loaded.CompanyID())
	assert.Equal(t, int64(7), loaded.UserID())
	assert.Equal(t, monitor.StateScheduling, loaded.State())
}

func TestRunStoreRoundTripsStagedData(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewRunStore(testdb.New(t))

	now := time.Now()
	run := monitor.NewRun(1, 7, now).
		Scheduled(42, now).
		Woken(now).
		ResearchStaged(research.FromStrings("f", "s", "c"), now)

	saved, err := store.Save(ctx, run)
	require.NoError(t, err)

	loaded, err := store.Get(ctx, saved.ID())
	require.NoError(t, err)

	roundID, ok := loaded.PendingRoundID()
	require.True(t, ok)
	assert.Equal(t, int64(42), roundID)

	require.True(t, loaded.Findings().Complete())
	assert.Equal(t, "f", *loaded.Findings().FinancialInfo)
	assert.Equal(t, monitor.StateFinalizing, loaded.State())
}

func TestRunStoreFindLiveByCompany(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewRunStore(testdb.New(t))

	_, live, err := store.FindLiveByCompany(ctx, 1)
	require.NoError(t, err)
	assert.False(t, live)

	terminated, err := store.Save(ctx, monitor.NewRun(1, 7, time.Now()).Terminated())
	require.NoError(t, err)

	_, live, err = store.FindLiveByCompany(ctx, 1)
	require.NoError(t, err)
	assert.False(t, live)

	started, err := store.Save(ctx, monitor.NewRun(1, 7, time.Now()))
	require.NoError(t, err)

	run, live, err := store.FindLiveByCompany(ctx, 1)
	require.NoError(t, err)
	require.True(t, live)
	assert.Equal(t, started.ID(), run.ID())
	assert.NotEqual(t, terminated.ID(), run.ID())
}

func TestRunStoreRejectsSecondLiveRunPerCompany(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewRunStore(testdb.New(t))

	first, err := store.Save(ctx, monitor.NewRun(1, 7, time.Now()))
	require.NoError(t, err)

	// The live-run unique index catches a duplicate that raced past the
	// service-level existence check.
	_, err = store.Save(ctx, monitor.NewRun(1, 7, time.Now()))
	require.Error(t, err)

	_, err = store.Save(ctx, first.Terminated())
	require.NoError(t, err)

	// With the first run terminal the company is free to monitor again.
	_, err = store.Save(ctx, monitor.NewRun(1, 7, time.Now()))
	assert.NoError(t, err)
}

func TestRunStoreClaimDue(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewRunStore(testdb.New(t))
	now := time.Now()

	// Not due yet.
	_, err := store.Save(ctx, monitor.NewRun(1, 7, now.Add(time.Hour)))
	require.NoError(t, err)

	_, found, err := store.ClaimDue(ctx, now, time.Minute)
	require.NoError(t, err)
	assert.False(t, found)

	due, err := store.Save(ctx, monitor.NewRun(2, 7, now.Add(-time.Second)))
	require.NoError(t, err)

	claimed, found, err := store.ClaimDue(ctx, now, time.Minute)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, due.ID(), claimed.ID())

	leasedUntil, ok := claimed.LeasedUntil()
	require.True(t, ok)
	assert.True(t, leasedUntil.After(now))

	// The lease blocks a second claim.
	_, found, err = store.ClaimDue(ctx, now, time.Minute)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRunStoreClaimDueSkipsTerminalRuns(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewRunStore(testdb.New(t))
	now := time.Now()

	_, err := store.Save(ctx, monitor.NewRun(1, 7, now.Add(-time.Second)).Terminated())
	require.NoError(t, err)
	_, err = store.Save(ctx, monitor.NewRun(2, 7, now.Add(-time.Second)).Cancelled())
	require.NoError(t, err)

	_, found, err := store.ClaimDue(ctx, now, time.Minute)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRunStoreClaimDueReclaimsExpiredLease(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewRunStore(testdb.New(t))
	now := time.Now()

	saved, err := store.Save(ctx, monitor.NewRun(1, 7, now.Add(-time.Minute)))
	require.NoError(t, err)

	_, found, err := store.ClaimDue(ctx, now, time.Second)
	require.NoError(t, err)
	require.True(t, found)

	// A crashed worker never releases; the next claim past expiry takes over.
	later := now.Add(10 * time.Second)
	reclaimed, found, err := store.ClaimDue(ctx, later, time.Minute)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, saved.ID(), reclaimed.ID())
}

func TestRunStoreClaimDuePicksOldestWake(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewRunStore(testdb.New(t))
	now := time.Now()

	_, err := store.Save(ctx, monitor.NewRun(1, 7, now.Add(-time.Minute)))
	require.NoError(t, err)
	older, err := store.Save(ctx, monitor.NewRun(2, 7, now.Add(-time.Hour)))
	require.NoError(t, err)

	claimed, found, err := store.ClaimDue(ctx, now, time.Minute)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, older.ID(), claimed.ID())
}

func TestRunStoreSaveReleasesLease(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewRunStore(testdb.New(t))
	now := time.Now()

	_, err := store.Save(ctx, monitor.NewRun(1, 7, now.Add(-time.Second)))
	require.NoError(t, err)

	claimed, found, err := store.ClaimDue(ctx, now, time.Minute)
	require.NoError(t, err)
	require.True(t, found)

	_, err = store.Save(ctx, claimed.Scheduled(5, now.Add(-time.Second)).Released())
	require.NoError(t, err)

	// Released and still due, so claimable again.
	_, found, err = store.ClaimDue(ctx, now, time.Minute)
	require.NoError(t, err)
	assert.True(t, found)
}
