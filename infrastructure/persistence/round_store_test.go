package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/sagohq/sago/domain/round"
	"github.com/sagohq/sago/infrastructure/persistence"
	"github.com/sagohq/sago/internal/database"
	"github.com/sagohq/sago/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundStoreSaveAndGet(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewRoundStore(testdb.New(t))

	scheduledFor := time.Now().Add(time.Hour).Truncate(time.Second)
	saved, err := store.Save(ctx, round.New(1, 1, scheduledFor))
	require.NoError(t, err)
	require.NotZero(t, saved.ID())

	loaded, err := store.Get(ctx, saved.ID())
	require.NoError(t, err)
	assert.Equal(t, int64(1), loaded.CompanyID())
	assert.Equal(t, 1, loaded.RoundNumber())
	assert.False(t, loaded.Completed())
}

func TestRoundStoreGetNotFound(t *testing.T) {
	store := persistence.NewRoundStore(testdb.New(t))

	_, err := store.Get(context.Background(), 9999)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRoundStoreSaveUpsertsOnCompanyAndNumber(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewRoundStore(testdb.New(t))

	created, err := store.Save(ctx, round.New(1, 1, time.Now()))
	require.NoError(t, err)

	// Re-saving the same (company, number) finalizes in place rather than
	// inserting a second row.
	financial, sentiment, customer := "f", "s", "c"
	finalized, err := store.Save(ctx, created.Finalized(&financial, &sentiment, &customer))
	require.NoError(t, err)
	assert.Equal(t, created.ID(), finalized.ID())

	all, err := store.Find(ctx, round.WithCompany(1))
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Completed())
	assert.Equal(t, "f", all[0].FinancialInfo())
}

func TestRoundStoreLatest(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewRoundStore(testdb.New(t))

	_, found, err := store.Latest(ctx, 1)
	require.NoError(t, err)
	assert.False(t, found)

	for n := 1; n <= 3; n++ {
		_, err := store.Save(ctx, round.New(1, n, time.Now()))
		require.NoError(t, err)
	}
	_, err = store.Save(ctx, round.New(2, 9, time.Now()))
	require.NoError(t, err)

	latest, found, err := store.Latest(ctx, 1)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 3, latest.RoundNumber())
}

func TestRoundStoreLatestCompletedBefore(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewRoundStore(testdb.New(t))

	complete := func(n int, financial string) {
		t.Helper()
		r, err := store.Save(ctx, round.New(1, n, time.Now()))
		require.NoError(t, err)
		_, err = store.Save(ctx, r.Finalized(&financial, &financial, &financial))
		require.NoError(t, err)
	}

	complete(1, "first")
	complete(2, "second")
	// Round 3 exists but never completed.
	_, err := store.Save(ctx, round.New(1, 3, time.Now()))
	require.NoError(t, err)

	prev, found, err := store.LatestCompletedBefore(ctx, 1, 3)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 2, prev.RoundNumber())
	assert.Equal(t, "second", prev.FinancialInfo())

	prev, found, err = store.LatestCompletedBefore(ctx, 1, 2)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 1, prev.RoundNumber())

	_, found, err = store.LatestCompletedBefore(ctx, 1, 1)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRoundStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewRoundStore(testdb.New(t))

	saved, err := store.Save(ctx, round.New(1, 1, time.Now()))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, saved))

	_, err = store.Get(ctx, saved.ID())
	assert.ErrorIs(t, err, database.ErrNotFound)

	// The number is free for reuse after the delete.
	recreated, err := store.Save(ctx, round.New(1, 1, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, 1, recreated.RoundNumber())
}
