package persistence_test

import (
	"context"
	"testing"

	"github.com/sagohq/sago/domain/user"
	"github.com/sagohq/sago/infrastructure/persistence"
	"github.com/sagohq/sago/internal/database"
	"github.com/sagohq/sago/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserStoreSaveAndGet(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewUserStore(testdb.New(t))

	saved, err := store.Save(ctx, user.New("Pat Partner", "pat@firm.example.com"))
	require.NoError(t, err)
	require.NotZero(t, saved.ID())

	loaded, err := store.Get(ctx, saved.ID())
	require.NoError(t, err)
	assert.Equal(t, "Pat Partner", loaded.Name())
	assert.Equal(t, "pat@firm.example.com", loaded.Email())
	assert.Equal(t, "Pat", loaded.FirstName())
}

func TestUserStoreGetNotFound(t *testing.T) {
	store := persistence.NewUserStore(testdb.New(t))

	_, err := store.Get(context.Background(), 9999)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestUserStoreSaveUpdates(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewUserStore(testdb.New(t))

	saved, err := store.Save(ctx, user.New("Pat Partner", "pat@firm.example.com"))
	require.NoError(t, err)

	updated, err := store.Save(ctx, user.Reconstruct(saved.ID(), "Pat Partner", "pat@newfirm.example.com"))
	require.NoError(t, err)
	assert.Equal(t, saved.ID(), updated.ID())

	loaded, err := store.Get(ctx, saved.ID())
	require.NoError(t, err)
	assert.Equal(t, "pat@newfirm.example.com", loaded.Email())
}
