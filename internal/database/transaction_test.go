package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sagohq/sago/internal/database"
	"github.com/sagohq/sago/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func countNotes(t *testing.T, db database.Database) int64 {
	t.Helper()
	var count int64
	result := db.Session(context.Background()).Raw("SELECT COUNT(*) FROM notes").Scan(&count)
	require.NoError(t, result.Error)
	return count
}

func TestWithTransactionCommits(t *testing.T) {
	ctx := context.Background()
	db := testdb.NewPlain(t)
	require.NoError(t, db.Session(ctx).Exec("CREATE TABLE notes (body TEXT)").Error)

	err := database.WithTransaction(ctx, db, func(tx *gorm.DB) error {
		return tx.Exec("INSERT INTO notes (body) VALUES ('kept')").Error
	})
	require.NoError(t, err)

	assert.EqualValues(t, 1, countNotes(t, db))
}

func TestWithTransactionRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db := testdb.NewPlain(t)
	require.NoError(t, db.Session(ctx).Exec("CREATE TABLE notes (body TEXT)").Error)

	boom := errors.New("boom")
	err := database.WithTransaction(ctx, db, func(tx *gorm.DB) error {
		if err := tx.Exec("INSERT INTO notes (body) VALUES ('discarded')").Error; err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	assert.EqualValues(t, 0, countNotes(t, db))
}
