package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Ananth-NQI/medeasy-backend/internal/models"
)

func newSQLiteStore(t *testing.T) *DatabaseStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return NewDatabaseStore(db)
}

func strPtr(s string) *string { return &s }

// runStoreSuite checks behaviour every Store must share
func runStoreSuite(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("profile upsert is keyed by phone", func(t *testing.T) {
		store := newStore(t)

		first := models.NewProfile(models.CollectedData{
			Phone: "03001234567", FullName: "Ali", Email: strPtr("ali@example.com"),
		}, time.Now())
		require.NoError(t, store.UpsertProfile(ctx, first))

		second := models.NewProfile(models.CollectedData{
			Phone: "03001234567", FullName: "Ali Khan", Address: strPtr("Clifton"),
		}, time.Now())
		require.NoError(t, store.UpsertProfile(ctx, second))

		got, err := store.GetProfileByPhone(ctx, "03001234567")
		require.NoError(t, err)
		assert.Equal(t, "Ali Khan", got.FullName)
		assert.Nil(t, got.Email)
		require.NotNil(t, got.Address)
		assert.Equal(t, "Clifton", *got.Address)
		assert.Equal(t, models.DefaultCity, got.City)

		_, err = store.GetProfileByPhone(ctx, "03110000000")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("messages are appended per session", func(t *testing.T) {
		store := newStore(t)

		base := time.Now()
		for i, text := range []string{"hi", "hello bhai", "bye"} {
			sender := models.SenderUser
			if i%2 == 1 {
				sender = models.SenderBot
			}
			require.NoError(t, store.InsertMessage(ctx, &models.Message{
				SessionKey: "s1", Sender: sender, Text: text, CreatedAt: base.Add(time.Duration(i) * time.Second),
			}))
		}
		require.NoError(t, store.InsertMessage(ctx, &models.Message{SessionKey: "s2", Sender: models.SenderUser, Text: "other"}))

		msgs, err := store.GetMessagesBySession(ctx, "s1")
		require.NoError(t, err)
		require.Len(t, msgs, 3)
		assert.Equal(t, "hi", msgs[0].Text)
		assert.Equal(t, models.SenderBot, msgs[1].Sender)
		assert.Equal(t, "bye", msgs[2].Text)

		none, err := store.GetMessagesBySession(ctx, "missing")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("handover flag overwrites and keeps a known phone", func(t *testing.T) {
		store := newStore(t)

		require.NoError(t, store.UpsertHandoverFlag(ctx, &models.HandoverFlag{
			SessionKey: "s1", NeedsHuman: true, Phone: strPtr("03001234567"),
		}))
		require.NoError(t, store.UpsertHandoverFlag(ctx, &models.HandoverFlag{
			SessionKey: "s1", NeedsHuman: true,
		}))
		require.NoError(t, store.UpsertHandoverFlag(ctx, &models.HandoverFlag{
			SessionKey: "s2", NeedsHuman: true,
		}))

		flag, err := store.GetHandoverFlag(ctx, "s1")
		require.NoError(t, err)
		assert.True(t, flag.NeedsHuman)
		require.NotNil(t, flag.Phone)
		assert.Equal(t, "03001234567", *flag.Phone)

		pending, err := store.GetPendingHandovers(ctx)
		require.NoError(t, err)
		keys := make([]string, 0, len(pending))
		for _, p := range pending {
			keys = append(keys, p.SessionKey)
		}
		assert.ElementsMatch(t, []string{"s1", "s2"}, keys)

		_, err = store.GetHandoverFlag(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store { return NewMemoryStore() })
}

func TestDatabaseStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store { return newSQLiteStore(t) })
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.UpsertProfile(ctx, &models.Profile{Phone: "03001234567", FullName: "Ali"}))
	got, err := store.GetProfileByPhone(ctx, "03001234567")
	require.NoError(t, err)
	got.FullName = "changed"

	again, err := store.GetProfileByPhone(ctx, "03001234567")
	require.NoError(t, err)
	assert.Equal(t, "Ali", again.FullName)
}
