package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookstore/internal/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "audit.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.AuditEvent{})
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return db
}

func TestRepository_LogEvent(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	userID := uuid.New()
	bookID := uuid.New()

	event := &entities.AuditEvent{
		UserID:      &userID,
		EventType:   entities.AuditEventDelete,
		Action:      "book_delete",
		Description: "Deleted Book: Dune",
		EntityType:  "book",
		EntityID:    &bookID,
		Status:      entities.AuditStatusSuccess,
	}

	err := repo.LogEvent(context.Background(), event)
	require.NoError(t, err)
	assert.NotZero(t, event.ID)
	assert.False(t, event.CreatedAt.IsZero())

	events, _, err := repo.GetEvents(context.Background(), nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.NotNil(t, events[0].EntityID)
	assert.Equal(t, bookID, *events[0].EntityID)
}

func TestRepository_GetEvents(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	admin := uuid.New()
	other := uuid.New()

	for i := 0; i < 15; i++ {
		require.NoError(t, repo.LogEvent(ctx, &entities.AuditEvent{
			UserID:    &admin,
			EventType: entities.AuditEventCreate,
			Action:    "book_create",
			Status:    entities.AuditStatusSuccess,
			CreatedAt: time.Now().Add(time.Duration(-i) * time.Hour),
		}))
	}
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.LogEvent(ctx, &entities.AuditEvent{
			UserID:    &other,
			EventType: entities.AuditEventDelete,
			Action:    "book_delete",
			Status:    entities.AuditStatusSuccess,
		}))
	}

	t.Run("all events", func(t *testing.T) {
		events, total, err := repo.GetEvents(ctx, nil, 50, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(20), total)
		assert.Len(t, events, 20)
	})

	t.Run("events for one user", func(t *testing.T) {
		events, total, err := repo.GetEvents(ctx, &admin, 50, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(15), total)
		assert.Len(t, events, 15)
	})

	t.Run("pagination", func(t *testing.T) {
		first, total, err := repo.GetEvents(ctx, &admin, 5, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(15), total)
		assert.Len(t, first, 5)

		second, _, err := repo.GetEvents(ctx, &admin, 5, 5)
		require.NoError(t, err)
		assert.Len(t, second, 5)
		assert.NotEqual(t, first[0].ID, second[0].ID)
	})

	t.Run("most recent first", func(t *testing.T) {
		events, _, err := repo.GetEvents(ctx, &admin, 15, 0)
		require.NoError(t, err)
		for i := 1; i < len(events); i++ {
			assert.False(t, events[i].CreatedAt.After(events[i-1].CreatedAt))
		}
	})

	t.Run("default limit", func(t *testing.T) {
		events, _, err := repo.GetEvents(ctx, nil, 0, -1)
		require.NoError(t, err)
		assert.Len(t, events, 20)
	})

	t.Run("by type", func(t *testing.T) {
		events, total, err := repo.GetEventsByType(ctx, entities.AuditEventDelete, nil, 50, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		for _, e := range events {
			assert.Equal(t, entities.AuditEventDelete, e.EventType)
		}
	})
}

func TestRepository_DeleteOldEvents(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.LogEvent(ctx, &entities.AuditEvent{
		EventType: entities.AuditEventAuth,
		Action:    "login",
		Status:    entities.AuditStatusSuccess,
		CreatedAt: now.Add(-48 * time.Hour),
	}))
	require.NoError(t, repo.LogEvent(ctx, &entities.AuditEvent{
		EventType: entities.AuditEventDelete,
		Action:    "category_delete",
		Status:    entities.AuditStatusSuccess,
		CreatedAt: now,
	}))

	deleted, err := repo.DeleteOldEvents(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	events, total, err := repo.GetEvents(ctx, nil, 50, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "category_delete", events[0].Action)
}
