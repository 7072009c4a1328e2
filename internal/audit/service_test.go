package audit

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	auditRepo "github.com/mrlokans/bookstore/internal/database/audit"
	"github.com/mrlokans/bookstore/internal/entities"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "audit.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.AuditEvent{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	return NewService(auditRepo.NewRepository(db), log), db
}

func TestService_Log(t *testing.T) {
	svc, db := setupTestService(t)

	event := &entities.AuditEvent{
		EventType:   entities.AuditEventCreate,
		Action:      "category_create",
		Description: "Created category: Poetry",
		Status:      entities.AuditStatusSuccess,
	}

	require.NoError(t, svc.Log(context.Background(), event))

	var saved entities.AuditEvent
	require.NoError(t, db.First(&saved, event.ID).Error)
	assert.Equal(t, "category_create", saved.Action)
}

func TestService_LogChanges(t *testing.T) {
	svc, db := setupTestService(t)
	actor := uuid.New()
	bookID := uuid.New()

	svc.LogCreate(actor, "book", bookID, "Dune")
	svc.LogUpdate(actor, "book", bookID, "Dune Messiah")
	svc.LogDelete(actor, "book", bookID, "Dune Messiah")
	svc.Wait()

	tests := []struct {
		action    string
		eventType entities.AuditEventType
		desc      string
	}{
		{"book_create", entities.AuditEventCreate, "Created book: Dune"},
		{"book_update", entities.AuditEventUpdate, "Updated book: Dune Messiah"},
		{"book_delete", entities.AuditEventDelete, "Deleted book: Dune Messiah"},
	}

	for _, tc := range tests {
		t.Run(tc.action, func(t *testing.T) {
			var event entities.AuditEvent
			require.NoError(t, db.Where("action = ?", tc.action).First(&event).Error)
			assert.Equal(t, tc.eventType, event.EventType)
			assert.Equal(t, tc.desc, event.Description)
			require.NotNil(t, event.UserID)
			assert.Equal(t, actor, *event.UserID)
			require.NotNil(t, event.EntityID)
			assert.Equal(t, bookID, *event.EntityID)
		})
	}
}

func TestService_LogAuth(t *testing.T) {
	svc, db := setupTestService(t)
	userID := uuid.New()

	t.Run("successful login", func(t *testing.T) {
		svc.LogAuth(userID, "login", "192.168.1.1", "Mozilla/5.0", true)
		svc.Wait()

		var event entities.AuditEvent
		require.NoError(t, db.Where("action = ?", "login").First(&event).Error)
		assert.Equal(t, entities.AuditStatusSuccess, event.Status)
		assert.Equal(t, "192.168.1.1", event.IPAddress)
		require.NotNil(t, event.UserID)
		assert.Equal(t, userID, *event.UserID)
	})

	t.Run("failed login for unknown user", func(t *testing.T) {
		svc.LogAuth(uuid.Nil, "login_failed", "10.0.0.1", "curl/8.5.0", false)
		svc.Wait()

		var event entities.AuditEvent
		require.NoError(t, db.Where("action = ?", "login_failed").First(&event).Error)
		assert.Equal(t, entities.AuditStatusFailed, event.Status)
		assert.Nil(t, event.UserID)
	})
}

func TestService_GetEvents(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Log(ctx, &entities.AuditEvent{
			EventType: entities.AuditEventCreate,
			Action:    "book_create",
			Status:    entities.AuditStatusSuccess,
		}))
	}
	require.NoError(t, svc.Log(ctx, &entities.AuditEvent{
		EventType: entities.AuditEventAuth,
		Action:    "login",
		Status:    entities.AuditStatusSuccess,
	}))

	events, total, err := svc.GetEvents(ctx, "", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, events, 4)

	events, total, err = svc.GetEvents(ctx, entities.AuditEventAuth, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "login", events[0].Action)
}

func TestService_DeleteOldEvents(t *testing.T) {
	svc, db := setupTestService(t)

	require.NoError(t, db.Create(&entities.AuditEvent{
		EventType: entities.AuditEventAuth,
		Action:    "old",
		Status:    entities.AuditStatusSuccess,
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}).Error)
	require.NoError(t, db.Create(&entities.AuditEvent{
		EventType: entities.AuditEventDelete,
		Action:    "new",
		Status:    entities.AuditStatusSuccess,
		CreatedAt: time.Now(),
	}).Error)

	deleted, err := svc.DeleteOldEvents(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var remaining []entities.AuditEvent
	db.Find(&remaining)
	require.Len(t, remaining, 1)
	assert.Equal(t, "new", remaining[0].Action)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10c", 10, "exactly10c"},
		{"this is a very long string", 10, "this is..."},
		{"", 5, ""},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, truncate(tc.input, tc.maxLen))
	}

	t.Run("keeps multi-byte characters whole", func(t *testing.T) {
		description := "Created category: " + strings.Repeat("я", 255)

		got := truncate(description, 500)

		assert.True(t, utf8.ValidString(got))
		assert.LessOrEqual(t, len(got), 500)
		assert.True(t, strings.HasSuffix(got, "..."))
		assert.Equal(t, "Ж...", truncate("ЖЖЖЖ", 6))
	})
}
