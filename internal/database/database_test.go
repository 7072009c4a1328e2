package database

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookstore/internal/config"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.Out = io.Discard
	return log
}

func TestNewDatabase_SQLite(t *testing.T) {
	cfg := config.Database{
		Driver:      config.DatabaseDriverSQLite,
		Path:        filepath.Join(t.TempDir(), "bookstore.db"),
		AutoMigrate: true,
	}

	db, err := NewDatabase(cfg, quietLogger())
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Ping(context.Background()))

	for _, table := range []string{"categories", "books", "users", "audit_events"} {
		assert.True(t, db.DB.Migrator().HasTable(table), "table %s should exist", table)
	}
}

func TestNewDatabase_WithoutAutoMigrate(t *testing.T) {
	cfg := config.Database{
		Driver: config.DatabaseDriverSQLite,
		Path:   filepath.Join(t.TempDir(), "bookstore.db"),
	}

	db, err := NewDatabase(cfg, quietLogger())
	require.NoError(t, err)
	defer db.Close()

	assert.False(t, db.DB.Migrator().HasTable("categories"))

	require.NoError(t, db.Migrate())
	assert.True(t, db.DB.Migrator().HasTable("categories"))
}

func TestNewDatabase_UnknownDriver(t *testing.T) {
	_, err := NewDatabase(config.Database{Driver: "oracle"}, quietLogger())
	assert.ErrorIs(t, err, config.ErrUnknownDatabaseDriver)
}
