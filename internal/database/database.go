package database

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mrlokans/bookstore/internal/config"
	"github.com/mrlokans/bookstore/internal/entities"
	"github.com/mrlokans/bookstore/internal/logging"
)

// Models lists every entity managed by AutoMigrate, parents before children.
var Models = []any{
	&entities.Category{},
	&entities.Book{},
	&entities.User{},
	&entities.AuditEvent{},
}

type Database struct {
	DB *gorm.DB
}

func NewDatabase(cfg config.Database, log *logrus.Logger) (*Database, error) {
	dialector, err := openDialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logging.GormLogger(log),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Driver == config.DatabaseDriverSQLite {
		// SQLite allows a single writer; serialize access instead of failing with SQLITE_BUSY.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	database := &Database{DB: db}

	if cfg.AutoMigrate {
		if err := database.Migrate(); err != nil {
			return nil, err
		}
		log.Info("Database schema migrated")
	}

	log.WithField("driver", cfg.Driver).Info("Database initialized successfully")

	return database, nil
}

func openDialector(cfg config.Database) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DatabaseDriverPostgres:
		return postgres.Open(cfg.DSN()), nil
	case config.DatabaseDriverSQLite:
		return sqlite.Open(cfg.Path), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownDatabaseDriver, cfg.Driver)
	}
}

// Migrate creates or updates the schema for all models.
func (d *Database) Migrate() error {
	if err := d.DB.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Ping checks connectivity of the underlying connection pool.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
