// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, dialect selection, migrations
//	├── categories/      # Book category CRUD and default seeding
//	├── books/           # Book CRUD and like counter
//	├── users/           # User accounts
//	└── audit/           # Audit event persistence
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	db, err := database.NewDatabase(cfg.Database, log)
//
//	categoryRepo := categories.NewRepository(db.DB)
//	bookRepo := books.NewRepository(db.DB)
//
//	category, err := categoryRepo.GetByID(ctx, id)
//
// Repositories return *entities.NotFoundError for missing rows so callers can
// match errors.Is(err, entities.ErrNotFound) without importing gorm.
//
// # Seeding
//
// Default categories are never inserted implicitly. Call
// categories.Repository.SeedDefaults during startup (SEED_ON_START) or run the
// "seed" command.
package database
