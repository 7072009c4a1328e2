package http

import (
	"context"

	"github.com/google/uuid"

	"github.com/mrlokans/bookstore/internal/database/books"
	"github.com/mrlokans/bookstore/internal/database/categories"
	"github.com/mrlokans/bookstore/internal/entities"
)

// This file consolidates the store interfaces used by HTTP controllers.
// Each controller depends only on the interface it needs.

// CategoryStore provides CRUD access to book categories.
type CategoryStore interface {
	Create(ctx context.Context, name string, description *string) (*entities.Category, error)
	List(ctx context.Context) ([]entities.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Category, error)
	Update(ctx context.Context, id uuid.UUID, update categories.Update) (*entities.Category, error)
	Delete(ctx context.Context, id uuid.UUID) (*entities.Category, error)
}

// BookStore provides CRUD access to books.
type BookStore interface {
	Create(ctx context.Context, title, author string, price float64, categoryID uuid.UUID) (*entities.Book, error)
	List(ctx context.Context) ([]entities.Book, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Book, error)
	Update(ctx context.Context, id uuid.UUID, update books.Update) (*entities.Book, error)
	Delete(ctx context.Context, id uuid.UUID) (*entities.Book, error)
	IncrementLikes(ctx context.Context, id uuid.UUID) (*entities.Book, error)
}

// UserLister lists user accounts.
type UserLister interface {
	List(ctx context.Context) ([]entities.User, error)
}

// UserCreator provisions user accounts.
type UserCreator interface {
	CreateUser(ctx context.Context, email, password string, role entities.UserRole) (*entities.User, error)
}

// ChangeAuditor records entity changes made through the API.
type ChangeAuditor interface {
	LogCreate(actor uuid.UUID, entityType string, entityID uuid.UUID, entityName string)
	LogUpdate(actor uuid.UUID, entityType string, entityID uuid.UUID, entityName string)
	LogDelete(actor uuid.UUID, entityType string, entityID uuid.UUID, entityName string)
}

// AuditReader reads recorded audit events.
type AuditReader interface {
	GetEvents(ctx context.Context, eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error)
}

// Pinger checks storage connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// noopAuditor is used when no ChangeAuditor is configured.
type noopAuditor struct{}

func (noopAuditor) LogCreate(uuid.UUID, string, uuid.UUID, string) {}
func (noopAuditor) LogUpdate(uuid.UUID, string, uuid.UUID, string) {}
func (noopAuditor) LogDelete(uuid.UUID, string, uuid.UUID, string) {}

func auditorOrNoop(a ChangeAuditor) ChangeAuditor {
	if a == nil {
		return noopAuditor{}
	}
	return a
}
