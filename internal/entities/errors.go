package entities

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is matched by every NotFoundError via errors.Is.
	ErrNotFound      = errors.New("not found")
	ErrCategoryInUse = errors.New("category is referenced by existing books")
	ErrUserExists    = errors.New("user already exists")
)

// Entity names used in not-found messages.
const (
	EntityCategory = "Book Category"
	EntityBook     = "Book"
	EntityUser     = "User"
)

// NotFoundError reports a missing entity by name and id.
type NotFoundError struct {
	Entity string
	ID     uuid.UUID
}

func NewNotFoundError(entity string, id uuid.UUID) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
