// Package books provides database operations for books and their like counters.
//
// Every read joins the owning category. Writes verify that the referenced
// category exists, so a book never points at a missing category through this
// package.
package books

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrlokans/bookstore/internal/entities"
)

// Update carries a partial book update. Nil fields are left unchanged.
type Update struct {
	Title      *string
	Author     *string
	Price      *float64
	CategoryID *uuid.UUID
}

func (u Update) columns() map[string]any {
	columns := make(map[string]any)
	if u.Title != nil {
		columns["title"] = *u.Title
	}
	if u.Author != nil {
		columns["author"] = *u.Author
	}
	if u.Price != nil {
		columns["price"] = *u.Price
	}
	if u.CategoryID != nil {
		columns["category_id"] = *u.CategoryID
	}
	return columns
}

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a book after checking that its category exists.
func (r *Repository) Create(ctx context.Context, title, author string, price float64, categoryID uuid.UUID) (*entities.Book, error) {
	book := &entities.Book{
		Title:      title,
		Author:     author,
		Price:      price,
		CategoryID: categoryID,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireCategory(tx, categoryID); err != nil {
			return err
		}
		if err := tx.Omit("Category").Create(book).Error; err != nil {
			return fmt.Errorf("failed to create book: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, book.ID)
}

// List returns every book with its category, oldest first.
func (r *Repository) List(ctx context.Context) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.WithContext(ctx).Preload("Category").Order("created_at ASC, id ASC").Find(&books).Error
	return books, err
}

// GetByID retrieves a book with its category or returns a NotFoundError.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Book, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).Preload("Category").Where("id = ?", id).First(&book).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.NewNotFoundError(entities.EntityBook, id)
		}
		return nil, err
	}
	return &book, nil
}

// Update applies the supplied fields and returns the refreshed book.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, update Update) (*entities.Book, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireBook(tx, id); err != nil {
			return err
		}

		columns := update.columns()
		if len(columns) == 0 {
			return nil
		}

		if update.CategoryID != nil {
			if err := requireCategory(tx, *update.CategoryID); err != nil {
				return err
			}
		}

		if err := tx.Model(&entities.Book{}).Where("id = ?", id).Updates(columns).Error; err != nil {
			return fmt.Errorf("failed to update book: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

// Delete removes a book and returns its prior state.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (*entities.Book, error) {
	book, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).Delete(&entities.Book{}, "id = ?", id)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to delete book: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, entities.NewNotFoundError(entities.EntityBook, id)
	}

	return book, nil
}

// IncrementLikes adds one like in a single UPDATE so concurrent calls never
// overwrite each other, then returns the refreshed book.
func (r *Repository) IncrementLikes(ctx context.Context, id uuid.UUID) (*entities.Book, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Book{}).
		Where("id = ?", id).
		Update("like_count", gorm.Expr("like_count + ?", 1))
	if result.Error != nil {
		return nil, fmt.Errorf("failed to increment likes: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, entities.NewNotFoundError(entities.EntityBook, id)
	}

	return r.GetByID(ctx, id)
}

func requireCategory(tx *gorm.DB, id uuid.UUID) error {
	var count int64
	if err := tx.Model(&entities.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check category: %w", err)
	}
	if count == 0 {
		return entities.NewNotFoundError(entities.EntityCategory, id)
	}
	return nil
}

func requireBook(tx *gorm.DB, id uuid.UUID) error {
	var count int64
	if err := tx.Model(&entities.Book{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check book: %w", err)
	}
	if count == 0 {
		return entities.NewNotFoundError(entities.EntityBook, id)
	}
	return nil
}
