// Package categories provides database operations for book categories.
//
// # Usage
//
//	repo := categories.NewRepository(db)
//	category, err := repo.GetByID(ctx, id)
package categories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrlokans/bookstore/internal/entities"
)

// Update carries a partial category update. Nil fields are left unchanged.
type Update struct {
	Name        *string
	Description *string
}

func (u Update) columns() map[string]any {
	columns := make(map[string]any)
	if u.Name != nil {
		columns["name"] = *u.Name
	}
	if u.Description != nil {
		columns["description"] = *u.Description
	}
	return columns
}

// Repository handles all category database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new categories repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new category.
func (r *Repository) Create(ctx context.Context, name string, description *string) (*entities.Category, error) {
	category := &entities.Category{
		Name:        name,
		Description: description,
	}
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

// List returns every category, oldest first.
func (r *Repository) List(ctx context.Context) ([]entities.Category, error) {
	var categories []entities.Category
	err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&categories).Error
	return categories, err
}

// GetByID retrieves a category or returns a NotFoundError.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Category, error) {
	var category entities.Category
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.NewNotFoundError(entities.EntityCategory, id)
		}
		return nil, err
	}
	return &category, nil
}

// Update applies the supplied fields and returns the refreshed category.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, update Update) (*entities.Category, error) {
	category, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	columns := update.columns()
	if len(columns) == 0 {
		return category, nil
	}

	if err := r.db.WithContext(ctx).Model(category).Updates(columns).Error; err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return r.GetByID(ctx, id)
}

// Delete removes a category that no book references and returns its prior state.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (*entities.Category, error) {
	var deleted *entities.Category

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category entities.Category
		if err := tx.Where("id = ?", id).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return entities.NewNotFoundError(entities.EntityCategory, id)
			}
			return err
		}

		var books int64
		if err := tx.Model(&entities.Book{}).Where("category_id = ?", id).Count(&books).Error; err != nil {
			return fmt.Errorf("failed to count books in category: %w", err)
		}
		if books > 0 {
			return entities.ErrCategoryInUse
		}

		if err := tx.Delete(&entities.Category{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}

		deleted = &category
		return nil
	})
	if err != nil {
		return nil, err
	}

	return deleted, nil
}
