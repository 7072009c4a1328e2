package categories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/bookstore/internal/entities"
)

// DefaultCategories are inserted by SeedDefaults into an empty store.
func DefaultCategories() []entities.Category {
	return []entities.Category{
		{Name: "Fiction", Description: strPtr("Stories and novels")},
		{Name: "Technology", Description: strPtr("Computers and engineering")},
		{Name: "History", Description: strPtr("Past events")},
	}
}

// SeedDefaults inserts the default categories when no category exists yet.
// It returns the number of inserted rows; running it again is a no-op.
func (r *Repository) SeedDefaults(ctx context.Context) (int, error) {
	inserted := 0

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entities.Category{}).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count categories: %w", err)
		}
		if count > 0 {
			return nil
		}

		defaults := DefaultCategories()
		if err := tx.Create(&defaults).Error; err != nil {
			return fmt.Errorf("failed to seed categories: %w", err)
		}
		inserted = len(defaults)
		return nil
	})

	return inserted, err
}

func strPtr(s string) *string {
	return &s
}
