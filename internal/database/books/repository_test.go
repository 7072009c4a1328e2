package books

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookstore/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "books.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// SQLite allows a single writer; serialize access for the concurrency test.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&entities.Category{}, &entities.Book{}))

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return NewRepository(db), db
}

func createCategory(t *testing.T, db *gorm.DB, name string) *entities.Category {
	t.Helper()
	category := &entities.Category{Name: name}
	require.NoError(t, db.Create(category).Error)
	return category
}

func TestRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates book joined with category", func(t *testing.T) {
		repo, db := setupTestDB(t)
		category := createCategory(t, db, "Technology")

		book, err := repo.Create(ctx, "The Go Programming Language", "Donovan", 39.99, category.ID)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, book.ID)
		assert.Equal(t, 0, book.LikeCount)
		assert.Equal(t, category.ID, book.CategoryID)
		require.NotNil(t, book.Category)
		assert.Equal(t, "Technology", book.Category.Name)
		assert.InDelta(t, 39.99, book.Price, 0.001)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		repo, _ := setupTestDB(t)
		missing := uuid.New()

		_, err := repo.Create(ctx, "Orphan", "Nobody", 1, missing)

		var nf *entities.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, entities.EntityCategory, nf.Entity)
		assert.Equal(t, missing, nf.ID)

		list, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestRepository_ListAndGet(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()
	category := createCategory(t, db, "History")

	first, err := repo.Create(ctx, "SPQR", "Mary Beard", 20, category.ID)
	require.NoError(t, err)
	_, err = repo.Create(ctx, "The Guns of August", "Barbara Tuchman", 18, category.ID)
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, b := range list {
		require.NotNil(t, b.Category)
		assert.Equal(t, "History", b.Category.Name)
	}

	fetched, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "SPQR", fetched.Title)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("changes only supplied fields", func(t *testing.T) {
		repo, db := setupTestDB(t)
		category := createCategory(t, db, "Fiction")
		book, err := repo.Create(ctx, "Dune", "Frank Herbert", 9.99, category.ID)
		require.NoError(t, err)

		price := 11.5
		updated, err := repo.Update(ctx, book.ID, Update{Price: &price})
		require.NoError(t, err)

		assert.InDelta(t, 11.5, updated.Price, 0.001)
		assert.Equal(t, "Dune", updated.Title)
		assert.Equal(t, "Frank Herbert", updated.Author)
		assert.Equal(t, category.ID, updated.CategoryID)
	})

	t.Run("moves book to another category", func(t *testing.T) {
		repo, db := setupTestDB(t)
		fiction := createCategory(t, db, "Fiction")
		classics := createCategory(t, db, "Classics")
		book, err := repo.Create(ctx, "Emma", "Jane Austen", 5, fiction.ID)
		require.NoError(t, err)

		updated, err := repo.Update(ctx, book.ID, Update{CategoryID: &classics.ID})
		require.NoError(t, err)

		assert.Equal(t, classics.ID, updated.CategoryID)
		require.NotNil(t, updated.Category)
		assert.Equal(t, "Classics", updated.Category.Name)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		repo, db := setupTestDB(t)
		category := createCategory(t, db, "Fiction")
		book, err := repo.Create(ctx, "Emma", "Jane Austen", 5, category.ID)
		require.NoError(t, err)

		missing := uuid.New()
		_, err = repo.Update(ctx, book.ID, Update{CategoryID: &missing})
		assert.ErrorIs(t, err, entities.ErrNotFound)

		fetched, err := repo.GetByID(ctx, book.ID)
		require.NoError(t, err)
		assert.Equal(t, category.ID, fetched.CategoryID)
	})

	t.Run("missing book", func(t *testing.T) {
		repo, _ := setupTestDB(t)
		title := "x"
		_, err := repo.Update(ctx, uuid.New(), Update{Title: &title})

		var nf *entities.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, entities.EntityBook, nf.Entity)
	})
}

func TestRepository_Delete(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()
	category := createCategory(t, db, "Fiction")
	book, err := repo.Create(ctx, "Beloved", "Toni Morrison", 14, category.ID)
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Beloved", deleted.Title)

	_, err = repo.GetByID(ctx, book.ID)
	assert.ErrorIs(t, err, entities.ErrNotFound)

	_, err = repo.Delete(ctx, book.ID)
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestRepository_IncrementLikes(t *testing.T) {
	ctx := context.Background()

	t.Run("single increment", func(t *testing.T) {
		repo, db := setupTestDB(t)
		category := createCategory(t, db, "Fiction")
		book, err := repo.Create(ctx, "Ulysses", "James Joyce", 15, category.ID)
		require.NoError(t, err)

		liked, err := repo.IncrementLikes(ctx, book.ID)
		require.NoError(t, err)
		assert.Equal(t, book.LikeCount+1, liked.LikeCount)
	})

	t.Run("sequential increments", func(t *testing.T) {
		repo, db := setupTestDB(t)
		category := createCategory(t, db, "Fiction")
		book, err := repo.Create(ctx, "Ulysses", "James Joyce", 15, category.ID)
		require.NoError(t, err)

		const n = 7
		for i := 0; i < n; i++ {
			_, err := repo.IncrementLikes(ctx, book.ID)
			require.NoError(t, err)
		}

		fetched, err := repo.GetByID(ctx, book.ID)
		require.NoError(t, err)
		assert.Equal(t, n, fetched.LikeCount)
	})

	t.Run("concurrent increments are not lost", func(t *testing.T) {
		repo, db := setupTestDB(t)
		category := createCategory(t, db, "Fiction")
		book, err := repo.Create(ctx, "Ulysses", "James Joyce", 15, category.ID)
		require.NoError(t, err)

		const n = 25
		var wg sync.WaitGroup
		errs := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := repo.IncrementLikes(ctx, book.ID); err != nil {
					errs <- err
				}
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		fetched, err := repo.GetByID(ctx, book.ID)
		require.NoError(t, err)
		assert.Equal(t, n, fetched.LikeCount)
	})

	t.Run("missing book", func(t *testing.T) {
		repo, _ := setupTestDB(t)
		_, err := repo.IncrementLikes(ctx, uuid.New())
		assert.ErrorIs(t, err, entities.ErrNotFound)
	})
}
