package http

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mrlokans/bookstore/internal/auth"
	"github.com/mrlokans/bookstore/internal/database/books"
)

const auditEntityBook = "book"

// Bounds mirror the books table columns; price is decimal(10,2).
type CreateBookRequest struct {
	Title      string   `json:"title" binding:"required,max=512"`
	Author     string   `json:"author" binding:"required,max=256"`
	Price      *float64 `json:"price" binding:"required,gte=0,lte=99999999.99"`
	CategoryID string   `json:"categoryId" binding:"required"`
}

type UpdateBookRequest struct {
	Title      *string  `json:"title" binding:"omitempty,min=1,max=512"`
	Author     *string  `json:"author" binding:"omitempty,min=1,max=256"`
	Price      *float64 `json:"price" binding:"omitempty,gte=0,lte=99999999.99"`
	CategoryID *string  `json:"categoryId"`
}

type BooksController struct {
	store   BookStore
	auditor ChangeAuditor
}

func NewBooksController(store BookStore, auditor ChangeAuditor) *BooksController {
	return &BooksController{store: store, auditor: auditorOrNoop(auditor)}
}

// List returns all books with their categories.
// GET /book
func (bc *BooksController) List(c *gin.Context) {
	list, err := bc.store.List(c.Request.Context())
	if err != nil {
		respondStoreError(c, err, "list books")
		return
	}
	respondOK(c, list)
}

// Get returns one book.
// GET /book/:id
func (bc *BooksController) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "get book")
		return
	}
	respondOK(c, book)
}

// Create adds a book to an existing category.
// POST /book
func (bc *BooksController) Create(c *gin.Context) {
	var req CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		respondBadRequest(c, "invalid categoryId")
		return
	}

	book, err := bc.store.Create(c.Request.Context(), req.Title, req.Author, *req.Price, categoryID)
	if err != nil {
		respondStoreError(c, err, "create book")
		return
	}

	bc.auditor.LogCreate(auth.GetUserID(c), auditEntityBook, book.ID, book.Title)
	respondCreated(c, book)
}

// Update applies a partial update.
// PATCH /book/:id
func (bc *BooksController) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	update := books.Update{
		Title:  req.Title,
		Author: req.Author,
		Price:  req.Price,
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			respondBadRequest(c, "invalid categoryId")
			return
		}
		update.CategoryID = &categoryID
	}

	book, err := bc.store.Update(c.Request.Context(), id, update)
	if err != nil {
		respondStoreError(c, err, "update book")
		return
	}

	bc.auditor.LogUpdate(auth.GetUserID(c), auditEntityBook, book.ID, book.Title)
	respondOK(c, book)
}

// Delete removes a book and returns it.
// DELETE /book/:id
func (bc *BooksController) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.Delete(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "delete book")
		return
	}

	bc.auditor.LogDelete(auth.GetUserID(c), auditEntityBook, book.ID, book.Title)
	respondOK(c, book)
}

// Like increments the like counter.
// POST /book/:id/like
func (bc *BooksController) Like(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.IncrementLikes(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "like book")
		return
	}
	respondOK(c, book)
}
