package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookstore/internal/auth"
	"github.com/mrlokans/bookstore/internal/database/categories"
)

const auditEntityCategory = "category"

type CreateCategoryRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Description *string `json:"description"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
}

type CategoriesController struct {
	store   CategoryStore
	auditor ChangeAuditor
}

func NewCategoriesController(store CategoryStore, auditor ChangeAuditor) *CategoriesController {
	return &CategoriesController{store: store, auditor: auditorOrNoop(auditor)}
}

// List returns all categories.
// GET /book-category
func (cc *CategoriesController) List(c *gin.Context) {
	list, err := cc.store.List(c.Request.Context())
	if err != nil {
		respondStoreError(c, err, "list categories")
		return
	}
	respondOK(c, list)
}

// Get returns one category.
// GET /book-category/:id
func (cc *CategoriesController) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	category, err := cc.store.GetByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "get category")
		return
	}
	respondOK(c, category)
}

// Create adds a category.
// POST /book-category
func (cc *CategoriesController) Create(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	category, err := cc.store.Create(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		respondStoreError(c, err, "create category")
		return
	}

	cc.auditor.LogCreate(auth.GetUserID(c), auditEntityCategory, category.ID, category.Name)
	respondCreated(c, category)
}

// Update applies a partial update.
// PATCH /book-category/:id
func (cc *CategoriesController) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	category, err := cc.store.Update(c.Request.Context(), id, categories.Update{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondStoreError(c, err, "update category")
		return
	}

	cc.auditor.LogUpdate(auth.GetUserID(c), auditEntityCategory, category.ID, category.Name)
	respondOK(c, category)
}

// Delete removes a category that no book references and returns it.
// DELETE /book-category/:id
func (cc *CategoriesController) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	category, err := cc.store.Delete(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "delete category")
		return
	}

	cc.auditor.LogDelete(auth.GetUserID(c), auditEntityCategory, category.ID, category.Name)
	respondOK(c, category)
}
