package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookstore/internal/auth"
	"github.com/mrlokans/bookstore/internal/entities"
)

const auditEntityUser = "user"

type CreateUserRequest struct {
	Email    string            `json:"email" binding:"required"`
	Password string            `json:"password" binding:"required"`
	Role     entities.UserRole `json:"role"`
}

// UsersController handles user administration.
type UsersController struct {
	creator UserCreator
	lister  UserLister
	auditor ChangeAuditor
}

// NewUsersController creates a new UsersController.
func NewUsersController(creator UserCreator, lister UserLister, auditor ChangeAuditor) *UsersController {
	return &UsersController{
		creator: creator,
		lister:  lister,
		auditor: auditorOrNoop(auditor),
	}
}

// Create provisions a user account.
// POST /users
func (uc *UsersController) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	user, err := uc.creator.CreateUser(c.Request.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		respondStoreError(c, err, "create user")
		return
	}

	uc.auditor.LogCreate(auth.GetUserID(c), auditEntityUser, user.ID, user.Email)
	respondCreated(c, user)
}

// List returns all users. Password hashes are never serialized.
// GET /users
func (uc *UsersController) List(c *gin.Context) {
	users, err := uc.lister.List(c.Request.Context())
	if err != nil {
		respondStoreError(c, err, "list users")
		return
	}
	respondOK(c, users)
}
