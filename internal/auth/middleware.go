package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mrlokans/bookstore/internal/entities"
)

// ContextKeyPrincipal is the gin context key holding the verified *Principal.
const ContextKeyPrincipal = "auth_principal"

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	Verify(token string) (*Principal, error)
}

// Middleware handles authentication for HTTP requests.
type Middleware struct {
	verifier TokenVerifier
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(verifier TokenVerifier) *Middleware {
	return &Middleware{verifier: verifier}
}

// RequireAuth rejects requests without a valid bearer token with 401.
// On success the Principal is stored in the gin context.
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": ErrAuthRequired.Error(),
			})
			return
		}

		principal, err := m.verifier.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
			})
			return
		}

		c.Set(ContextKeyPrincipal, principal)
		c.Next()
	}
}

// RequireRole returns a middleware that requires one of the given roles.
// It must run after RequireAuth.
func (m *Middleware) RequireRole(roles ...entities.UserRole) gin.HandlerFunc {
	roleSet := make(map[entities.UserRole]bool)
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": ErrAuthRequired.Error(),
			})
			return
		}
		if !roleSet[principal.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "insufficient permissions",
			})
			return
		}
		c.Next()
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

// GetPrincipal retrieves the authenticated caller from the context.
func GetPrincipal(c *gin.Context) (*Principal, bool) {
	if v, exists := c.Get(ContextKeyPrincipal); exists {
		if principal, ok := v.(*Principal); ok {
			return principal, true
		}
	}
	return nil, false
}

// GetUserID returns the authenticated user's ID, or uuid.Nil.
func GetUserID(c *gin.Context) uuid.UUID {
	if principal, ok := GetPrincipal(c); ok {
		return principal.UserID
	}
	return uuid.Nil
}
