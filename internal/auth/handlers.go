package auth

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AuthAuditor records authentication attempts.
type AuthAuditor interface {
	LogAuth(userID uuid.UUID, action, ipAddr, userAgent string, success bool)
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// AuthController handles authentication-related HTTP endpoints.
type AuthController struct {
	service     *Service
	rateLimiter *RateLimiter
	auditor     AuthAuditor
	log         logrus.FieldLogger
}

// NewAuthController creates a new authentication controller.
// rateLimiter and auditor may be nil.
func NewAuthController(service *Service, rateLimiter *RateLimiter, auditor AuthAuditor, log logrus.FieldLogger) *AuthController {
	return &AuthController{
		service:     service,
		rateLimiter: rateLimiter,
		auditor:     auditor,
		log:         log,
	}
}

// RegisterRoutes registers authentication routes on the router.
func (ac *AuthController) RegisterRoutes(router gin.IRouter, middleware *Middleware) {
	router.POST("/auth/login", ac.Login)
	router.GET("/auth/me", middleware.RequireAuth(), ac.Me)
}

// Login validates credentials and returns an access token.
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	clientIP := c.ClientIP()

	if ac.rateLimiter != nil {
		allowed, retryAfter := ac.rateLimiter.Allow(clientIP, req.Email)
		if !allowed {
			ac.rejectRateLimited(c, retryAfter)
			return
		}
	}

	user, err := ac.service.ValidateUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, ErrInvalidCredentials) {
			ac.log.WithError(err).Error("login failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		ac.audit(uuid.Nil, "login_failed", c, false)

		if ac.rateLimiter != nil {
			if locked, retryAfter := ac.rateLimiter.RecordFailure(clientIP, req.Email); locked {
				ac.log.WithFields(logrus.Fields{"ip": clientIP, "email": req.Email}).Warn("login locked out")
				ac.rejectRateLimited(c, retryAfter)
				return
			}
		}

		c.JSON(http.StatusUnauthorized, gin.H{"error": ErrInvalidCredentials.Error()})
		return
	}

	token, err := ac.service.Login(user)
	if err != nil {
		ac.log.WithError(err).Error("failed to issue token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if ac.rateLimiter != nil {
		ac.rateLimiter.RecordSuccess(clientIP, req.Email)
	}
	ac.audit(user.ID, "login", c, true)

	c.JSON(http.StatusOK, LoginResponse{AccessToken: token})
}

// Me returns the authenticated principal.
func (ac *AuthController) Me(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": ErrAuthRequired.Error()})
		return
	}
	c.JSON(http.StatusOK, principal)
}

func (ac *AuthController) rejectRateLimited(c *gin.Context, retryAfter time.Duration) {
	seconds := int(retryAfter.Round(time.Second) / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	c.Header("Retry-After", strconv.Itoa(seconds))
	c.JSON(http.StatusTooManyRequests, gin.H{
		"error":       "too many login attempts",
		"retry_after": retryAfter.Round(time.Second).String(),
	})
}

func (ac *AuthController) audit(userID uuid.UUID, action string, c *gin.Context, success bool) {
	if ac.auditor == nil {
		return
	}
	ac.auditor.LogAuth(userID, action, c.ClientIP(), c.Request.UserAgent(), success)
}
