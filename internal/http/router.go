package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/bookstore/internal/auth"
	"github.com/mrlokans/bookstore/internal/entities"
)

const contextKeyLogger = "request_logger"

// NewRouter creates and configures the HTTP router with all endpoints.
//
// Reads are public, likes need any authenticated user and every other
// mutation requires the ADMIN role.
func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	router := gin.New()
	router.Use(LoggerMiddleware(log))
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		requestLogger(c).WithField("panic", recovered).Error("recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}))
	router.Use(auth.SecurityHeadersMiddleware())
	router.Use(auth.StrictTransportSecurityMiddleware())

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	mw := cfg.AuthMiddleware
	if cfg.AuthController != nil {
		cfg.AuthController.RegisterRoutes(router, mw)
	}

	authenticated := router.Group("/", mw.RequireAuth())
	admin := router.Group("/", mw.RequireAuth(), mw.RequireRole(entities.UserRoleAdmin))

	auditor := auditorOrNoop(cfg.ChangeAuditor)

	categories := NewCategoriesController(cfg.CategoryStore, auditor)
	router.GET("/book-category", categories.List)
	router.GET("/book-category/:id", categories.Get)
	admin.POST("/book-category", categories.Create)
	admin.PATCH("/book-category/:id", categories.Update)
	admin.DELETE("/book-category/:id", categories.Delete)

	books := NewBooksController(cfg.BookStore, auditor)
	router.GET("/book", books.List)
	router.GET("/book/:id", books.Get)
	authenticated.POST("/book/:id/like", books.Like)
	admin.POST("/book", books.Create)
	admin.PATCH("/book/:id", books.Update)
	admin.DELETE("/book/:id", books.Delete)

	if cfg.UserCreator != nil && cfg.UserStore != nil {
		users := NewUsersController(cfg.UserCreator, cfg.UserStore, auditor)
		admin.POST("/users", users.Create)
		admin.GET("/users", users.List)
	}

	if cfg.AuditReader != nil {
		audit := NewAuditController(cfg.AuditReader)
		admin.GET("/audit", audit.GetAuditEvents)
	}

	return router
}

// LoggerMiddleware logs each request through logrus and exposes a
// request-scoped logger to handlers.
func LoggerMiddleware(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		entry := log.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      path,
			"client_ip": c.ClientIP(),
		})
		c.Set(contextKeyLogger, entry)

		c.Next()

		status := c.Writer.Status()
		fields := logrus.Fields{
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
		}
		if userID := auth.GetUserID(c); userID != uuid.Nil {
			fields["user_id"] = userID.String()
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		switch {
		case status >= http.StatusInternalServerError:
			entry.WithFields(fields).Error("request completed")
		case status >= http.StatusBadRequest:
			entry.WithFields(fields).Warn("request completed")
		default:
			entry.WithFields(fields).Info("request completed")
		}
	}
}
