package http

import (
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/bookstore/internal/auth"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Stores
	CategoryStore CategoryStore
	BookStore     BookStore
	UserStore     UserLister
	Database      Pinger

	// Authentication
	AuthController *auth.AuthController
	AuthMiddleware *auth.Middleware
	UserCreator    UserCreator

	// Audit (optional)
	ChangeAuditor ChangeAuditor
	AuditReader   AuditReader

	Logger logrus.FieldLogger

	// Application info
	Version string
}
