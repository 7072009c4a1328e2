package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/bookstore/internal/audit"
	"github.com/mrlokans/bookstore/internal/auth"
	"github.com/mrlokans/bookstore/internal/config"
	"github.com/mrlokans/bookstore/internal/database"
	auditRepo "github.com/mrlokans/bookstore/internal/database/audit"
	"github.com/mrlokans/bookstore/internal/database/books"
	"github.com/mrlokans/bookstore/internal/database/categories"
	"github.com/mrlokans/bookstore/internal/database/users"
	http_controllers "github.com/mrlokans/bookstore/internal/http"
	"github.com/mrlokans/bookstore/internal/logging"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// App holds the wired stores and services shared by the server and CLI commands.
type App struct {
	Config *config.Config
	Log    *logrus.Logger

	Database   *database.Database
	Categories *categories.Repository
	Books      *books.Repository
	Users      *users.Repository
	Audit      *audit.Service

	Tokens      *auth.TokenIssuer
	Auth        *auth.Service
	RateLimiter *auth.RateLimiter
}

// NewApp opens the database and wires stores and services.
func NewApp(cfg *config.Config, log *logrus.Logger) (*App, error) {
	db, err := database.NewDatabase(cfg.Database, log)
	if err != nil {
		return nil, err
	}

	userRepo := users.NewRepository(db.DB)
	tokens := auth.NewTokenIssuer(cfg.Auth)

	return &App{
		Config:     cfg,
		Log:        log,
		Database:   db,
		Categories: categories.NewRepository(db.DB),
		Books:      books.NewRepository(db.DB),
		Users:      userRepo,
		Audit:      audit.NewService(auditRepo.NewRepository(db.DB), log),
		Tokens:     tokens,
		Auth:       auth.NewService(userRepo, tokens, cfg.Auth),
		RateLimiter: auth.NewRateLimiter(auth.RateLimitConfig{
			MaxAttempts:     cfg.Auth.MaxLoginAttempts,
			WindowDuration:  cfg.Auth.RateLimitWindow,
			LockoutDuration: cfg.Auth.LockoutDuration,
		}),
	}, nil
}

// Router builds the HTTP router over the app's stores.
func (a *App) Router(version string) *gin.Engine {
	return http_controllers.NewRouter(http_controllers.RouterConfig{
		CategoryStore:  a.Categories,
		BookStore:      a.Books,
		UserStore:      a.Users,
		Database:       a.Database,
		AuthController: auth.NewAuthController(a.Auth, a.RateLimiter, a.Audit, a.Log),
		AuthMiddleware: auth.NewMiddleware(a.Tokens),
		UserCreator:    a.Auth,
		ChangeAuditor:  a.Audit,
		AuditReader:    a.Audit,
		Logger:         a.Log,
		Version:        version,
	})
}

// Seed inserts the default categories into an empty store.
func (a *App) Seed(ctx context.Context) (int, error) {
	inserted, err := a.Categories.SeedDefaults(ctx)
	if err != nil {
		return 0, err
	}
	if inserted > 0 {
		a.Log.WithField("count", inserted).Info("Seeded default categories")
	} else {
		a.Log.Debug("Categories already present, skipping seed")
	}
	return inserted, nil
}

// warnIfNoUsers logs a hint when the database has no account to log in with.
func (a *App) warnIfNoUsers(ctx context.Context) error {
	count, err := a.Users.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count == 0 {
		a.Log.Warn("No users exist; create an administrator with: bookstore create-user --role ADMIN")
	}
	return nil
}

// Close stops background work and closes the database.
func (a *App) Close() {
	a.RateLimiter.Stop()
	a.Audit.Wait()
	if err := a.Database.Close(); err != nil {
		a.Log.WithError(err).Error("Failed to close database")
	}
}

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts it down
// within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, log logrus.FieldLogger, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-serveErr:
		if onShutdown != nil {
			onShutdown(context.Background())
		}
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case sig := <-quit:
		log.WithField("signal", sig.String()).Infof("Shutdown Server, waiting %v before killing", timeout)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Info("Server exiting")
	return nil
}

// Run validates configuration, wires the application and serves HTTP.
func Run(cfg *config.Config, version string) error {
	log := logging.New(cfg.Log)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log.WithField("version", version).Info("Starting Bookstore")
	gin.SetMode(cfg.HTTP.GinMode)

	app, err := NewApp(cfg, log)
	if err != nil {
		return err
	}

	if cfg.Database.SeedOnStart {
		if _, err := app.Seed(context.Background()); err != nil {
			app.Close()
			return fmt.Errorf("failed to seed database: %w", err)
		}
	}

	if err := app.warnIfNoUsers(context.Background()); err != nil {
		app.Close()
		return err
	}

	return Serve(app.Router(version), cfg, log, func(context.Context) {
		app.Close()
	})
}
