package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type DatabaseDriver string

const (
	DatabaseDriverPostgres DatabaseDriver = "postgres"
	DatabaseDriverSQLite   DatabaseDriver = "sqlite" // Local development and tests
)

var (
	ErrJWTSecretMissing      = errors.New("JWT_SECRET is not defined in environment variables")
	ErrInvalidTokenExpiry    = errors.New("JWT_EXPIRY must be positive")
	ErrUnknownDatabaseDriver = errors.New("unknown database driver")
)

type (
	Config struct {
		HTTP
		Global
		Database
		Auth
		Log
	}

	HTTP struct {
		Port    int32
		Host    string
		GinMode string
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}

	Database struct {
		Driver      DatabaseDriver
		Host        string
		Port        int
		Username    string
		Password    string
		Name        string
		SSLMode     string
		Path        string // SQLite file, ignored for postgres
		AutoMigrate bool   // Development only, production should run versioned migrations
		SeedOnStart bool
	}

	Auth struct {
		JWTSecret   string
		TokenExpiry time.Duration
		Issuer      string
		BcryptCost  int

		// Rate limiting configuration
		MaxLoginAttempts int           // Max failed attempts before lockout (default: 5)
		RateLimitWindow  time.Duration // Time window for counting attempts (default: 15m)
		LockoutDuration  time.Duration // How long to lock out (default: 30m)
	}

	Log struct {
		Level  string
		Format string // "json" or "text"
	}
)

// DSN builds the PostgreSQL connection string.
func (d Database) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.Username, d.Password, d.Name, d.SSLMode)
}

// Validate reports configuration that must stop the process before it serves requests.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return ErrJWTSecretMissing
	}
	if c.Auth.TokenExpiry <= 0 {
		return ErrInvalidTokenExpiry
	}
	switch c.Database.Driver {
	case DatabaseDriverPostgres, DatabaseDriverSQLite:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDatabaseDriver, c.Database.Driver)
	}
	return nil
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 3000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("gin_mode", "release")
	v.SetDefault("shutdown_timeout_in_seconds", 5)

	// Database defaults
	v.SetDefault("db_driver", string(DatabaseDriverPostgres))
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", 5432)
	v.SetDefault("db_username", "postgres")
	v.SetDefault("db_password", "")
	v.SetDefault("db_database", "bookstore")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("db_auto_migrate", true)
	v.SetDefault("seed_on_start", true)

	// Auth defaults
	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_expiry", "24h")
	v.SetDefault("jwt_issuer", DefaultTokenIssuer)
	v.SetDefault("auth_bcrypt_cost", 12)
	v.SetDefault("auth_max_login_attempts", 5)
	v.SetDefault("auth_rate_limit_window", "15m")
	v.SetDefault("auth_lockout_duration", "30m")

	// Logging defaults
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	return &Config{
		HTTP: HTTP{
			Port:    v.GetInt32("PORT"),
			Host:    v.GetString("HOST"),
			GinMode: v.GetString("GIN_MODE"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Driver:      DatabaseDriver(v.GetString("DB_DRIVER")),
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetInt("DB_PORT"),
			Username:    v.GetString("DB_USERNAME"),
			Password:    v.GetString("DB_PASSWORD"),
			Name:        v.GetString("DB_DATABASE"),
			SSLMode:     v.GetString("DB_SSLMODE"),
			Path:        v.GetString("DATABASE_PATH"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
			SeedOnStart: v.GetBool("SEED_ON_START"),
		},
		Auth: Auth{
			JWTSecret:        v.GetString("JWT_SECRET"),
			TokenExpiry:      v.GetDuration("JWT_EXPIRY"),
			Issuer:           v.GetString("JWT_ISSUER"),
			BcryptCost:       v.GetInt("AUTH_BCRYPT_COST"),
			MaxLoginAttempts: v.GetInt("AUTH_MAX_LOGIN_ATTEMPTS"),
			RateLimitWindow:  v.GetDuration("AUTH_RATE_LIMIT_WINDOW"),
			LockoutDuration:  v.GetDuration("AUTH_LOCKOUT_DURATION"),
		},
		Log: Log{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}
}
