package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/mrlokans/bookstore/internal/config"
	"github.com/mrlokans/bookstore/internal/entities"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAuthRequired       = errors.New("authentication required")
	ErrInvalidRole        = errors.New("invalid role")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrEmailInvalid       = errors.New("invalid email format")
)

// IsValidationError reports whether err was caused by bad user input.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrInvalidRole, ErrEmailRequired, ErrPasswordRequired, ErrEmailInvalid,
		ErrPasswordTooShort, ErrPasswordTooLong,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// UserRepository defines the user data access the service needs.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
}

// Service handles credential checks, user provisioning and token issuing.
type Service struct {
	users  UserRepository
	tokens *TokenIssuer
	config config.Auth
}

// NewService creates a new authentication service.
func NewService(users UserRepository, tokens *TokenIssuer, cfg config.Auth) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		config: cfg,
	}
}

// CreateUser validates input, hashes the password and stores a new user.
// Roles are case-insensitive; an empty role defaults to USER.
func (s *Service) CreateUser(ctx context.Context, email, password string, role entities.UserRole) (*entities.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	// RFC 5321 limit is 254
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return nil, ErrEmailInvalid
	}

	role = entities.UserRole(strings.ToUpper(strings.TrimSpace(string(role))))
	if role == "" {
		role = entities.UserRoleUser
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	passwordHash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		if IsValidationError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entities.User{
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// ValidateUser checks credentials. An unknown email and a wrong password
// both yield ErrInvalidCredentials.
func (s *Service) ValidateUser(ctx context.Context, email, password string) (*entities.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	return user, nil
}

// Login issues an access token for an already validated user.
func (s *Service) Login(user *entities.User) (string, error) {
	return s.tokens.Issue(user)
}

// VerifyToken returns the principal for a valid access token.
func (s *Service) VerifyToken(token string) (*Principal, error) {
	return s.tokens.Verify(token)
}

// GetUserByID retrieves a user by their ID.
func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return s.users.GetByID(ctx, id)
}
