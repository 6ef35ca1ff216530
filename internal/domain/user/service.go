package user

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"taskflow-server-go/internal/models"
	"taskflow-server-go/internal/platform/errors"
)

// Repository is the persistence contract the service depends on. Lookups
// return (nil, nil) when no row matches.
type Repository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateRole(ctx context.Context, id, role string) error
}

// Logger is the minimal logging contract this package needs.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Service owns account lifecycle: registration, credential verification and
// role administration.
type Service struct {
	repo   Repository
	logger Logger
}

// NewService wires a user service.
func NewService(repo Repository, logger Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// NormalizeEmail lowercases and trims an address; all lookups and writes go
// through the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateRegistration(name, email, password string) error {
	if name == "" || email == "" || password == "" {
		return errors.BadRequest("Name, email, and password are required")
	}
	if !strings.Contains(email, "@") {
		return errors.BadRequest("Invalid email format")
	}
	if len(password) < 6 {
		return errors.BadRequest("Password must be at least 6 characters")
	}
	if len(strings.TrimSpace(name)) < 2 {
		return errors.BadRequest("Name must be at least 2 characters")
	}
	return nil
}

// Register creates a regular account.
func (s *Service) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	return s.create(ctx, name, email, password, "user")
}

// CreateAdmin creates an account with the admin role.
func (s *Service) CreateAdmin(ctx context.Context, name, email, password string) (*models.User, error) {
	return s.create(ctx, name, email, password, "admin")
}

func (s *Service) create(ctx context.Context, name, email, password, role string) (*models.User, error) {
	normalized := NormalizeEmail(email)
	if err := validateRegistration(name, normalized, password); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByEmail(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.Conflict("Email already registered. Please use a different email or login.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(errors.KindDomain, "user.create", "failed to hash password", err)
	}

	account := &models.User{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(name),
		Email:    normalized,
		Password: string(hash),
		Role:     role,
	}
	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}
	s.logger.Info("user created: %s (%s)", account.ID, role)
	return account, nil
}

// Authenticate verifies credentials. A missing user and a wrong password are
// indistinguishable to the caller to avoid user enumeration.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, errors.BadRequest("Email and password are required")
	}

	account, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, errors.Unauthorized("Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		return nil, errors.Unauthorized("Invalid email or password")
	}
	return account, nil
}

// GetByID fetches a user or answers 404.
func (s *Service) GetByID(ctx context.Context, id string) (*models.User, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, errors.NotFound("User not found")
	}
	return account, nil
}

// List returns all accounts.
func (s *Service) List(ctx context.Context) ([]models.User, error) {
	return s.repo.List(ctx)
}

// UpdateRole changes a user's role after validating the target value.
func (s *Service) UpdateRole(ctx context.Context, id, role string) (*models.User, error) {
	if role == "" {
		return nil, errors.BadRequest("Role is required")
	}
	if role != "user" && role != "admin" {
		return nil, errors.BadRequest(`Invalid role. Must be either "user" or "admin"`)
	}

	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}
