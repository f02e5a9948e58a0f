package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/ethernet-moe/cafeteria-backend/internal/models"
	"github.com/ethernet-moe/cafeteria-backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// UserService manages operator accounts
type UserService struct {
	repo   repository.UserRepository
	logger *slog.Logger
}

// NewUserService creates a new user service
func NewUserService(repo repository.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// Create stores a new account with a bcrypt-hashed password
func (s *UserService) Create(ctx context.Context, req models.UserRequest) (*models.User, error) {
	if len(req.Password) < minPasswordLength {
		return nil, invalidf("password must be at least %d characters", minPasswordLength)
	}

	user := &models.User{Active: true}
	if err := s.apply(ctx, user, req); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, newError(ErrConflict, "username or email already exists")
		}
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	s.logger.Info("user created", "username", user.Username, "role", user.Role)
	return user, nil
}

// Update replaces the editable fields of an account. An empty password keeps the current one.
func (s *UserService) Update(ctx context.Context, id string, req models.UserRequest) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Password != "" && len(req.Password) < minPasswordLength {
		return nil, invalidf("password must be at least %d characters", minPasswordLength)
	}

	if err := s.apply(ctx, user, req); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, newError(ErrConflict, "username or email already exists")
		}
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	return user, nil
}

func (s *UserService) apply(ctx context.Context, u *models.User, req models.UserRequest) error {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" {
		return invalidf("username is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return invalidf("a valid email is required")
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		return invalidf("%v", err)
	}

	for _, c := range []struct {
		column, value string
		err           error
	}{
		{column: "username", value: username, err: ErrUsernameTaken},
		{column: "email", value: email, err: ErrEmailTaken},
	} {
		taken, err := s.repo.Exists(ctx, c.column, c.value, u.ID)
		if err != nil {
			return fmt.Errorf("failed to check %s: %w", c.column, err)
		}
		if taken {
			return c.err
		}
	}

	if req.Password != "" {
		hash, err := hashPassword(req.Password)
		if err != nil {
			return err
		}
		u.PasswordHash = hash
	}

	u.Username = username
	u.Email = email
	u.FullName = strings.TrimSpace(req.FullName)
	u.Role = role
	if req.Active != nil {
		u.Active = *req.Active
	}
	return nil
}

// ToggleStatus flips an account between active and inactive
func (s *UserService) ToggleStatus(ctx context.Context, id string) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Active = !user.Active
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes an account. Meal records keep the user id they were recorded with.
func (s *UserService) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

// EnsureAdmin creates the first ADMIN account when the user table is empty.
// It does nothing when users exist or no password is configured.
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if password == "" {
		s.logger.Warn("no users exist and ADMIN_PASSWORD is empty; skipping admin bootstrap")
		return nil
	}

	_, err = s.Create(ctx, models.UserRequest{
		Username: username,
		Email:    username + "@localhost",
		FullName: "Administrator",
		Password: password,
		Role:     string(models.RoleAdmin),
	})
	return err
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
