package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/parabens-app/parabens-server/internal/auth"
	"github.com/parabens-app/parabens-server/internal/domain"
	domainerrors "github.com/parabens-app/parabens-server/internal/errors"
	"github.com/parabens-app/parabens-server/internal/id"
	"github.com/parabens-app/parabens-server/internal/store"
)

// UserService manages user accounts and their company memberships.
type UserService struct {
	store  store.Store
	logger *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(st store.Store, logger *slog.Logger) *UserService {
	return &UserService{store: st, logger: logger}
}

// CreateUserRequest contains the data for an admin-created account.
type CreateUserRequest struct {
	Username   string   `json:"username" validate:"required,min=2,max=64"`
	Password   string   `json:"password" validate:"required,min=8,max=1024"`
	CompanyIDs []string `json:"company_ids"`
}

// SetCompaniesRequest replaces a user's memberships.
type SetCompaniesRequest struct {
	CompanyIDs []string `json:"company_ids" validate:"required"`
}

// ChangePasswordRequest sets a new password for a user.
type ChangePasswordRequest struct {
	Password string `json:"password" validate:"required,min=8,max=1024"`
}

// List returns every user account with memberships populated.
func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.store.ListUsers(ctx)
}

// Create adds a member account and assigns its company memberships.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*domain.User, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate("usr")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           userID,
		Username:     req.Username,
		PasswordHash: passwordHash,
		Role:         domain.RoleMember,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("username already taken")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if len(req.CompanyIDs) > 0 {
		if err := s.store.SetUserCompanies(ctx, user.ID, req.CompanyIDs); err != nil {
			return nil, fmt.Errorf("assign companies: %w", err)
		}
		user.CompanyIDs = req.CompanyIDs
	}

	s.logger.Info("User created", "user_id", user.ID)
	return user, nil
}

// SetCompanies replaces a user's company memberships.
func (s *UserService) SetCompanies(ctx context.Context, userID string, req SetCompaniesRequest) (*domain.User, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.store.GetUser(ctx, userID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, err
	}

	if err := s.store.SetUserCompanies(ctx, userID, req.CompanyIDs); err != nil {
		return nil, fmt.Errorf("set companies: %w", err)
	}

	return s.store.GetUser(ctx, userID)
}

// ChangePassword replaces a user's password.
func (s *UserService) ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error {
	if err := validate.Validate(req); err != nil {
		return err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("user not found")
		}
		return err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = passwordHash
	user.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	s.logger.Info("Password changed", "user_id", userID)
	return nil
}

// Delete removes a user account. Users cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return domainerrors.Validation("cannot delete yourself")
	}

	if err := s.store.DeleteUser(ctx, targetID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("user not found")
		}
		return err
	}

	s.logger.Info("User deleted", "user_id", targetID, "by", actorID)
	return nil
}
