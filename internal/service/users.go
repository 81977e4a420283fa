package service

import (
	"context"
	"fmt"

	domainauth "github.com/RobinWillson/authsite/internal/domain/auth"
	"github.com/RobinWillson/authsite/internal/domain/model"
	apperrors "github.com/RobinWillson/authsite/internal/errors"
	"github.com/RobinWillson/authsite/internal/ports"
)

// UserService exposes user directory operations to the admin API.
type UserService struct {
	users ports.UserRepository
}

// NewUserService constructs a new UserService.
func NewUserService(users ports.UserRepository) *UserService {
	return &UserService{users: users}
}

// List returns all user records.
func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Get returns a single user record by internal ID.
func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// UpdateRole validates and persists a role change for the given user.
// An unknown role yields a validation error before the store is touched;
// an unknown id yields a not-found error.
func (s *UserService) UpdateRole(ctx context.Context, id, rawRole string) (*model.User, error) {
	role, err := domainauth.ParseRole(rawRole)
	if err != nil {
		return nil, apperrors.ValidationField("role", err.Error())
	}

	user, err := s.users.UpdateRole(ctx, id, role)
	if err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}
	return user, nil
}
