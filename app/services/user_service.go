package services

import (
	"context"
	"errors"
	"fmt"

	"postboard/app/auth"
	"postboard/app/models"
	"postboard/app/repositories"
)

// UserService registers and authenticates accounts.
type UserService struct {
	users repositories.UserRepository
}

func NewUserService(store repositories.Store) *UserService {
	return &UserService{users: store.Users()}
}

// Register creates an account with a hashed password.
func (s *UserService) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	if err := reg.Validate(); err != nil {
		return nil, invalid(err)
	}
	if len(reg.Password) > auth.MaxPasswordBytes {
		return nil, fieldError("password", fmt.Sprintf("Ensure this field has no more than %d bytes.", auth.MaxPasswordBytes))
	}

	hash, err := auth.HashPassword(reg.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &models.User{
		Username:     reg.Username,
		FirstName:    reg.FirstName,
		LastName:     reg.LastName,
		PasswordHash: hash,
	}
	user.BeforeCreate()

	err = s.users.Create(ctx, user)
	if errors.Is(err, repositories.ErrDuplicate) {
		return nil, fieldError("username", "A user with that username already exists.")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Authenticate returns the user whose username and password match.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
