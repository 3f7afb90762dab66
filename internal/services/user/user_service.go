package user

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password so the API cannot be used to probe which usernames exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Service contains identity logic: registration and credential verification.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a new user with a hashed password. Registration with a
// taken username fails with ErrUserAlreadyExists regardless of the other
// arguments.
func (s *Service) Register(ctx context.Context, username, password string, role Role) (*User, error) {
	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrUserAlreadyExists, username)
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to validate username: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u, err := s.repo.Create(ctx, username, hash, role)
	if err != nil {
		if errors.Is(err, ErrUserAlreadyExists) {
			return nil, fmt.Errorf("%w: %s", ErrUserAlreadyExists, username)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

// Authenticate returns the user record when the username exists and the
// password matches its stored hash, and ErrInvalidCredentials otherwise.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !VerifyPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// GetByID fetches a user by id.
func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}
