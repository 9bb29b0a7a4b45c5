package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mtakagi/body-tracker-api/internal/authz"
	"github.com/mtakagi/body-tracker-api/internal/models"
	"github.com/mtakagi/body-tracker-api/internal/repository"
)

// ErrInvalidCredentials is the single error for every login failure. Callers
// must not be able to tell an unknown username from a wrong password.
var ErrInvalidCredentials = errors.New("invalid username or password")

// AuthService handles authentication and credential changes.
type AuthService struct {
	userRepo repository.UserRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
	}
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials and returns the authenticated user. Username
// matching is exact and case-sensitive. When the username does not exist a
// comparison still runs against a dummy hash so the two failure modes are
// not distinguishable by timing.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			verifyPassword(dummyPasswordHash, input.Password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !verifyPassword(user.PasswordHash, input.Password) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// ChangePasswordInput carries the credential rotation request.
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

// ChangePassword rotates the acting user's credential. The current password
// must verify against the stored hash before anything is written.
func (s *AuthService) ChangePassword(identity authz.Identity, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByID(identity.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if !verifyPassword(user.PasswordHash, input.CurrentPassword) {
		return ErrInvalidCredentials
	}

	if err := ValidateNewPassword(input.NewPassword, input.ConfirmPassword); err != nil {
		return err
	}

	hash, err := HashPassword(input.NewPassword)
	if err != nil {
		return err
	}

	return s.userRepo.UpdatePasswordHash(user.ID, hash)
}

// GetUser retrieves a user by ID, for session restoration.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
