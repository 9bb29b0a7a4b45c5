package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/mtakagi/body-tracker-api/internal/authz"
	"github.com/mtakagi/body-tracker-api/internal/constants"
	"github.com/mtakagi/body-tracker-api/internal/models"
	"github.com/mtakagi/body-tracker-api/internal/repository"
)

var (
	ErrUsernameTaken = errors.New("username already exists")
	ErrUserNotFound  = errors.New("user not found")
	ErrSelfDeletion  = errors.New("cannot delete your own account")

	ErrUsernameRequired = errors.New("username is required")
)

// AccountService handles the user account lifecycle.
type AccountService struct {
	userRepo repository.UserRepository
}

// NewAccountService creates a new AccountService.
func NewAccountService(userRepo repository.UserRepository) *AccountService {
	return &AccountService{
		userRepo: userRepo,
	}
}

// CreateUserInput carries a new account request.
type CreateUserInput struct {
	Username        string
	Password        string
	ConfirmPassword string
	IsAdmin         bool
}

// Create registers a new account. Admin-gated. Usernames are unique under
// exact, case-sensitive comparison.
func (s *AccountService) Create(identity authz.Identity, input CreateUserInput) (*models.User, error) {
	if !authz.CanAdminister(identity) {
		return nil, ErrPermissionDenied
	}

	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	if err := ValidateNewPassword(input.Password, input.ConfirmPassword); err != nil {
		return nil, err
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		IsAdmin:      input.IsAdmin,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Delete removes an account together with every measurement it owns in one
// transaction. An admin can never delete their own account, regardless of
// how many other admins exist.
func (s *AccountService) Delete(identity authz.Identity, targetUserID uint64) error {
	if !authz.CanDeleteUser(identity, targetUserID) {
		if authz.CanAdminister(identity) && identity.UserID == targetUserID {
			return ErrSelfDeletion
		}
		return ErrPermissionDenied
	}

	if _, err := s.userRepo.FindByID(targetUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.userRepo.DeleteWithMeasurements(targetUserID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

// Promote grants the admin role to targetUserID. Idempotent.
func (s *AccountService) Promote(identity authz.Identity, targetUserID uint64) error {
	if !authz.CanAdminister(identity) {
		return ErrPermissionDenied
	}

	if _, err := s.userRepo.FindByID(targetUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	return s.userRepo.SetAdmin(targetUserID)
}

// Get returns an account visible to the acting identity (self or admin).
func (s *AccountService) Get(identity authz.Identity, targetUserID uint64) (*models.User, error) {
	if !authz.CanReadUser(identity, targetUserID) {
		return nil, ErrPermissionDenied
	}

	user, err := s.userRepo.FindByID(targetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// List returns every account. Admin-gated; feeds the admin panel and CLIs.
func (s *AccountService) List(identity authz.Identity) ([]models.User, error) {
	if !authz.CanAdminister(identity) {
		return nil, ErrPermissionDenied
	}

	users, err := s.userRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

// Bootstrap creates the default administrator when no account with the
// bootstrap username exists yet. The well-known initial password is a
// deliberate, documented weakness; it is logged loudly so the operator
// changes it instead of silently relying on it. Returns whether an account
// was created.
func (s *AccountService) Bootstrap() (bool, error) {
	if _, err := s.userRepo.FindByUsername(constants.BootstrapAdminUsername); err == nil {
		return false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("failed to check for bootstrap admin: %w", err)
	}

	hash, err := HashPassword(constants.BootstrapAdminPassword)
	if err != nil {
		return false, err
	}

	admin := &models.User{
		Username:     constants.BootstrapAdminUsername,
		PasswordHash: hash,
		IsAdmin:      true,
	}

	if err := s.userRepo.Create(admin); err != nil {
		return false, fmt.Errorf("failed to create bootstrap admin: %w", err)
	}

	logrus.Warnf("Default admin account created (username %q) with the well-known initial password. Change it immediately.",
		constants.BootstrapAdminUsername)

	return true, nil
}
