package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mtakagi/body-tracker-api/internal/models"
)

var (
	// ErrDeleteMeasurements is returned when removing owned measurements fails
	// inside the cascade-delete transaction.
	ErrDeleteMeasurements = errors.New("user repository: delete owned measurements failed")
	// ErrDeleteUser is returned when removing the user row fails inside the
	// cascade-delete transaction.
	ErrDeleteUser = errors.New("user repository: delete user failed")
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by exact username match
func (r *GormUserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns all users ordered by username
func (r *GormUserRepository) List() ([]models.User, error) {
	var users []models.User
	if err := r.db.Order("username ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdatePasswordHash replaces the stored credential hash
func (r *GormUserRepository) UpdatePasswordHash(userID uint64, hash string) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("password_hash", hash).Error
}

// SetAdmin grants the admin role
func (r *GormUserRepository) SetAdmin(userID uint64) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("is_admin", true).Error
}

// SetBenchmark writes the benchmark pointer; nil clears it
func (r *GormUserRepository) SetBenchmark(userID uint64, measurementID *uint64) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("benchmark_measurement_id", measurementID).Error
}

// SetBenchmarkIfOwned points the benchmark at measurementID only when that
// measurement exists and belongs to userID. The ownership check lives in the
// UPDATE itself, so a measurement deleted concurrently can never end up
// referenced by the pointer.
func (r *GormUserRepository) SetBenchmarkIfOwned(userID, measurementID uint64) (bool, error) {
	res := r.db.Model(&models.User{}).
		Where("id = ? AND EXISTS (SELECT 1 FROM measurements WHERE measurements.id = ? AND measurements.user_id = ?)",
			userID, measurementID, userID).
		Update("benchmark_measurement_id", measurementID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteWithMeasurements removes the user and all owned measurements
// atomically. Either both deletes land or neither does; no orphaned
// measurement row may survive the user.
func (r *GormUserRepository) DeleteWithMeasurements(userID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Measurement{}).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrDeleteMeasurements, err)
		}

		if err := tx.Delete(&models.User{}, userID).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrDeleteUser, err)
		}

		return nil
	})
}
