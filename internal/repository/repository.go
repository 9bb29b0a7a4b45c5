package repository

import (
	"github.com/mtakagi/body-tracker-api/internal/models"
)

// SortOrder selects the timestamp direction for measurement listings.
// Ties on timestamp are always broken by id ascending so consumers agree
// on the sequence regardless of direction.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// MeasurementFilter holds listing options for measurements.
type MeasurementFilter struct {
	UserID uint64
	Order  SortOrder

	// Page/PageSize of zero disables pagination and returns the full history.
	Page     int
	PageSize int
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by exact, case-sensitive username
	FindByUsername(username string) (*models.User, error)

	// List returns all users ordered by username
	List() ([]models.User, error)

	// UpdatePasswordHash replaces the stored credential hash
	UpdatePasswordHash(userID uint64, hash string) error

	// SetAdmin grants the admin role; idempotent
	SetAdmin(userID uint64) error

	// SetBenchmark writes the benchmark pointer; nil clears it
	SetBenchmark(userID uint64, measurementID *uint64) error

	// SetBenchmarkIfOwned points the benchmark at measurementID only when
	// that measurement exists and belongs to userID, reporting whether the
	// write landed. Check and write are one statement
	SetBenchmarkIfOwned(userID, measurementID uint64) (bool, error)

	// DeleteWithMeasurements removes the user and every measurement they own
	// in a single transaction
	DeleteWithMeasurements(userID uint64) error
}

// MeasurementRepository defines the interface for measurement data access
type MeasurementRepository interface {
	// Create creates a new measurement
	Create(m *models.Measurement) error

	// FindByID finds a measurement by ID
	FindByID(id uint64) (*models.Measurement, error)

	// ListForUser returns measurements owned by filter.UserID, ordered by
	// (timestamp, id), together with the total count
	ListForUser(filter MeasurementFilter) ([]models.Measurement, int64, error)

	// Delete removes the measurement and, in the same transaction, clears the
	// owner's benchmark pointer when it references the deleted row
	Delete(m *models.Measurement) error
}
