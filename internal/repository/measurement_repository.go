package repository

import (
	"gorm.io/gorm"

	"github.com/mtakagi/body-tracker-api/internal/database"
	"github.com/mtakagi/body-tracker-api/internal/models"
	"github.com/mtakagi/body-tracker-api/internal/utils"
)

// GormMeasurementRepository is a GORM implementation of MeasurementRepository
type GormMeasurementRepository struct {
	db *gorm.DB
}

// NewMeasurementRepository creates a new MeasurementRepository
func NewMeasurementRepository(db *gorm.DB) MeasurementRepository {
	return &GormMeasurementRepository{db: db}
}

// Create creates a new measurement
func (r *GormMeasurementRepository) Create(m *models.Measurement) error {
	return r.db.Create(m).Error
}

// FindByID finds a measurement by ID
func (r *GormMeasurementRepository) FindByID(id uint64) (*models.Measurement, error) {
	var m models.Measurement
	if err := r.db.First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// ListForUser returns measurements owned by filter.UserID with the total
// count. Ordering is by timestamp in the requested direction; ties are broken
// by id ascending in both directions.
func (r *GormMeasurementRepository) ListForUser(filter MeasurementFilter) ([]models.Measurement, int64, error) {
	query := r.db.Model(&models.Measurement{}).Where("user_id = ?", filter.UserID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Order == SortDesc {
		query = query.Order("timestamp DESC, id ASC")
	} else {
		query = query.Order("timestamp ASC, id ASC")
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Scopes(database.Paginate(utils.PaginationParams{
			Offset: (filter.Page - 1) * filter.PageSize,
			Limit:  filter.PageSize,
		}))
	}

	var measurements []models.Measurement
	if err := query.Find(&measurements).Error; err != nil {
		return nil, 0, err
	}

	return measurements, total, nil
}

// Delete removes the measurement and keeps the owner's benchmark pointer
// consistent in the same transaction: when the deleted row is the current
// benchmark, the pointer is cleared. A dangling benchmark reference is a
// data-integrity violation.
func (r *GormMeasurementRepository) Delete(m *models.Measurement) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Measurement{}, m.ID).Error; err != nil {
			return err
		}

		return tx.Model(&models.User{}).
			Where("id = ? AND benchmark_measurement_id = ?", m.UserID, m.ID).
			Update("benchmark_measurement_id", nil).Error
	})
}
