package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mtakagi/body-tracker-api/internal/authz"
	"github.com/mtakagi/body-tracker-api/internal/models"
	"github.com/mtakagi/body-tracker-api/internal/repository"
)

var (
	ErrMeasurementNotFound = errors.New("measurement not found")
	ErrPermissionDenied    = errors.New("permission denied")
)

// ValidationError reports which measurement fields were missing or not finite
// numbers. The caller is expected to resubmit.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid measurement fields: " + strings.Join(e.Fields, ", ")
}

// MeasurementService handles measurement business logic.
type MeasurementService struct {
	measurementRepo repository.MeasurementRepository
	userRepo        repository.UserRepository
}

// NewMeasurementService creates a new MeasurementService.
func NewMeasurementService(measurementRepo repository.MeasurementRepository, userRepo repository.UserRepository) *MeasurementService {
	return &MeasurementService{
		measurementRepo: measurementRepo,
		userRepo:        userRepo,
	}
}

// CreateMeasurementInput carries a new measurement. Required fields are
// pointers so that "missing" is detectable and reported by name; optional
// circumferences stay nil when not recorded.
type CreateMeasurementInput struct {
	Timestamp *time.Time

	Weight             *float64
	BMI                *float64
	BodyFatPercentage  *float64
	VisceralFatIndex   *float64
	LeanMassPercentage *float64

	WaistCircumference *float64
	HipCircumference   *float64
	BicepCircumference *float64
	ThighCircumference *float64
	ChestCircumference *float64
}

func (in *CreateMeasurementInput) validate() error {
	var bad []string

	required := []struct {
		name  string
		value *float64
	}{
		{"weight", in.Weight},
		{"bmi", in.BMI},
		{"body_fat_percentage", in.BodyFatPercentage},
		{"visceral_fat_index", in.VisceralFatIndex},
		{"lean_mass_percentage", in.LeanMassPercentage},
	}
	for _, f := range required {
		if f.value == nil || !isFinite(*f.value) {
			bad = append(bad, f.name)
		}
	}

	optional := []struct {
		name  string
		value *float64
	}{
		{"waist_circumference", in.WaistCircumference},
		{"hip_circumference", in.HipCircumference},
		{"bicep_circumference", in.BicepCircumference},
		{"thigh_circumference", in.ThighCircumference},
		{"chest_circumference", in.ChestCircumference},
	}
	for _, f := range optional {
		if f.value != nil && !isFinite(*f.value) {
			bad = append(bad, f.name)
		}
	}

	if len(bad) > 0 {
		return &ValidationError{Fields: bad}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Create records a measurement for targetUserID. The owner may record their
// own; an admin may record on anyone's behalf, including back-dated entries
// via an explicit timestamp. The timestamp defaults to now when absent.
func (s *MeasurementService) Create(identity authz.Identity, targetUserID uint64, input CreateMeasurementInput) (*models.Measurement, error) {
	if !authz.CanReadUser(identity, targetUserID) {
		return nil, ErrPermissionDenied
	}

	if _, err := s.userRepo.FindByID(targetUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := input.validate(); err != nil {
		return nil, err
	}

	timestamp := time.Now()
	if input.Timestamp != nil {
		timestamp = *input.Timestamp
	}

	m := &models.Measurement{
		UserID:             targetUserID,
		Timestamp:          timestamp,
		Weight:             *input.Weight,
		BMI:                *input.BMI,
		BodyFatPercentage:  *input.BodyFatPercentage,
		VisceralFatIndex:   *input.VisceralFatIndex,
		LeanMassPercentage: *input.LeanMassPercentage,
		WaistCircumference: input.WaistCircumference,
		HipCircumference:   input.HipCircumference,
		BicepCircumference: input.BicepCircumference,
		ThighCircumference: input.ThighCircumference,
		ChestCircumference: input.ChestCircumference,
	}

	if err := s.measurementRepo.Create(m); err != nil {
		return nil, fmt.Errorf("failed to create measurement: %w", err)
	}

	return m, nil
}

// ListInput holds listing options for a user's measurement history.
type ListInput struct {
	Order    repository.SortOrder
	Page     int
	PageSize int
}

// List returns targetUserID's measurements ordered by (timestamp, id) in the
// requested direction. Only the owner and admins may read.
func (s *MeasurementService) List(identity authz.Identity, targetUserID uint64, input ListInput) ([]models.Measurement, int64, error) {
	if !authz.CanReadUser(identity, targetUserID) {
		return nil, 0, ErrPermissionDenied
	}

	if _, err := s.userRepo.FindByID(targetUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrUserNotFound
		}
		return nil, 0, fmt.Errorf("failed to find user: %w", err)
	}

	measurements, total, err := s.measurementRepo.ListForUser(repository.MeasurementFilter{
		UserID:   targetUserID,
		Order:    input.Order,
		Page:     input.Page,
		PageSize: input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list measurements: %w", err)
	}

	return measurements, total, nil
}

// Get returns a single measurement. Identities without access get
// ErrMeasurementNotFound, never a denial that confirms the row exists.
func (s *MeasurementService) Get(identity authz.Identity, measurementID uint64) (*models.Measurement, error) {
	m, err := s.measurementRepo.FindByID(measurementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMeasurementNotFound
		}
		return nil, fmt.Errorf("failed to find measurement: %w", err)
	}

	if !authz.CanMutateMeasurement(identity, *m) {
		return nil, ErrMeasurementNotFound
	}

	return m, nil
}

// Delete removes a measurement. The repository clears the owner's benchmark
// pointer in the same transaction when it references the deleted row. There
// is no update operation; correction is delete-and-recreate.
func (s *MeasurementService) Delete(identity authz.Identity, measurementID uint64) error {
	m, err := s.measurementRepo.FindByID(measurementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMeasurementNotFound
		}
		return fmt.Errorf("failed to find measurement: %w", err)
	}

	if !authz.CanMutateMeasurement(identity, *m) {
		return ErrMeasurementNotFound
	}

	if err := s.measurementRepo.Delete(m); err != nil {
		return fmt.Errorf("failed to delete measurement: %w", err)
	}

	return nil
}
