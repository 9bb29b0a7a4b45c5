package dto

import (
	"time"

	"github.com/mtakagi/body-tracker-api/internal/models"
)

// MeasurementDTO represents a measurement in API responses. Timestamps
// marshal as RFC 3339. Optional circumferences marshal as explicit null when
// not recorded; null and 0 are different values and survive a round trip.
type MeasurementDTO struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`

	Weight             float64 `json:"weight"`
	BMI                float64 `json:"bmi"`
	BodyFatPercentage  float64 `json:"body_fat_percentage"`
	VisceralFatIndex   float64 `json:"visceral_fat_index"`
	LeanMassPercentage float64 `json:"lean_mass_percentage"`

	WaistCircumference *float64 `json:"waist_circumference"`
	HipCircumference   *float64 `json:"hip_circumference"`
	BicepCircumference *float64 `json:"bicep_circumference"`
	ThighCircumference *float64 `json:"thigh_circumference"`
	ChestCircumference *float64 `json:"chest_circumference"`
}

// MeasurementListResponse represents a user's measurement history. Pagination
// metadata is present only when the client requested a page.
type MeasurementListResponse struct {
	Measurements []MeasurementDTO `json:"measurements"`
	Total        int64            `json:"total"`
}

// ToMeasurementDTO converts a Measurement model to MeasurementDTO
func ToMeasurementDTO(m models.Measurement) MeasurementDTO {
	return MeasurementDTO{
		ID:                 m.ID,
		UserID:             m.UserID,
		Timestamp:          m.Timestamp,
		Weight:             m.Weight,
		BMI:                m.BMI,
		BodyFatPercentage:  m.BodyFatPercentage,
		VisceralFatIndex:   m.VisceralFatIndex,
		LeanMassPercentage: m.LeanMassPercentage,
		WaistCircumference: m.WaistCircumference,
		HipCircumference:   m.HipCircumference,
		BicepCircumference: m.BicepCircumference,
		ThighCircumference: m.ThighCircumference,
		ChestCircumference: m.ChestCircumference,
	}
}

// ToMeasurementDTOs converts a slice of Measurement models
func ToMeasurementDTOs(measurements []models.Measurement) []MeasurementDTO {
	dtos := make([]MeasurementDTO, len(measurements))
	for i, m := range measurements {
		dtos[i] = ToMeasurementDTO(m)
	}
	return dtos
}
