package models

import "time"

// Measurement is a single body-composition reading. UserID is immutable after
// creation; there is no update operation, corrections are delete-and-recreate.
type Measurement struct {
	ID     uint64 `gorm:"primarykey" json:"id"`
	UserID uint64 `gorm:"not null;index" json:"user_id"`

	// Timestamp is the point in time the measurement represents, which may be
	// back-dated. It defaults to the creation time when not supplied.
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`

	Weight             float64 `gorm:"not null" json:"weight"`
	BMI                float64 `gorm:"column:bmi;not null" json:"bmi"`
	BodyFatPercentage  float64 `gorm:"not null" json:"body_fat_percentage"`
	VisceralFatIndex   float64 `gorm:"not null" json:"visceral_fat_index"`
	LeanMassPercentage float64 `gorm:"not null" json:"lean_mass_percentage"`

	// Circumferences are optional. Nil means "not recorded", which is distinct
	// from a recorded value of zero.
	WaistCircumference *float64 `json:"waist_circumference"`
	HipCircumference   *float64 `json:"hip_circumference"`
	BicepCircumference *float64 `json:"bicep_circumference"`
	ThighCircumference *float64 `json:"thigh_circumference"`
	ChestCircumference *float64 `json:"chest_circumference"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
