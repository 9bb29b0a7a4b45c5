package models

import "time"

type User struct {
	ID           uint64 `gorm:"primarykey" json:"id"`
	Username     string `gorm:"type:varchar(80);uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	IsAdmin      bool   `gorm:"not null;default:false" json:"is_admin"`

	// BenchmarkMeasurementID points to one of this user's own measurements,
	// used as the comparison baseline. Nil means no benchmark is set. It must
	// never reference a measurement owned by another user or a deleted row.
	BenchmarkMeasurementID *uint64 `json:"benchmark_measurement_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Measurements []Measurement `gorm:"foreignKey:UserID" json:"-"`
}
