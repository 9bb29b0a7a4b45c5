package dto

import (
	"github.com/mtakagi/body-tracker-api/internal/models"
)

// UserDTO represents a user in API responses. The benchmark pointer is null
// when no benchmark is set.
type UserDTO struct {
	ID                     uint64  `json:"id"`
	Username               string  `json:"username"`
	IsAdmin                bool    `json:"is_admin"`
	BenchmarkMeasurementID *uint64 `json:"benchmark_measurement_id"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:                     user.ID,
		Username:               user.Username,
		IsAdmin:                user.IsAdmin,
		BenchmarkMeasurementID: user.BenchmarkMeasurementID,
	}
}

// ToUserDTOs converts a slice of User models
func ToUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = ToUserDTO(u)
	}
	return dtos
}
