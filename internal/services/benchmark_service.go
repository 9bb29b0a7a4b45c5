package services

import (
	"fmt"

	"github.com/mtakagi/body-tracker-api/internal/authz"
	"github.com/mtakagi/body-tracker-api/internal/repository"
)

// BenchmarkService manages the per-user benchmark pointer. Together with the
// clearing done by measurement deletion, these are the only two writers of
// the pointer, and both keep the invariant "absent, or references a
// measurement owned by this user".
type BenchmarkService struct {
	userRepo repository.UserRepository
}

// NewBenchmarkService creates a new BenchmarkService.
func NewBenchmarkService(userRepo repository.UserRepository) *BenchmarkService {
	return &BenchmarkService{
		userRepo: userRepo,
	}
}

// Set points the acting user's benchmark at one of their own measurements.
// Ownership is verified by the same statement that writes the pointer, so a
// measurement deleted concurrently can never end up referenced. Measurements
// owned by anyone else report ErrMeasurementNotFound, the same as a missing
// id, so existence is not confirmed to non-owners. Admins get no override
// here; a benchmark is personal to the owner.
func (s *BenchmarkService) Set(identity authz.Identity, measurementID uint64) error {
	ok, err := s.userRepo.SetBenchmarkIfOwned(identity.UserID, measurementID)
	if err != nil {
		return fmt.Errorf("failed to set benchmark: %w", err)
	}
	if !ok {
		return ErrMeasurementNotFound
	}
	return nil
}

// Clear removes the acting user's benchmark pointer. Idempotent.
func (s *BenchmarkService) Clear(identity authz.Identity) error {
	return s.userRepo.SetBenchmark(identity.UserID, nil)
}
