package services

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mtakagi/body-tracker-api/internal/models"
	"github.com/mtakagi/body-tracker-api/internal/repository"
)

func TestMeasurementService_Create_DefaultsTimestamp(t *testing.T) {
	env := setupTestEnv(t)
	user := env.createUser(t, "alice", "supersecret", false)

	before := time.Now()
	m, err := env.measurements.Create(identityFor(user), user.ID, CreateMeasurementInput{
		Weight:             ptr(82.5),
		BMI:                ptr(24.1),
		BodyFatPercentage:  ptr(19.8),
		VisceralFatIndex:   ptr(7.0),
		LeanMassPercentage: ptr(76.2),
	})
	require.NoError(t, err)
	require.False(t, m.Timestamp.Before(before))
	require.Nil(t, m.WaistCircumference)
}

func TestMeasurementService_Create_MissingRequiredFields(t *testing.T) {
	env := setupTestEnv(t)
	user := env.createUser(t, "alice", "supersecret", false)

	_, err := env.measurements.Create(identityFor(user), user.ID, CreateMeasurementInput{
		Weight: ptr(82.5),
		BMI:    ptr(24.1),
	})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.ElementsMatch(t,
		[]string{"body_fat_percentage", "visceral_fat_index", "lean_mass_percentage"},
		validationErr.Fields,
	)
}

func TestMeasurementService_Create_NonFiniteValues(t *testing.T) {
	env := setupTestEnv(t)
	user := env.createUser(t, "alice", "supersecret", false)

	_, err := env.measurements.Create(identityFor(user), user.ID, CreateMeasurementInput{
		Weight:             ptr(math.NaN()),
		BMI:                ptr(24.1),
		BodyFatPercentage:  ptr(19.8),
		VisceralFatIndex:   ptr(math.Inf(1)),
		LeanMassPercentage: ptr(76.2),
		WaistCircumference: ptr(math.Inf(-1)),
	})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.ElementsMatch(t,
		[]string{"weight", "visceral_fat_index", "waist_circumference"},
		validationErr.Fields,
	)
}

func TestMeasurementService_Create_AdminOnBehalf(t *testing.T) {
	env := setupTestEnv(t)
	admin := env.createUser(t, "admin", "supersecret", true)
	user := env.createUser(t, "alice", "supersecret", false)

	backdated := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	m, err := env.measurements.Create(identityFor(admin), user.ID, CreateMeasurementInput{
		Timestamp:          &backdated,
		Weight:             ptr(82.5),
		BMI:                ptr(24.1),
		BodyFatPercentage:  ptr(19.8),
		VisceralFatIndex:   ptr(7.0),
		LeanMassPercentage: ptr(76.2),
	})
	require.NoError(t, err)
	require.Equal(t, user.ID, m.UserID)
	require.True(t, m.Timestamp.Equal(backdated))
}

func TestMeasurementService_Create_DeniedForOtherUser(t *testing.T) {
	env := setupTestEnv(t)
	user := env.createUser(t, "alice", "supersecret", false)
	other := env.createUser(t, "bob", "supersecret", false)

	_, err := env.measurements.Create(identityFor(other), user.ID, CreateMeasurementInput{
		Weight:             ptr(82.5),
		BMI:                ptr(24.1),
		BodyFatPercentage:  ptr(19.8),
		VisceralFatIndex:   ptr(7.0),
		LeanMassPercentage: ptr(76.2),
	})
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestMeasurementService_List_StableOrdering(t *testing.T) {
	env := setupTestEnv(t)
	user := env.createUser(t, "alice", "supersecret", false)

	base := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	first := env.createMeasurement(t, user.ID, base)
	second := env.createMeasurement(t, user.ID, base) // same timestamp, later id
	third := env.createMeasurement(t, user.ID, base.Add(24*time.Hour))

	asc, total, err := env.measurements.List(identityFor(user), user.ID, ListInput{Order: repository.SortAsc})
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Equal(t, []uint64{first.ID, second.ID, third.ID}, ids(asc))

	desc, _, err := env.measurements.List(identityFor(user), user.ID, ListInput{Order: repository.SortDesc})
	require.NoError(t, err)
	// Ties keep id ascending in both directions.
	require.Equal(t, []uint64{third.ID, first.ID, second.ID}, ids(desc))
}

func TestMeasurementService_List_Authorization(t *testing.T) {
	env := setupTestEnv(t)
	admin := env.createUser(t, "admin", "supersecret", true)
	user := env.createUser(t, "alice", "supersecret", false)
	other := env.createUser(t, "bob", "supersecret", false)
	env.createMeasurement(t, user.ID, time.Now())

	_, _, err := env.measurements.List(identityFor(other), user.ID, ListInput{Order: repository.SortAsc})
	require.ErrorIs(t, err, ErrPermissionDenied)

	fromAdmin, _, err := env.measurements.List(identityFor(admin), user.ID, ListInput{Order: repository.SortAsc})
	require.NoError(t, err)
	require.Len(t, fromAdmin, 1)

	_, _, err = env.measurements.List(identityFor(admin), 9999, ListInput{Order: repository.SortAsc})
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestMeasurementService_Delete_ClearsBenchmark(t *testing.T) {
	env := setupTestEnv(t)
	user := env.createUser(t, "alice", "supersecret", false)

	benchmark := env.createMeasurement(t, user.ID, time.Now().Add(-48*time.Hour))
	latest := env.createMeasurement(t, user.ID, time.Now())

	require.NoError(t, env.benchmarks.Set(identityFor(user), benchmark.ID))

	// Deleting a non-benchmark measurement leaves the pointer untouched.
	require.NoError(t, env.measurements.Delete(identityFor(user), latest.ID))
	reloaded, err := env.userRepo.FindByID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.BenchmarkMeasurementID)
	require.Equal(t, benchmark.ID, *reloaded.BenchmarkMeasurementID)

	// Deleting the benchmark clears the pointer in the same transaction.
	require.NoError(t, env.measurements.Delete(identityFor(user), benchmark.ID))
	reloaded, err = env.userRepo.FindByID(user.ID)
	require.NoError(t, err)
	require.Nil(t, reloaded.BenchmarkMeasurementID)
}

func TestMeasurementService_Delete_HidesExistenceFromStrangers(t *testing.T) {
	env := setupTestEnv(t)
	user := env.createUser(t, "alice", "supersecret", false)
	other := env.createUser(t, "bob", "supersecret", false)
	m := env.createMeasurement(t, user.ID, time.Now())

	err := env.measurements.Delete(identityFor(other), m.ID)
	require.ErrorIs(t, err, ErrMeasurementNotFound)

	err = env.measurements.Delete(identityFor(other), 9999)
	require.ErrorIs(t, err, ErrMeasurementNotFound)

	// The row is still there for the owner.
	_, err = env.measurements.Get(identityFor(user), m.ID)
	require.NoError(t, err)
}

func TestMeasurementService_Delete_AdminOverride(t *testing.T) {
	env := setupTestEnv(t)
	admin := env.createUser(t, "admin", "supersecret", true)
	user := env.createUser(t, "alice", "supersecret", false)
	m := env.createMeasurement(t, user.ID, time.Now())

	require.NoError(t, env.measurements.Delete(identityFor(admin), m.ID))

	var count int64
	require.NoError(t, env.db.Model(&models.Measurement{}).Where("id = ?", m.ID).Count(&count).Error)
	require.Zero(t, count)
}

func ids(measurements []models.Measurement) []uint64 {
	out := make([]uint64, len(measurements))
	for i, m := range measurements {
		out[i] = m.ID
	}
	return out
}
