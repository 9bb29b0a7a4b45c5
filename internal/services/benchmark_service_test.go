package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBenchmarkService_SetAndClear(t *testing.T) {
	env := setupTestEnv(t)
	user := env.createUser(t, "alice", "supersecret", false)
	m := env.createMeasurement(t, user.ID, time.Now())

	require.NoError(t, env.benchmarks.Set(identityFor(user), m.ID))

	reloaded, err := env.userRepo.FindByID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.BenchmarkMeasurementID)
	require.Equal(t, m.ID, *reloaded.BenchmarkMeasurementID)

	require.NoError(t, env.benchmarks.Clear(identityFor(user)))
	reloaded, err = env.userRepo.FindByID(user.ID)
	require.NoError(t, err)
	require.Nil(t, reloaded.BenchmarkMeasurementID)

	// Clear is idempotent.
	require.NoError(t, env.benchmarks.Clear(identityFor(user)))
}

func TestBenchmarkService_Set_RejectsForeignMeasurement(t *testing.T) {
	env := setupTestEnv(t)
	user := env.createUser(t, "alice", "supersecret", false)
	other := env.createUser(t, "bob", "supersecret", false)
	m := env.createMeasurement(t, user.ID, time.Now())

	err := env.benchmarks.Set(identityFor(other), m.ID)
	require.ErrorIs(t, err, ErrMeasurementNotFound)

	reloaded, err := env.userRepo.FindByID(other.ID)
	require.NoError(t, err)
	require.Nil(t, reloaded.BenchmarkMeasurementID)
}

func TestBenchmarkService_Set_NoAdminOverride(t *testing.T) {
	env := setupTestEnv(t)
	admin := env.createUser(t, "admin", "supersecret", true)
	user := env.createUser(t, "alice", "supersecret", false)
	m := env.createMeasurement(t, user.ID, time.Now())

	// A benchmark is personal: even an admin may only point at their own rows.
	err := env.benchmarks.Set(identityFor(admin), m.ID)
	require.ErrorIs(t, err, ErrMeasurementNotFound)
}

func TestBenchmarkService_Set_DeletedMeasurement(t *testing.T) {
	env := setupTestEnv(t)
	user := env.createUser(t, "alice", "supersecret", false)
	m := env.createMeasurement(t, user.ID, time.Now())

	require.NoError(t, env.measurements.Delete(identityFor(user), m.ID))

	err := env.benchmarks.Set(identityFor(user), m.ID)
	require.ErrorIs(t, err, ErrMeasurementNotFound)

	reloaded, err := env.userRepo.FindByID(user.ID)
	require.NoError(t, err)
	require.Nil(t, reloaded.BenchmarkMeasurementID)
}

func TestBenchmarkService_Set_UnknownMeasurement(t *testing.T) {
	env := setupTestEnv(t)
	user := env.createUser(t, "alice", "supersecret", false)

	err := env.benchmarks.Set(identityFor(user), 9999)
	require.ErrorIs(t, err, ErrMeasurementNotFound)
}
