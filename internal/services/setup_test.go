package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mtakagi/body-tracker-api/internal/authz"
	"github.com/mtakagi/body-tracker-api/internal/models"
	"github.com/mtakagi/body-tracker-api/internal/repository"
)

type testEnv struct {
	db           *gorm.DB
	userRepo     repository.UserRepository
	measurements *MeasurementService
	benchmarks   *BenchmarkService
	accounts     *AccountService
	auth         *AuthService
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Measurement{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	userRepo := repository.NewUserRepository(db)
	measurementRepo := repository.NewMeasurementRepository(db)

	return testEnv{
		db:           db,
		userRepo:     userRepo,
		measurements: NewMeasurementService(measurementRepo, userRepo),
		benchmarks:   NewBenchmarkService(userRepo),
		accounts:     NewAccountService(userRepo),
		auth:         NewAuthService(userRepo),
	}
}

func (env testEnv) createUser(t *testing.T, username, password string, isAdmin bool) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		IsAdmin:      isAdmin,
	}
	require.NoError(t, env.userRepo.Create(user))
	return user
}

func (env testEnv) createMeasurement(t *testing.T, userID uint64, at time.Time) *models.Measurement {
	t.Helper()

	m, err := env.measurements.Create(identityFor(&models.User{ID: userID}), userID, CreateMeasurementInput{
		Timestamp:          &at,
		Weight:             ptr(82.5),
		BMI:                ptr(24.1),
		BodyFatPercentage:  ptr(19.8),
		VisceralFatIndex:   ptr(7.0),
		LeanMassPercentage: ptr(76.2),
	})
	require.NoError(t, err)
	return m
}

func identityFor(user *models.User) authz.Identity {
	return authz.Identity{
		UserID:   user.ID,
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
	}
}

func ptr(v float64) *float64 {
	return &v
}
