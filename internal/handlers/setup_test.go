package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mtakagi/body-tracker-api/internal/constants"
	"github.com/mtakagi/body-tracker-api/internal/importer"
	"github.com/mtakagi/body-tracker-api/internal/middleware"
	"github.com/mtakagi/body-tracker-api/internal/models"
	"github.com/mtakagi/body-tracker-api/internal/repository"
	"github.com/mtakagi/body-tracker-api/internal/services"
)

type handlerTestEnv struct {
	db       *gorm.DB
	router   *gin.Engine
	userRepo repository.UserRepository
}

// setupHandlerTestEnv wires the full route table against an in-memory
// database with a cookie session store.
func setupHandlerTestEnv(t *testing.T) handlerTestEnv {
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

	authService := services.NewAuthService(userRepo)
	accountService := services.NewAccountService(userRepo)
	measurementService := services.NewMeasurementService(measurementRepo, userRepo)
	benchmarkService := services.NewBenchmarkService(userRepo)
	importService := importer.NewService(measurementService)

	authHandler := NewAuthHandler(authService)
	measurementHandler := NewMeasurementHandler(measurementService)
	benchmarkHandler := NewBenchmarkHandler(benchmarkService)
	adminHandler := NewAdminHandler(accountService, measurementService, importService)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
			auth.POST("/change-password", middleware.RequireAuth(), authHandler.ChangePassword)
		}

		users := api.Group("/users")
		users.Use(middleware.RequireAuth())
		{
			users.GET("/:id/measurements", measurementHandler.ListForUser)
			users.POST("/:id/measurements", measurementHandler.CreateForUser)
		}

		measurements := api.Group("/measurements")
		measurements.Use(middleware.RequireAuth())
		{
			measurements.GET("/:id", measurementHandler.Get)
			measurements.DELETE("/:id", measurementHandler.Delete)
		}

		benchmark := api.Group("/benchmark")
		benchmark.Use(middleware.RequireAuth())
		{
			benchmark.PUT("/:measurement_id", benchmarkHandler.Set)
			benchmark.DELETE("", benchmarkHandler.Clear)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.RequireAuth(), middleware.RequireAdmin())
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.POST("/users", adminHandler.CreateUser)
			admin.GET("/users/:id", adminHandler.GetUser)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)
			admin.POST("/users/:id/promote", adminHandler.PromoteUser)
			admin.POST("/users/:id/import", adminHandler.ImportMeasurements)
		}
	}

	return handlerTestEnv{
		db:       db,
		router:   r,
		userRepo: userRepo,
	}
}

func (env handlerTestEnv) createUser(t *testing.T, username, password string, isAdmin bool) *models.User {
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

// login performs a real login request and returns the session cookies.
func (env handlerTestEnv) login(t *testing.T, username, password string) []*http.Cookie {
	t.Helper()

	w := env.doJSON(t, http.MethodPost, "/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "expected session cookie to be set")
	return cookies
}

func (env handlerTestEnv) doJSON(t *testing.T, method, path string, payload interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}
