package main

import (
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mtakagi/body-tracker-api/internal/config"
	"github.com/mtakagi/body-tracker-api/internal/constants"
	"github.com/mtakagi/body-tracker-api/internal/database"
	"github.com/mtakagi/body-tracker-api/internal/handlers"
	"github.com/mtakagi/body-tracker-api/internal/importer"
	"github.com/mtakagi/body-tracker-api/internal/middleware"
	"github.com/mtakagi/body-tracker-api/internal/repository"
	"github.com/mtakagi/body-tracker-api/internal/services"
)

func main() {
	cfg := config.Load()

	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}

	db := database.GetDB()
	if err := database.Migrate(db); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.AddIndexes(db); err != nil {
		logrus.Fatalf("Failed to create indexes: %v", err)
	}
	if err := database.EnforceUsernameCollation(db); err != nil {
		logrus.Fatalf("Failed to enforce username collation: %v", err)
	}

	// Repositories and services
	userRepo := repository.NewUserRepository(db)
	measurementRepo := repository.NewMeasurementRepository(db)

	authService := services.NewAuthService(userRepo)
	accountService := services.NewAccountService(userRepo)
	measurementService := services.NewMeasurementService(measurementRepo, userRepo)
	benchmarkService := services.NewBenchmarkService(userRepo)
	importService := importer.NewService(measurementService)

	// Default admin on an empty store; logs a warning when it fires.
	if _, err := accountService.Bootstrap(); err != nil {
		logrus.Fatalf("Failed to bootstrap admin account: %v", err)
	}

	r := gin.Default()

	// Session middleware backed by Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,
		"tcp",
		redisAddr,
		"",
		"",
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		logrus.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	measurementHandler := handlers.NewMeasurementHandler(measurementService)
	benchmarkHandler := handlers.NewBenchmarkHandler(benchmarkService)
	adminHandler := handlers.NewAdminHandler(accountService, measurementService, importService)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Body Tracker API is running",
		})
	})

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

	logrus.Infof("Server starting on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}
}
