package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	configs "github.com/platewatch/api/config"
	"github.com/platewatch/api/internal/handler"
	"github.com/platewatch/api/internal/middleware"
	"github.com/platewatch/api/internal/oauth"
	"github.com/platewatch/api/internal/repository"
	"github.com/platewatch/api/internal/router"
	"github.com/platewatch/api/internal/service"
	"github.com/platewatch/api/pkg/database"
	"github.com/platewatch/api/pkg/logger"
	"github.com/platewatch/api/pkg/mailer"
	"github.com/platewatch/api/pkg/redis"
	"github.com/platewatch/api/pkg/storage"
	"go.uber.org/zap"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
	)

	db, err := database.NewPostgresDB(database.Config{
		Host:            config.Database.Host,
		Port:            config.Database.Port,
		User:            config.Database.User,
		Password:        config.Database.Password,
		Database:        config.Database.Name,
		SSLMode:         config.Database.SSLMode,
		MaxIdleConns:    config.Database.MaxIdleConns,
		MaxOpenConns:    config.Database.MaxOpenConns,
		ConnMaxLifetime: config.Database.ConnMaxLifetime,
		ConnMaxIdleTime: config.Database.ConnMaxIdleTime,
	})
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	redisClient, err := redis.NewClient(redis.Config{
		Host:         config.Redis.Host,
		Port:         config.Redis.Port,
		Password:     config.Redis.Password,
		DB:           config.Redis.Database,
		PoolSize:     config.Redis.PoolSize,
		MinIdleConns: config.Redis.MinIdleConns,
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
		PoolTimeout:  config.Redis.PoolTimeout,
	}, logger.GetLogger())
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	objectStorage, err := storage.NewS3Store(startupCtx, storage.Config{
		Endpoint:      config.Storage.Endpoint,
		Region:        config.Storage.Region,
		Bucket:        config.Storage.Bucket,
		AccessKey:     config.Storage.AccessKey,
		SecretKey:     config.Storage.SecretKey,
		PublicBaseURL: config.Storage.PublicBaseURL,
	}, logger.GetLogger())
	if err != nil {
		logger.GetLogger().Fatal("Failed to initialize object storage", zap.Error(err))
	}

	smtpMailer, err := mailer.NewSMTPMailer(mailer.Config{
		Host:     config.Mail.Host,
		Port:     config.Mail.Port,
		User:     config.Mail.User,
		Password: config.Mail.Password,
		From:     config.Mail.From,
	}, logger.GetLogger())
	if err != nil {
		logger.GetLogger().Fatal("Failed to initialize mailer", zap.Error(err))
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	carRepo := repository.NewCarRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// Services
	tokenService := service.NewTokenService(config.JWT)
	authService := service.NewAuthService(
		userRepo,
		carRepo,
		tokenService,
		oauth.NewGoogleVerifier(config.OAuth.GoogleClientID),
		oauth.NewFacebookVerifier(config.OAuth.FacebookAppSecret),
		smtpMailer,
		config.Mail.ResetLinkURL,
	)
	carService := service.NewCarService(carRepo)
	reportService := service.NewReportService(reportRepo, carRepo, userRepo, redisClient, objectStorage)
	userService := service.NewUserService(userRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	carHandler := handler.NewCarHandler(carService)
	reportHandler := handler.NewReportHandler(reportService, objectStorage)
	userHandler := handler.NewUserHandler(userService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	jwtMiddleware := middleware.NewJWTMiddleware(tokenService)

	r := router.NewRouter(
		authHandler,
		carHandler,
		reportHandler,
		userHandler,
		healthHandler,

		jwtMiddleware,
		config,
	).SetupRoutes()

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
			zap.String("host", "0.0.0.0"),
		)
		if err := r.Run(":" + config.App.Port); err != nil {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")
}
