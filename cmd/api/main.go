package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/codetrack/backend/internal/data"
	"github.com/codetrack/backend/internal/handler"
	"github.com/codetrack/backend/internal/infrastructure"
	"github.com/codetrack/backend/internal/judge"
	"github.com/codetrack/backend/internal/middleware"
	"github.com/codetrack/backend/internal/repository"
	"github.com/codetrack/backend/internal/service"
)

func main() {
	// Load configuration
	config := infrastructure.LoadConfig()

	// Initialize logger
	logger, err := infrastructure.NewLogger(config.Server.Environment)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer infrastructure.SyncLogger(logger)

	logger.Info("Starting CodeTrack API",
		zap.String("environment", config.Server.Environment),
		zap.Int("port", config.Server.Port),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize telemetry
	telemetry, err := infrastructure.NewTelemetry(ctx, &config.Telemetry, logger)
	if err != nil {
		logger.Error("Failed to initialize telemetry", zap.Error(err))
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		telemetry.Shutdown(shutdownCtx)
	}()

	metrics, err := telemetry.CreateMetrics()
	if err != nil {
		logger.Error("Failed to create metrics", zap.Error(err))
		os.Exit(1)
	}

	// Initialize PostgreSQL (users and problem catalog)
	database, err := infrastructure.NewDatabase(&config.Database, logger)
	if err != nil {
		logger.Error("Failed to connect to database", zap.Error(err))
		os.Exit(1)
	}
	defer database.Close()

	if err := database.AutoMigrate(); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		os.Exit(1)
	}

	seeder := data.NewSeeder(database.DB, logger)
	if err := seeder.SeedProblems(); err != nil {
		logger.Error("Failed to seed problems", zap.Error(err))
		os.Exit(1)
	}

	// Initialize MongoDB (submission event store)
	mongoStore, err := infrastructure.NewMongo(ctx, &config.Mongo, logger)
	if err != nil {
		logger.Error("Failed to connect to MongoDB", zap.Error(err))
		os.Exit(1)
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		mongoStore.Close(closeCtx)
	}()

	if err := repository.EnsureSubmissionIndexes(ctx, mongoStore.Database); err != nil {
		logger.Error("Failed to create submission indexes", zap.Error(err))
		os.Exit(1)
	}

	// Initialize Redis (optional statistics cache)
	redisClient, err := infrastructure.NewRedis(&config.Redis, logger)
	if err != nil {
		logger.Error("Failed to connect to Redis", zap.Error(err))
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Judge client
	judgeClient := judge.NewClient(&judge.ClientConfig{
		BaseURL: config.Judge.BaseURL,
		APIKey:  config.Judge.APIKey,
		Timeout: config.Judge.Timeout,
	})

	// Initialize repositories
	userRepo := repository.NewUserRepository(database.DB)
	problemRepo := repository.NewProblemRepository(database.DB)
	submissionRepo := repository.NewSubmissionRepository(mongoStore.Database)

	// Initialize services
	userService := service.NewUserService(userRepo, &config.JWT, telemetry.Tracer, logger)
	problemService := service.NewProblemService(problemRepo, telemetry.Tracer, logger)
	statsService := service.NewStatisticsService(
		userRepo, submissionRepo, problemRepo,
		redisClient, config.Redis.StatsTTL,
		metrics, telemetry.Tracer, logger,
	)
	submissionService := service.NewSubmissionService(
		submissionRepo, problemRepo, judgeClient, statsService,
		metrics, telemetry.Tracer, logger,
	)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userService)
	userHandler := handler.NewUserHandler(userService, statsService)
	problemHandler := handler.NewProblemHandler(problemService)
	submissionHandler := handler.NewSubmissionHandler(submissionService)
	leaderboardHandler := handler.NewLeaderboardHandler(statsService)

	// Setup Gin router
	if config.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.CORSMiddleware(middleware.DefaultCORSConfig()))
	router.Use(middleware.TracingMiddleware(telemetry.Tracer))
	router.Use(middleware.MetricsMiddleware(metrics))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database connection failed",
			})
			return
		}
		if err := mongoStore.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "submission store connection failed",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": config.Telemetry.ServiceVersion,
		})
	})

	// Metrics endpoint for Prometheus
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
		}

		problems := api.Group("/problems")
		{
			problems.GET("", problemHandler.ListProblems)
			problems.GET("/stats", problemHandler.GetProblemStats)
			problems.GET("/:id", problemHandler.GetProblem)
		}

		// Public statistics and ranking
		api.GET("/leaderboard", leaderboardHandler.GetLeaderboard)
		api.GET("/users/:id/statistics", userHandler.GetUserStatistics)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(userService))
		{
			// Self-scoped routes live under /me so they cannot collide
			// with the /users/:id wildcard
			me := protected.Group("/me")
			{
				me.GET("", userHandler.GetCurrentUser)
				me.GET("/statistics", userHandler.GetMyStatistics)
			}

			submissions := protected.Group("/submissions")
			{
				submissions.POST("", submissionHandler.Submit)
				submissions.GET("", submissionHandler.ListMine)
			}
		}
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port),
		Handler:      router,
		ReadTimeout:  config.Server.ReadTimeout,
		WriteTimeout: config.Server.WriteTimeout,
	}

	go func() {
		logger.Info("HTTP server starting",
			zap.String("address", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
