package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinical-followup-platform/config"
	deliveryHttp "clinical-followup-platform/internal/delivery/http"
	"clinical-followup-platform/internal/delivery/http/handler"
	"clinical-followup-platform/internal/delivery/http/middleware"
	"clinical-followup-platform/internal/infrastructure/cache"
	"clinical-followup-platform/internal/infrastructure/database"
	"clinical-followup-platform/internal/repository"
	"clinical-followup-platform/internal/service"
	"clinical-followup-platform/internal/usecase"
	"clinical-followup-platform/pkg/jwt"
	"clinical-followup-platform/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	// Apply schema migrations
	if err := database.RunMigrations(cfg.DB, logrus.StandardLogger()); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	// Initialize all layers
	server := initializeServer(cfg, db, redisClient)
	app.Server = server

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *http.Server {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	patientRepo := repository.NewPatientRepository()
	consultationRepo := repository.NewConsultationRepository()
	visitRepo := repository.NewVisitRepository()
	predictionRepo := repository.NewPredictionRepository()
	validationRepo := repository.NewValidationRepository()
	prescriptionRepo := repository.NewExamPrescriptionRepository()
	examResultRepo := repository.NewExamResultRepository()
	followUpRepo := repository.NewFollowUpRepository()
	scheduledExamRepo := repository.NewScheduledExamRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize services
	auditService := service.NewAuditService(db, log, auditLogRepo)
	reconcileLock := service.NewReconcileLock(redisClient, log, cfg.Reconciler.LockTTL)
	scoringClient := service.NewScoringClient(cfg.Scorer, log)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, jwtService, redisClient, auditService)
	patientUsecase := usecase.NewPatientUsecase(db, log, patientRepo)
	consultationUsecase := usecase.NewConsultationUsecase(db, log, consultationRepo, patientRepo, visitRepo)
	predictionUsecase := usecase.NewPredictionUsecase(db, log, predictionRepo, visitRepo, scoringClient, auditService)
	validationUsecase := usecase.NewValidationUsecase(db, log, validationRepo, predictionRepo, userRepo, examResultRepo, prescriptionRepo, followUpRepo, auditService)
	followUpUsecase := usecase.NewFollowUpUsecase(db, log, followUpRepo, scheduledExamRepo, patientRepo, auditService)
	prescriptionUsecase := usecase.NewPrescriptionUsecase(db, log, prescriptionRepo, examResultRepo, visitRepo, scheduledExamRepo, followUpRepo, auditService)
	reconcilerUsecase := usecase.NewReconcilerUsecase(db, log, cfg.Reconciler, scheduledExamRepo, prescriptionRepo, consultationRepo, reconcileLock, auditService)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, jwtService, customValidator)
	patientHandler := handler.NewPatientHandler(patientUsecase, customValidator)
	consultationHandler := handler.NewConsultationHandler(consultationUsecase, customValidator)
	predictionHandler := handler.NewPredictionHandler(predictionUsecase, customValidator)
	validationHandler := handler.NewValidationHandler(validationUsecase, customValidator)
	followUpHandler := handler.NewFollowUpHandler(followUpUsecase, customValidator)
	prescriptionHandler := handler.NewPrescriptionHandler(prescriptionUsecase, customValidator)
	reconciliationHandler := handler.NewReconciliationHandler(reconcilerUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		patientHandler,
		consultationHandler,
		predictionHandler,
		validationHandler,
		followUpHandler,
		prescriptionHandler,
		reconciliationHandler,
		auditLogHandler,
		authMiddleware,
		corsMiddleware,
	)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
