package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alcyxob/fitcoach/internal/api"
	"alcyxob/fitcoach/internal/config"
	"alcyxob/fitcoach/internal/lock"
	"alcyxob/fitcoach/internal/logger"
	"alcyxob/fitcoach/internal/repository/mongo"
	"alcyxob/fitcoach/internal/service"
	"alcyxob/fitcoach/internal/storage"

	"github.com/gin-gonic/gin"
)

// @title Fitness Coaching API
// @version 1.0
// @description API for trainers and their clients: plan generation, plan editors, measurements and progress photos.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	appLog, err := logger.New(cfg.Log.Mode)
	if err != nil {
		log.Fatalf("FATAL: Could not build logger: %v", err)
	}
	defer appLog.Sync()

	if cfg.JWT.Secret == "" {
		appLog.Fatal("jwt.secret is required (JWT_SECRET)")
	}
	appLog.Info("Configuration loaded", "address", cfg.Server.Address, "database", cfg.Database.Name, "transactions", cfg.Database.Transactions)

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		appLog.Fatal("Could not connect to MongoDB", "error", err)
	}
	defer func() {
		appLog.Info("Disconnecting MongoDB")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			appLog.Error("Failed to disconnect MongoDB", "error", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := mongo.EnsureIndexes(ctx, appDB); err != nil {
			appLog.Error("Index creation failed", "error", err)
			return
		}
		appLog.Info("Indexes ensured")
	}()

	// --- Initialize Storage ---
	fileStorage, err := storage.NewS3Storage(context.Background(), cfg.S3, appLog)
	if err != nil {
		appLog.Fatal("Failed to initialize S3 storage", "error", err)
	}

	// --- Generation lock ---
	var locker lock.Locker = lock.NewLocalLocker()
	if cfg.Lock.RedisAddr != "" {
		redisLocker, err := lock.NewRedisLocker(cfg.Lock.RedisAddr, cfg.Lock.TTL, appLog)
		if err != nil {
			appLog.Fatal("Failed to connect lock backend", "error", err)
		}
		defer redisLocker.Close()
		locker = redisLocker
		appLog.Info("Using Redis generation lock", "addr", cfg.Lock.RedisAddr)
	}

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	clientRepo := mongo.NewMongoClientRepository(appDB)
	measurementRepo := mongo.NewMongoMeasurementRepository(appDB)
	photoRepo := mongo.NewMongoProgressPhotoRepository(appDB)
	mealPlanRepo := mongo.NewMongoMealPlanRepository(appDB)
	mealRepo := mongo.NewMongoMealRepository(appDB)
	workoutRepo := mongo.NewMongoWorkoutRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	tx := mongo.NewMongoTransactor(dbClient, cfg.Database.Transactions)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	services := api.Services{
		Auth:        authService,
		Clients:     service.NewClientService(authService, clientRepo, measurementRepo, mealPlanRepo, mealRepo, workoutRepo, exerciseRepo, appLog),
		Generation:  service.NewGenerationService(clientRepo, mealPlanRepo, mealRepo, workoutRepo, exerciseRepo, tx, locker, appLog),
		Editor:      service.NewEditorService(clientRepo, mealPlanRepo, mealRepo, workoutRepo, exerciseRepo, tx, appLog),
		Measurement: service.NewMeasurementService(clientRepo, measurementRepo, photoRepo, fileStorage, appLog),
	}

	// --- Initialize Gin Engine ---
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogger(appLog), api.CORSMiddleware(cfg.CORS.AllowOrigins))
	api.SetupRoutes(router, cfg.JWT.Secret, services)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		appLog.Info("Server starting", "address", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal("ListenAndServe failed", "error", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		appLog.Error("Server forced to shutdown", "error", err)
	}
	appLog.Info("Server exiting")
}
