package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"

	"spartan/fitness-tracker/internal/api"
	"spartan/fitness-tracker/internal/cache"
	"spartan/fitness-tracker/internal/config"
	"spartan/fitness-tracker/internal/llm"
	"spartan/fitness-tracker/internal/logging"
	"spartan/fitness-tracker/internal/metrics"
	"spartan/fitness-tracker/internal/repository/mongo"
	"spartan/fitness-tracker/internal/seed"
	"spartan/fitness-tracker/internal/service"
	"spartan/fitness-tracker/internal/storage"
)

// @title Spartan Fitness API
// @version 1.0
// @description Workout catalog, daily challenges, completions, profiles and AI workout recommendations.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	configPath := flag.String("config", ".", "directory holding config.yaml")
	flag.Parse()

	// --- Configuration ---
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logging.Setup(logging.SetupParams{
		LogFileName:   cfg.Log.File,
		LogToStdout:   cfg.Log.Stdout,
		LogLevel:      cfg.Log.Level,
		LogFormatJSON: cfg.Log.JSON,
	})
	log.Info("starting spartan fitness server")

	if cfg.JWT.Secret == "" {
		log.Fatal("jwt.secret (JWT_SECRET) must be set")
	}

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Info("disconnecting MongoDB")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Errorf("failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.WithField("database", cfg.Database.Name).Info("database connection established")

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureIndexes(ctx, appDB)
		log.Debug("index creation process completed")
	}()

	// --- Metrics ---
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metricsManager := metrics.NewManager("spartan", "server", registry)

	// --- Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	profileRepo := mongo.NewMongoProfileRepository(appDB)
	workoutRepo := cache.NewCatalogRepository(
		mongo.NewMongoWorkoutRepository(appDB),
		cfg.Catalog.CacheTTL,
		cfg.Catalog.CacheSizeMB,
		metricsManager,
	)
	userWorkoutRepo := mongo.NewMongoUserWorkoutRepository(appDB)
	challengeRepo := mongo.NewMongoDailyChallengeRepository(appDB)
	completionRepo := mongo.NewMongoChallengeCompletionRepository(appDB)

	// --- Catalog Seeding ---
	seedCtx, seedCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if _, err := seed.LoadAndApply(seedCtx, cfg.Catalog.SeedFile, workoutRepo, challengeRepo); err != nil {
		log.Fatalf("could not seed catalog from %s: %v", cfg.Catalog.SeedFile, err)
	}
	seedCancel()

	// --- Storage ---
	var mediaStore storage.MediaStore
	if cfg.S3.Enabled() {
		mediaStore, err = storage.NewS3MediaStore(context.Background(), cfg.S3)
		if err != nil {
			log.Fatalf("failed to initialize S3 media storage: %v", err)
		}
	} else {
		log.Warn("s3.bucket_name not set, workout media links are disabled")
	}

	// --- Language Model ---
	completer, err := llm.New(context.Background(), cfg.LLM)
	if errors.Is(err, llm.ErrNoAPIKey) {
		log.Warn("llm.api_key not set, workout recommendations will fail until it is configured")
		completer = llm.Unconfigured(cfg.LLM.Provider, err)
	} else if err != nil {
		log.Fatalf("failed to initialize language model client: %v", err)
	}

	// --- Services ---
	authService := service.NewAuthService(userRepo, profileRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	services := api.Services{
		Auth:       authService,
		Profile:    service.NewProfileService(profileRepo),
		Workout:    service.NewWorkoutService(workoutRepo, challengeRepo, mediaStore, time.Now),
		Completion: service.NewCompletionService(userWorkoutRepo, completionRepo, workoutRepo, challengeRepo),
		Recommendation: service.NewRecommendationService(
			authService, profileRepo, userWorkoutRepo, workoutRepo, completer, metricsManager,
		),
	}

	// --- Router ---
	if log.GetLevel() < log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(services, metricsManager, registry)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Infof("server listening on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Errorf("server forced to shutdown: %v", err)
	}

	log.Info("server exiting")
}
