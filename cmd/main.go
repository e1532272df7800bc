package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mansoorceksport/repflow/internal/config"
	"github.com/mansoorceksport/repflow/internal/domain"
	"github.com/mansoorceksport/repflow/internal/infrastructure/coachapi"
	"github.com/mansoorceksport/repflow/internal/logging"
	"github.com/mansoorceksport/repflow/internal/repository"
	"github.com/mansoorceksport/repflow/internal/server"
	"github.com/mansoorceksport/repflow/internal/service"
	"github.com/mansoorceksport/repflow/internal/telemetry"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
)

const redisKeyPrefix = "repflow:"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	logCloser := logging.Setup(logging.SetupParams{
		LogFileName:   cfg.Log.File,
		LogToStdout:   true,
		LogLevel:      cfg.Log.Level,
		LogFormatJSON: cfg.Log.JSON,
		MaxSizeMB:     int(cfg.Log.MaxSizeMB),
		MaxBackups:    int(cfg.Log.MaxBackups),
	})
	defer logCloser.Close()

	logrus.Info("Starting RepFlow session service...")

	ctx := context.Background()

	otelProvider, err := telemetry.Initialize(ctx, telemetry.Config{
		ServiceName:    cfg.OTEL.ServiceName,
		ServiceVersion: cfg.OTEL.ServiceVersion,
		Environment:    cfg.OTEL.Environment,
		OTLPEndpoint:   cfg.OTEL.Endpoint,
		InstanceID:     cfg.OTEL.InstanceID,
		Token:          cfg.OTEL.Token,
		Enabled:        cfg.OTEL.Enabled,
	})
	if err != nil {
		logrus.Warnf("Failed to initialize OpenTelemetry: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelProvider.Shutdown(shutdownCtx); err != nil {
			logrus.Warnf("Error shutting down OpenTelemetry: %v", err)
		}
	}()

	// Connect to MongoDB with OpenTelemetry instrumentation
	ctxMongo, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	mongoOpts := options.Client().ApplyURI(cfg.MongoDB.URI)
	if cfg.OTEL.Enabled {
		mongoOpts.SetMonitor(otelmongo.NewMonitor())
	}

	mongoClient, err := mongo.Connect(ctxMongo, mongoOpts)
	if err != nil {
		logrus.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logrus.Errorf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	if err := mongoClient.Ping(ctxMongo, nil); err != nil {
		logrus.Fatalf("Failed to ping MongoDB: %v", err)
	}
	logrus.Info("MongoDB connected")

	mongoDB := mongoClient.Database(cfg.MongoDB.Database)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       int(cfg.Redis.DB),
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logrus.Fatalf("Failed to connect to Redis: %v", err)
	}
	logrus.Info("Redis connected")

	// Snapshots, idempotency records and the definition cache are short-lived and live in Redis.
	// Last performance survives across sessions and lives in MongoDB.
	redisKV := repository.NewRedisKVStore(redisClient, redisKeyPrefix)
	mongoKV := repository.NewMongoKVStore(mongoDB)
	if err := mongoKV.EnsureIndexes(ctxMongo); err != nil {
		logrus.Fatalf("Failed to create key-value indexes: %v", err)
	}

	definitions := repository.NewCachedWorkoutDefinitionRepository(
		repository.NewMongoWorkoutDefinitionRepository(mongoDB),
		redisKV,
	).WithTTL(cfg.Session.DefinitionCacheTTL)

	coach := coachapi.NewClient(coachapi.Config{
		BaseURL: cfg.CoachAPI.BaseURL,
		APIKey:  cfg.CoachAPI.APIKey,
		Timeout: cfg.CoachAPI.Timeout,
	})

	store := service.NewSessionStore(redisKV, cfg.Session.SnapshotTTL)
	history := service.NewPerformanceHistory(mongoKV)
	synchronizer := service.NewCompletionSynchronizer(map[string]domain.CompletionClient{
		domain.SessionTypeAssigned:    coach.Assigned(),
		domain.SessionTypeIndependent: coach.Independent(),
	}, history, store)

	sessions := service.NewSessionManager(definitions, store, history, synchronizer, service.ControllerConfig{
		TickInterval:            cfg.Session.TickInterval,
		DefaultUnit:             cfg.Session.DefaultUnit,
		ClearSnapshotOnComplete: cfg.Session.ClearOnComplete,
	})

	app := server.NewApp(server.AppDependencies{
		Config:           cfg,
		Sessions:         sessions,
		IdempotencyStore: redisKV,
	})

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logrus.Info("Shutting down gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := sessions.Shutdown(shutdownCtx); err != nil {
			logrus.Errorf("Error persisting live sessions: %v", err)
		}
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logrus.Errorf("Error shutting down server: %v", err)
		}
	}()

	logrus.Infof("Server starting on port %s", cfg.Server.Port)
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}
}
