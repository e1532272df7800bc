package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CoachAPI CoachAPIConfig
	Session  SessionConfig
	Log      LogConfig
	OTEL     OTELConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           string
	BodyLimitKB    int64
	IdempotencyTTL time.Duration
}

// MongoDBConfig holds MongoDB connection configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int64
}

// JWTConfig holds the shared secret used to verify bearer tokens
type JWTConfig struct {
	Secret string
}

// CoachAPIConfig holds the completion endpoint configuration
type CoachAPIConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// SessionConfig tunes the session engine
type SessionConfig struct {
	SnapshotTTL        time.Duration
	ClearOnComplete    bool
	TickInterval       time.Duration
	DefaultUnit        string
	DefinitionCacheTTL time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level      string
	JSON       bool
	File       string // rotated with lumberjack when set
	MaxSizeMB  int64
	MaxBackups int64
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string
	Environment    string
	Endpoint       string
	InstanceID     string
	Token          string
}

// Load reads configuration from environment variables
// It attempts to load from .env file first, then falls back to system env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			BodyLimitKB:    getEnvAsInt64("BODY_LIMIT_KB", 256),
			IdempotencyTTL: getEnvAsDuration("IDEMPOTENCY_TTL", 24*time.Hour),
		},
		MongoDB: MongoDBConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "repflow"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt64("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
		},
		CoachAPI: CoachAPIConfig{
			BaseURL: strings.TrimRight(getEnv("COACH_API_BASE_URL", ""), "/"),
			APIKey:  getEnv("COACH_API_KEY", ""),
			Timeout: getEnvAsDuration("COACH_API_TIMEOUT", 15*time.Second),
		},
		Session: SessionConfig{
			SnapshotTTL:        getEnvAsDuration("SESSION_SNAPSHOT_TTL", 12*time.Hour),
			ClearOnComplete:    getEnvAsBool("SESSION_CLEAR_ON_COMPLETE", false),
			TickInterval:       getEnvAsDuration("SESSION_TICK_INTERVAL", time.Second),
			DefaultUnit:        getEnv("SESSION_DEFAULT_UNIT", "kg"),
			DefinitionCacheTTL: getEnvAsDuration("DEFINITION_CACHE_TTL", 5*time.Minute),
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			JSON:       getEnvAsBool("LOG_JSON", false),
			File:       getEnv("LOG_FILE", ""),
			MaxSizeMB:  getEnvAsInt64("LOG_MAX_SIZE_MB", 50),
			MaxBackups: getEnvAsInt64("LOG_MAX_BACKUPS", 3),
		},
		OTEL: OTELConfig{
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "repflow-api"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
			Environment:    getEnv("OTEL_ENVIRONMENT", "development"),
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			InstanceID:     getEnv("OTEL_INSTANCE_ID", ""),
			Token:          getEnv("OTEL_TOKEN", ""),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.CoachAPI.BaseURL == "" {
		return fmt.Errorf("COACH_API_BASE_URL is required")
	}
	if c.Session.DefaultUnit != "kg" && c.Session.DefaultUnit != "lbs" {
		return fmt.Errorf("SESSION_DEFAULT_UNIT must be kg or lbs, got %q", c.Session.DefaultUnit)
	}
	if c.Session.TickInterval <= 0 {
		return fmt.Errorf("SESSION_TICK_INTERVAL must be positive")
	}
	if c.OTEL.Enabled && c.OTEL.Endpoint == "" {
		return fmt.Errorf("OTEL_EXPORTER_OTLP_ENDPOINT is required when OTEL_ENABLED is set")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt64 retrieves an environment variable as int64 or returns a default value
func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool retrieves an environment variable as bool or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration accepts Go durations ("90s") or plain seconds ("90")
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if secs, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
