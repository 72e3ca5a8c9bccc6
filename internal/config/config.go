// Package config provides application configuration loaded from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultJWTSecret = "your-super-secret-jwt-key-change-in-production"

// Config holds all application configuration.
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	Storage     StorageConfig
	Auth        AuthConfig
	Agents      AgentsConfig
	App         AppConfig
	Log         LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
	// AllowedOrigins feeds the CORS middleware. "*" allows any origin.
	AllowedOrigins []string
	// AuthRateLimit is the number of /auth requests allowed per minute and IP.
	AuthRateLimit int
}

// DatabaseConfig holds relational database connection settings.
type DatabaseConfig struct {
	Driver   string // "postgres" or "sqlite"
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	// Path is the SQLite file (or ":memory:") used when Driver is "sqlite".
	Path string
	// SQLMigrations runs the embedded versioned migrations on Postgres
	// instead of GORM AutoMigrate.
	SQLMigrations bool
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	// Required makes startup fail when Redis is unreachable instead of
	// falling back to the in-memory cache.
	Required bool
}

// KafkaConfig holds broker settings for domain events.
type KafkaConfig struct {
	Enabled             bool
	Brokers             []string
	Topic               string
	RecommendationTopic string
	GroupID             string
}

// StorageConfig holds S3-compatible object storage settings (MinIO in dev).
type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	// PublicURL overrides the base used to build object URLs.
	PublicURL string
}

// AuthConfig holds token and password hashing settings.
type AuthConfig struct {
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	BcryptCost      int
	ResetTokenTTL   time.Duration
}

// AgentsConfig holds the HTTP endpoints of the AI agents.
type AgentsConfig struct {
	JobFinderURL       string
	CandidateFinderURL string
	Timeout            time.Duration
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev           bool
	Migrations    bool
	AdminEmail    string
	AdminPassword string
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string
	Format string // "json" or "console"
}

// DSN returns the PostgreSQL connection string in key=value format.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// URL returns the PostgreSQL connection string in URL format.
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Addr returns the host:port pair for the Redis client.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// IsProduction reports whether the service runs with ENVIRONMENT=production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	env := getEnv("ENVIRONMENT", "development")
	return &Config{
		Environment: env,
		Server: ServerConfig{
			Port:           getEnv("API_PORT", getEnv("PORT", "8080")),
			ReadTimeout:    getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout:   getEnvInt("SERVER_WRITE_TIMEOUT", 30),
			IdleTimeout:    getEnvInt("SERVER_IDLE_TIMEOUT", 60),
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			AuthRateLimit:  getEnvInt("AUTH_RATE_LIMIT", 20),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "password"),
			DBName:   getEnv("DB_NAME", "jobzee"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Path:     getEnv("DB_PATH", "jobzee.db"),

			SQLMigrations: getEnvBool("DB_SQL_MIGRATIONS", true),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Required: getEnvBool("REDIS_REQUIRED", env == "production"),
		},
		Kafka: KafkaConfig{
			Enabled:             getEnvBool("KAFKA_ENABLED", false),
			Brokers:             getEnvList("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:               getEnv("KAFKA_TOPIC", "jobzee-events"),
			RecommendationTopic: getEnv("KAFKA_RECOMMENDATION_TOPIC", "job-applications"),
			GroupID:             getEnv("KAFKA_GROUP_ID", "jobzee-backend"),
		},
		Storage: StorageConfig{
			Enabled:   getEnvBool("MINIO_ENABLED", false),
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "jobzee"),
			Region:    getEnv("MINIO_REGION", "us-east-1"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			PublicURL: getEnv("MINIO_PUBLIC_URL", ""),
		},
		Auth: AuthConfig{
			JWTSecret:       getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTokenTTL:  time.Duration(getEnvInt("JWT_EXPIRATION", 24)) * time.Hour,
			RefreshTokenTTL: time.Duration(getEnvInt("REFRESH_TOKEN_EXP", 7)) * 24 * time.Hour,
			BcryptCost:      getEnvInt("BCRYPT_COST", 12),
			ResetTokenTTL:   getEnvDuration("RESET_TOKEN_TTL", time.Hour),
		},
		Agents: AgentsConfig{
			JobFinderURL:       getEnv("JOB_FINDER_AGENT_URL", "http://localhost:8084"),
			CandidateFinderURL: getEnv("CANDIDATE_FINDER_AGENT_URL", "http://localhost:8085"),
			Timeout:            getEnvDuration("AGENT_TIMEOUT", 30*time.Second),
		},
		App: AppConfig{
			Dev:           getEnvBool("DEV", env == "development"),
			Migrations:    getEnvBool("MIGRATIONS", true),
			AdminEmail:    getEnv("ADMIN_EMAIL", ""),
			AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}

// Validate rejects settings that must not reach a running server.
func (c *Config) Validate() error {
	var errs []error
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("unknown DB_DRIVER %q", c.Database.Driver))
	}
	if c.IsProduction() && (c.Auth.JWTSecret == "" || c.Auth.JWTSecret == defaultJWTSecret) {
		errs = append(errs, errors.New("JWT_SECRET must be set in production"))
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST %d out of range", c.Auth.BcryptCost))
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("KAFKA_BROKERS is empty"))
	}
	return errors.Join(errs...)
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}

// getEnvList splits a comma separated variable, dropping empty items.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// getEnvDuration parses values like "30s" or "5m".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
