// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// App
	Port string
	Env  string

	// PostgreSQL
	DatabaseURL string
	DBHost      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBPort      string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Auth
	ServiceJWTSecret string

	// Telegram notifications
	TelegramBotToken string
	TelegramChatID   int64

	Dedup DedupConfig
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// A missing .env file is fine, the environment may already be populated.
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", "8001"),
		Env:              getEnv("ENV", "development"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBUser:           getEnv("DB_USER", "user"),
		DBPassword:       getEnv("DB_PASSWORD", "password"),
		DBName:           getEnv("DB_NAME", "ai_support"),
		DBPort:           getEnv("DB_PORT", "5432"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		ServiceJWTSecret: getEnv("SERVICE_JWT_SECRET", ""),
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   getEnvInt64("TELEGRAM_CHAT_ID", 0),
		Dedup: DedupConfig{
			SimilarityThreshold: getEnvFloat("DUPLICATE_SIMILARITY_THRESHOLD", DefaultSimilarityThreshold),
			TimeWindowDays:      getEnvInt("DUPLICATE_TIME_WINDOW_DAYS", DefaultTimeWindowDays),
			CandidateLimit:      getEnvInt("DUPLICATE_CANDIDATE_LIMIT", DefaultCandidateLimit),
			TopCustomers:        getEnvInt("DUPLICATE_TOP_CUSTOMERS", DefaultTopCustomers),
			StrictLocking:       getEnvBool("DUPLICATE_STRICT_LOCKING", false),
			LockTTL:             time.Duration(getEnvInt("DUPLICATE_LOCK_TTL_SECONDS", int(DefaultLockTTL/time.Second))) * time.Second,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are usable
func (c *Config) Validate() error {
	if c.DatabaseURL == "" && (c.DBHost == "" || c.DBName == "") {
		return fmt.Errorf("DATABASE_URL or DB_HOST and DB_NAME are required")
	}
	return c.Dedup.Validate()
}

// Validate checks the detector settings.
func (c DedupConfig) Validate() error {
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("DUPLICATE_SIMILARITY_THRESHOLD must be in (0, 1], got %v", c.SimilarityThreshold)
	}
	if c.TimeWindowDays < 1 {
		return fmt.Errorf("DUPLICATE_TIME_WINDOW_DAYS must be at least 1, got %d", c.TimeWindowDays)
	}
	if c.CandidateLimit < 1 {
		return fmt.Errorf("DUPLICATE_CANDIDATE_LIMIT must be at least 1, got %d", c.CandidateLimit)
	}
	if c.TopCustomers < 1 {
		return fmt.Errorf("DUPLICATE_TOP_CUSTOMERS must be at least 1, got %d", c.TopCustomers)
	}
	if c.StrictLocking && c.LockTTL <= 0 {
		return fmt.Errorf("DUPLICATE_LOCK_TTL_SECONDS must be positive when strict locking is enabled")
	}
	return nil
}

// PostgresDSN returns the DSN passed to the gorm postgres driver.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if result, err := strconv.ParseFloat(value, 64); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if result, err := strconv.Atoi(value); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if result, err := strconv.ParseInt(value, 10, 64); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if result, err := strconv.ParseBool(value); err == nil {
			return result
		}
	}
	return defaultValue
}
