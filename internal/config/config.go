package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server      ServerConfig
	Auth        AuthConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	AI          AIConfig
	Email       EmailConfig
	Archive     ArchiveConfig
	Reservation ReservationConfig
	LogLevel    string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
	AllowedOrigins  []string
}

type AuthConfig struct {
	AdminUsername string
	// AdminPasswordHash is a bcrypt hash. AdminPassword is hashed at startup
	// when no hash is given.
	AdminPasswordHash string
	AdminPassword     string
	JWTSecret         string
	TokenTTL          time.Duration
}

type DatabaseConfig struct {
	URL     string // empty means the seeded in-memory store
	Migrate bool
}

type RedisConfig struct {
	Addr     string // empty means in-process table holds
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers []string // empty means order stats are applied inline
	Topic   string
	GroupID string
}

type AIConfig struct {
	GeminiAPIKey string
	Model        string
	BaseURL      string
	Timeout      time.Duration
}

type EmailConfig struct {
	RelayURL string // empty means emails are only logged
	APIKey   string
	FromName string
	ReplyTo  string
	Timeout  time.Duration
}

type ArchiveConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
}

type ReservationConfig struct {
	HoldTTL       time.Duration
	WizardIdleTTL time.Duration
	SweepInterval time.Duration
}

// Load reads configuration from environment variables, after loading a .env
// file if one exists
func Load() (*Config, error) {
	cfg := load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadWorker is Load for background workers, which serve no HTTP and need no
// admin credentials
func LoadWorker() (*Config, error) {
	cfg := load()
	if err := cfg.validateLogLevel(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 75),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
			AllowedOrigins:  getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
		},
		Auth: AuthConfig{
			AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
			AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			AdminPassword:     getEnv("ADMIN_PASSWORD", ""),
			JWTSecret:         getEnv("JWT_SECRET", ""),
			TokenTTL:          time.Duration(getEnvAsInt("TOKEN_TTL_HOURS", 24)) * time.Hour,
		},
		Database: DatabaseConfig{
			URL:     getEnv("DATABASE_URL", ""),
			Migrate: getEnvAsBool("DATABASE_MIGRATE", true),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvAsSlice("KAFKA_BROKER", nil),
			Topic:   getEnv("KAFKA_TOPIC", "reservation.confirmed"),
			GroupID: getEnv("KAFKA_GROUP_ID", "order-stats"),
		},
		AI: AIConfig{
			GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
			Model:        getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			BaseURL:      getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
			Timeout:      time.Duration(getEnvAsInt("GEMINI_TIMEOUT_SECONDS", 60)) * time.Second,
		},
		Email: EmailConfig{
			RelayURL: getEnv("EMAIL_RELAY_URL", ""),
			APIKey:   getEnv("EMAIL_RELAY_API_KEY", ""),
			FromName: getEnv("EMAIL_FROM_NAME", "DINE24 Restaurant"),
			ReplyTo:  getEnv("EMAIL_REPLY_TO", "info@dine24.com"),
			Timeout:  time.Duration(getEnvAsInt("EMAIL_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Archive: ArchiveConfig{
			Endpoint:      getEnv("R2_ENDPOINT", ""),
			AccessKey:     getEnv("R2_ACCESS_KEY", ""),
			SecretKey:     getEnv("R2_SECRET_KEY", ""),
			Bucket:        getEnv("R2_BUCKET_NAME", ""),
			PublicBaseURL: getEnv("R2_PUBLIC_BASE_URL", ""),
		},
		Reservation: ReservationConfig{
			HoldTTL:       time.Duration(getEnvAsInt("HOLD_TTL_MINUTES", 10)) * time.Minute,
			WizardIdleTTL: time.Duration(getEnvAsInt("WIZARD_IDLE_MINUTES", 30)) * time.Minute,
			SweepInterval: time.Duration(getEnvAsInt("WIZARD_SWEEP_SECONDS", 60)) * time.Second,
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("invalid PORT: %s", c.Server.Port)
	}

	if c.Auth.AdminUsername == "" {
		return fmt.Errorf("ADMIN_USERNAME is required")
	}
	if c.Auth.AdminPasswordHash == "" && c.Auth.AdminPassword == "" {
		return fmt.Errorf("ADMIN_PASSWORD_HASH or ADMIN_PASSWORD must be set")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}

	return c.validateLogLevel()
}

func (c *Config) validateLogLevel() error {
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}
	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

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

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}
	return values
}
