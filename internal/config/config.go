package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Holiday  HolidayConfig
	Jobs     JobsConfig
}

type DatabaseConfig struct {
	Driver     string // 'postgres', 'sqlite'
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	SSLMode    string
	SQLitePath string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
}

type HolidayConfig struct {
	File  string
	Dates []string
}

// JobsConfig controls the background leave jobs
type JobsConfig struct {
	Enabled                   bool
	AutoApprovalInterval      time.Duration
	AutoApprovalAfter         time.Duration
	CarryForwardCheckInterval time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Driver:     strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		Host:       getEnv("DB_HOST", "localhost"),
		Port:       dbPort,
		User:       getEnv("DB_USER", "postgres"),
		Password:   getEnv("DB_PASSWORD", ""),
		Name:       getEnv("DB_NAME", "hrops"),
		SSLMode:    getEnv("DB_SSL_MODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "hrops.db"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	config.Holiday = HolidayConfig{
		File:  getEnv("HOLIDAYS_FILE", ""),
		Dates: getEnvSlice("HOLIDAYS"),
	}

	// Background jobs
	jobsEnabled, err := strconv.ParseBool(getEnv("JOBS_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid JOBS_ENABLED: %w", err)
	}
	autoApprovalInterval, err := time.ParseDuration(getEnv("AUTO_APPROVAL_INTERVAL", "2h"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTO_APPROVAL_INTERVAL: %w", err)
	}
	autoApprovalAfter, err := time.ParseDuration(getEnv("AUTO_APPROVAL_AFTER", "72h"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTO_APPROVAL_AFTER: %w", err)
	}
	carryForwardCheck, err := time.ParseDuration(getEnv("CARRY_FORWARD_CHECK_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid CARRY_FORWARD_CHECK_INTERVAL: %w", err)
	}

	config.Jobs = JobsConfig{
		Enabled:                   jobsEnabled,
		AutoApprovalInterval:      autoApprovalInterval,
		AutoApprovalAfter:         autoApprovalAfter,
		CarryForwardCheckInterval: carryForwardCheck,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres":
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case "sqlite":
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Jobs.AutoApprovalInterval <= 0 {
		return fmt.Errorf("AUTO_APPROVAL_INTERVAL must be positive")
	}
	if c.Jobs.CarryForwardCheckInterval <= 0 {
		return fmt.Errorf("CARRY_FORWARD_CHECK_INTERVAL must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
