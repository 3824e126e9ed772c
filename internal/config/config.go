package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port        string
	Environment string

	// Database. A postgres:// URL selects the postgres driver; anything
	// else is treated as a sqlite file path (the single-user default).
	DatabaseURL string

	// JWT
	JWTSecret          string
	JWTExpirationHours int

	// Single-admin credentials
	AdminEmail        string
	AdminPasswordHash string

	// Storage for generated exports
	StoragePath string

	// Background Workers
	WorkerCount int

	// CORS
	AllowedOrigins []string

	// Default account codes (settings collaborator): opaque named lookups
	// handed to the asset and scheduled-transaction flows.
	ReceivableAccountCode   string
	PayableAccountCode      string
	EquityAccountCode       string
	DepreciationExpenseCode string

	// Sentry
	SentryDSN string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		DatabaseURL:        getEnv("DATABASE_URL", "bookkeeper.db"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		JWTExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
		AdminEmail:         getEnv("ADMIN_EMAIL", "admin@localhost"),
		AdminPasswordHash:  getEnv("ADMIN_PASSWORD_HASH", ""),
		StoragePath:        getEnv("STORAGE_PATH", "./storage"),
		WorkerCount:        getEnvAsInt("WORKER_COUNT", 2),
		AllowedOrigins:     getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),

		ReceivableAccountCode:   getEnv("RECEIVABLE_ACCOUNT_CODE", "1200"),
		PayableAccountCode:      getEnv("PAYABLE_ACCOUNT_CODE", "2100"),
		EquityAccountCode:       getEnv("EQUITY_ACCOUNT_CODE", "3000"),
		DepreciationExpenseCode: getEnv("DEPRECIATION_EXPENSE_CODE", "5700"),

		SentryDSN: getEnv("SENTRY_DSN", ""),
	}

	if cfg.JWTSecret == "" && cfg.Environment == "production" {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}
	if cfg.AdminPasswordHash == "" && cfg.Environment == "production" {
		return nil, fmt.Errorf("ADMIN_PASSWORD_HASH is required in production")
	}

	// Set default JWT secret for development
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret-change-in-production"
	}

	return cfg, nil
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as integer
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsSlice reads an environment variable as comma-separated slice
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
