package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/islaguezul/portfolio-backend/pkg/database"
)

// Config holds the application configuration
type Config struct {
	Environment        string
	ServerPort         int
	RedisURL           string
	LogLevel           string
	CORSAllowedOrigins []string
	JWTSecret          string
	ContentCacheTTL    time.Duration
	CacheRefreshEvery  time.Duration
	CopyHistoryLimit   int
	Database           *database.Config
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	port, err := strconv.Atoi(getEnv("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	dbPort, err := strconv.Atoi(getEnv("DATABASE_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DATABASE_PORT: %w", err)
	}

	cacheTTLSecs, err := strconv.Atoi(getEnv("CONTENT_CACHE_TTL_SECONDS", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid CONTENT_CACHE_TTL_SECONDS: %w", err)
	}

	refreshSecs, err := strconv.Atoi(getEnv("CACHE_REFRESH_SECONDS", "300"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_REFRESH_SECONDS: %w", err)
	}

	historyLimit, err := strconv.Atoi(getEnv("COPY_HISTORY_LIMIT", "50"))
	if err != nil {
		return nil, fmt.Errorf("invalid COPY_HISTORY_LIMIT: %w", err)
	}

	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		ServerPort:  port,
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: parseCSVEnv("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:5173",
			"http://localhost:3000",
		}),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		ContentCacheTTL:   time.Duration(cacheTTLSecs) * time.Second,
		CacheRefreshEvery: time.Duration(refreshSecs) * time.Second,
		CopyHistoryLimit:  historyLimit,
		Database: &database.Config{
			Host:            getEnv("DATABASE_HOST", "localhost"),
			Port:            dbPort,
			User:            getEnv("DATABASE_USER", "portfolio"),
			Password:        getEnv("DATABASE_PASSWORD", "dev"),
			Database:        getEnv("DATABASE_NAME", "portfolio"),
			SSLMode:         getEnv("DATABASE_SSLMODE", "disable"),
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseCSVEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
