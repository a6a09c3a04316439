package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported database drivers
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Route sharing configuration
	Share ShareConfig

	// Expired route cleanup configuration
	Cleanup CleanupConfig

	// CORS configuration
	CORS CORSConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string
	Environment string // development, staging, production
	LogLevel    string // debug, info, warn, error
	LogFile     string // optional rotating log file, stdout only when empty
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver             string // sqlite3 or postgres
	URL                string // file path for sqlite3, connection string for postgres
	MaxConnections     int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
	BusyTimeout        time.Duration // sqlite3 only
}

// ShareConfig holds share link configuration
type ShareConfig struct {
	PublicBaseURL string // e.g. https://dispatch.example.com, derived from the request when empty
	ViewerPath    string
	TokenLength   int
}

// CleanupConfig holds expiry sweeper configuration
type CleanupConfig struct {
	SecretKey string // required by the web entry point, web sweeps are refused when empty
	LogDir    string
	Schedule  string // optional cron spec for in-process sweeps
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFile:     getEnv("LOG_FILE", ""),
		},
		Database: LoadDatabase(),
		Share: ShareConfig{
			PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", ""), "/"),
			ViewerPath:    getEnv("SHARE_VIEWER_PATH", "/driver-view.html"),
			TokenLength:   getEnvAsInt("SHARE_TOKEN_LENGTH", 10),
		},
		Cleanup: LoadCleanup(),
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization"}),
		},
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadDatabase reads only the database section. Maintenance commands use it
// to avoid requiring the full server configuration.
func LoadDatabase() DatabaseConfig {
	return DatabaseConfig{
		Driver:             getEnv("DATABASE_DRIVER", DriverSQLite),
		URL:                getEnv("DATABASE_URL", "data/northstar.db"),
		MaxConnections:     getEnvAsInt("DATABASE_MAX_CONNECTIONS", 10),
		MaxIdleConnections: getEnvAsInt("DATABASE_MAX_IDLE_CONNECTIONS", 5),
		ConnMaxLifetime:    time.Duration(getEnvAsInt("DATABASE_CONN_MAX_LIFETIME", 300)) * time.Second,
		BusyTimeout:        time.Duration(getEnvAsInt("DATABASE_BUSY_TIMEOUT_MS", 5000)) * time.Millisecond,
	}
}

// LoadCleanup reads only the expiry sweeper section
func LoadCleanup() CleanupConfig {
	return CleanupConfig{
		SecretKey: getEnv("CLEANUP_SECRET_KEY", ""),
		LogDir:    getEnv("CLEANUP_LOG_DIR", "logs"),
		Schedule:  getEnv("CLEANUP_SCHEDULE", ""),
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Database.Validate(); err != nil {
		return err
	}

	if c.Share.TokenLength < 6 {
		return fmt.Errorf("SHARE_TOKEN_LENGTH must be at least 6, got %d", c.Share.TokenLength)
	}

	if !strings.HasPrefix(c.Share.ViewerPath, "/") {
		return fmt.Errorf("SHARE_VIEWER_PATH must start with '/'")
	}

	return nil
}

// Validate validates the database section
func (d DatabaseConfig) Validate() error {
	if d.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	switch d.Driver {
	case DriverSQLite, DriverPostgres:
		return nil
	default:
		return fmt.Errorf("invalid DATABASE_DRIVER: %s (must be '%s' or '%s')", d.Driver, DriverSQLite, DriverPostgres)
	}
}

// IsProduction reports whether the server runs in production mode
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// Helper functions to get environment variables

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var result []string
	for _, v := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
