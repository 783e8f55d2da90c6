// Package config provides application configuration through environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the server will bind to.
	ServerHost string
	// ServerPort is the port number the server will listen on.
	ServerPort int

	// DBDriver is the database driver to use (e.g., "postgres", "mysql").
	DBDriver string
	// DBConnectionString is the connection string for the database.
	DBConnectionString string
	// DBMaxOpenConnections is the maximum number of open connections to the database.
	DBMaxOpenConnections int
	// DBMaxIdleConnections is the maximum number of idle connections in the database pool.
	DBMaxIdleConnections int
	// DBConnMaxLifetime is the maximum amount of time a connection may be reused.
	DBConnMaxLifetime time.Duration

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// BrevoAPIKey is the API key used to authenticate against the Brevo API.
	BrevoAPIKey string
	// BrevoListID is the Brevo contact list that new signups are added to.
	BrevoListID int64

	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// StaticDir is the directory holding the prebuilt frontend bundle.
	StaticDir string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Server configuration
		ServerHost: env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort: env.GetInt("SERVER_PORT", 8000),

		// Database configuration
		DBDriver:             env.GetString("DB_DRIVER", "postgres"),
		DBConnectionString:   env.GetString("DATABASE_URL", ""),
		DBMaxOpenConnections: env.GetInt("DB_MAX_OPEN_CONNECTIONS", 25),
		DBMaxIdleConnections: env.GetInt("DB_MAX_IDLE_CONNECTIONS", 5),
		DBConnMaxLifetime:    env.GetDuration("DB_CONN_MAX_LIFETIME", 5, time.Minute),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Brevo configuration. Keys pasted into .env files tend to pick up
		// stray quotes, so strip them here instead of failing downstream.
		BrevoAPIKey: strings.Trim(strings.TrimSpace(env.GetString("BREVO_API_KEY", "")), `"'`),
		BrevoListID: env.GetInt64("BREVO_LIST_ID", 0),

		// CORS
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Frontend bundle
		StaticDir: env.GetString("STATIC_DIR", "out"),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "waitlist"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),
	}
}

// Validate checks that all required configuration values are present.
// Startup must abort when it returns an error; the service has no degraded
// mode for missing credentials.
func (c *Config) Validate() error {
	var missing []string

	if c.DBConnectionString == "" {
		missing = append(missing, "DATABASE_URL is not set")
	}
	if c.BrevoAPIKey == "" {
		missing = append(missing, "BREVO_API_KEY is not set")
	}
	if c.BrevoListID == 0 {
		missing = append(missing, "BREVO_LIST_ID is not set or invalid")
	}
	if c.CORSAllowOrigins == "" {
		missing = append(missing, "CORS_ALLOW_ORIGINS is not set")
	}

	if len(missing) > 0 {
		return fmt.Errorf("configuration validation failed: %w",
			errors.New(strings.Join(missing, "; ")))
	}
	return nil
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	switch c.LogLevel {
	case "debug":
		return "debug"
	case "info", "warn", "error":
		return "release"
	default:
		return "release"
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	// Search for .env file recursively up the directory tree
	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// .env file found, load it
			_ = godotenv.Load(envPath)
			return
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}
}
