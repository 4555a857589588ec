package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"edadash/internal"
	"edadash/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Reports   ReportsConfig
	Viewer    ViewerConfig
	Database  DatabaseConfig
	Profiling ProfilingConfig
	LogLevel  internal.LogLevel
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string
	GinMode         string
	MaxUploadMB     int
	ShutdownTimeout time.Duration
}

// Naming selects how report files are named inside the reports directory
type Naming string

const (
	// NamingFixed writes each backend's fixed file name into the reports
	// directory; repeated generations overwrite each other.
	NamingFixed Naming = "fixed"
	// NamingUnique writes every report into its own subdirectory.
	NamingUnique Naming = "unique"
)

// ReportsConfig holds report output settings
type ReportsConfig struct {
	Dir    string
	Naming Naming
	// Retention removes report directories older than this; zero keeps them.
	Retention time.Duration
}

// ViewerConfig holds live viewer settings
type ViewerConfig struct {
	// BindAttempts is how many fresh ports are tried before giving up.
	BindAttempts int
}

// DatabaseConfig holds the optional artifact database connection
type DatabaseConfig struct {
	URL string
}

// Enabled reports whether artifacts are recorded in PostgreSQL
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	level, ok := internal.ParseLogLevel(getEnvOrDefault("LOG_LEVEL", "INFO"))
	if !ok {
		return nil, errors.ConfigInvalid("LOG_LEVEL must be one of ERROR, WARN, INFO, DEBUG, TRACE")
	}

	config := &Config{
		Server:    *loadServerConfig(),
		Reports:   *loadReportsConfig(),
		Viewer:    *loadViewerConfig(),
		Database:  DatabaseConfig{URL: os.Getenv("DATABASE_URL")},
		Profiling: *loadProfilingConfig(),
		LogLevel:  level,
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:            getEnvOrDefault("PORT", "8080"),
		GinMode:         getEnvOrDefault("GIN_MODE", "release"),
		MaxUploadMB:     getEnvIntOrDefault("MAX_UPLOAD_MB", 50),
		ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 5*time.Second),
	}
}

func loadReportsConfig() *ReportsConfig {
	dir := os.Getenv("REPORTS_DIR")
	if dir == "" {
		dir = DefaultReportsDir()
	}
	return &ReportsConfig{
		Dir:       dir,
		Naming:    Naming(strings.ToLower(getEnvOrDefault("REPORT_NAMING", string(NamingFixed)))),
		Retention: getEnvDurationOrDefault("REPORTS_RETENTION", 0),
	}
}

func loadViewerConfig() *ViewerConfig {
	return &ViewerConfig{
		BindAttempts: getEnvIntOrDefault("VIEWER_BIND_ATTEMPTS", 1),
	}
}

func loadProfilingConfig() *ProfilingConfig {
	return &ProfilingConfig{
		Port:    getEnvOrDefault("PPROF_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
	}
}

// DefaultReportsDir is <cwd>/reports, falling back to a relative path when the
// working directory cannot be determined.
func DefaultReportsDir() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "reports"
	}
	return filepath.Join(cwd, "reports")
}

func validateConfig(config *Config) error {
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid("PORT must be numeric")
	}
	if config.Server.MaxUploadMB <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	switch config.Reports.Naming {
	case NamingFixed, NamingUnique:
	default:
		return errors.ConfigInvalid("REPORT_NAMING must be 'fixed' or 'unique'")
	}
	if config.Reports.Retention < 0 {
		return errors.ConfigInvalid("REPORTS_RETENTION must not be negative")
	}
	if config.Viewer.BindAttempts < 1 || config.Viewer.BindAttempts > 10 {
		return errors.ConfigInvalid("VIEWER_BIND_ATTEMPTS must be between 1 and 10")
	}
	if config.Database.URL != "" && !strings.HasPrefix(config.Database.URL, "postgres") {
		return errors.ConfigInvalid("DATABASE_URL must be a postgres:// or postgresql:// URL")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
