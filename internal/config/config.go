package config

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port            string
	ShutdownTimeout time.Duration
	RateLimitRPM    int

	// Logging
	LogLevel  string
	LogFormat string

	// Reports
	ReportTitle     string
	ReportCacheSize int
	ReportCacheTTL  time.Duration

	// Optional CSV replayed into the ledger at startup
	SeedCSV string
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8081"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		RateLimitRPM:    getEnvInt("RATE_LIMIT_RPM", 60),

		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),

		ReportTitle:     getEnv("REPORT_TITLE", "Personal Finance Tracker Report"),
		ReportCacheSize: getEnvInt("REPORT_CACHE_SIZE", 32),
		ReportCacheTTL:  getEnvDuration("REPORT_CACHE_TTL", 5*time.Minute),

		SeedCSV: getEnv("SEED_CSV", ""),
	}
}

var (
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"text", "json"}
)

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if !slices.Contains(validLogLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLogLevels))
	}
	if !slices.Contains(validLogFormats, c.LogFormat) {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be one of %v", c.LogFormat, validLogFormats))
	}

	if c.RateLimitRPM < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per minute", c.RateLimitRPM))
	}

	if c.ReportCacheSize < 0 {
		errors = append(errors, fmt.Sprintf("invalid report cache size %d: must not be negative", c.ReportCacheSize))
	} else if c.ReportCacheSize > 1024 {
		errors = append(errors, fmt.Sprintf("invalid report cache size %d: must be at most 1024", c.ReportCacheSize))
	}
	if c.ReportCacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid report cache TTL %v: must be at least 1 second", c.ReportCacheTTL))
	}

	if c.ShutdownTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be at least 1 second", c.ShutdownTimeout))
	} else if c.ShutdownTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be at most 5 minutes", c.ShutdownTimeout))
	}

	if c.SeedCSV != "" {
		if _, err := os.Stat(c.SeedCSV); err != nil {
			errors = append(errors, fmt.Sprintf("seed CSV '%s' is not readable: %v", c.SeedCSV, err))
		}
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// SlogLevel maps LogLevel to a slog level; unknown values map to info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
