package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:            "8081",
		ShutdownTimeout: 30 * time.Second,
		RateLimitRPM:    60,
		LogLevel:        "info",
		LogFormat:       "text",
		ReportTitle:     "Report",
		ReportCacheSize: 32,
		ReportCacheTTL:  5 * time.Minute,
	}
}

func TestConfig_Validate(t *testing.T) {
	seed := filepath.Join(t.TempDir(), "ledger.csv")
	if err := os.WriteFile(seed, []byte("type,category,amount,date\n"), 0644); err != nil {
		t.Fatalf("Failed to create seed file: %v", err)
	}

	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid defaults",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "valid with seed file",
			mutate:  func(c *Config) { c.SeedCSV = seed },
			wantErr: false,
		},
		{
			name:    "cache disabled",
			mutate:  func(c *Config) { c.ReportCacheSize = 0 },
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range low",
			mutate:      func(c *Config) { c.Port = "0" },
			wantErr:     true,
			errorString: "invalid port 0: must be between 1 and 65535",
		},
		{
			name:        "invalid port - out of range high",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.LogLevel = "trace" },
			wantErr:     true,
			errorString: "invalid log level 'trace'",
		},
		{
			name:        "invalid log format",
			mutate:      func(c *Config) { c.LogFormat = "xml" },
			wantErr:     true,
			errorString: "invalid log format 'xml'",
		},
		{
			name:        "invalid rate limit",
			mutate:      func(c *Config) { c.RateLimitRPM = 0 },
			wantErr:     true,
			errorString: "invalid rate limit 0",
		},
		{
			name:        "negative cache size",
			mutate:      func(c *Config) { c.ReportCacheSize = -1 },
			wantErr:     true,
			errorString: "invalid report cache size -1: must not be negative",
		},
		{
			name:        "cache size too large",
			mutate:      func(c *Config) { c.ReportCacheSize = 5000 },
			wantErr:     true,
			errorString: "invalid report cache size 5000: must be at most 1024",
		},
		{
			name:        "cache ttl too short",
			mutate:      func(c *Config) { c.ReportCacheTTL = 10 * time.Millisecond },
			wantErr:     true,
			errorString: "invalid report cache TTL 10ms: must be at least 1 second",
		},
		{
			name:        "shutdown timeout too long",
			mutate:      func(c *Config) { c.ShutdownTimeout = time.Hour },
			wantErr:     true,
			errorString: "invalid shutdown timeout 1h0m0s: must be at most 5 minutes",
		},
		{
			name:        "missing seed file",
			mutate:      func(c *Config) { c.SeedCSV = "/non/existent/ledger.csv" },
			wantErr:     true,
			errorString: "seed CSV '/non/existent/ledger.csv' is not readable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Config.Validate() error = nil, wantErr %v", tt.wantErr)
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err.Error(), tt.errorString)
				}
			} else if err != nil {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "abc"
	cfg.LogFormat = "xml"
	cfg.RateLimitRPM = -5

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Config.Validate() error = nil, want combined error")
	}
	if got := strings.Count(err.Error(), "\n- "); got != 3 {
		t.Errorf("Config.Validate() reported %d problems, want 3: %v", got, err)
	}
}

func TestLoad(t *testing.T) {
	keys := []string{
		"PORT", "LOG_LEVEL", "LOG_FORMAT", "REPORT_TITLE", "RATE_LIMIT_RPM",
		"REPORT_CACHE_SIZE", "REPORT_CACHE_TTL", "SHUTDOWN_TIMEOUT", "SEED_CSV",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}

	t.Run("default values", func(t *testing.T) {
		cfg := Load()

		if cfg.Port != "8081" {
			t.Errorf("Load() Port = %v, want 8081", cfg.Port)
		}
		if cfg.LogLevel != "info" {
			t.Errorf("Load() LogLevel = %v, want info", cfg.LogLevel)
		}
		if cfg.LogFormat != "text" {
			t.Errorf("Load() LogFormat = %v, want text", cfg.LogFormat)
		}
		if cfg.ReportTitle != "Personal Finance Tracker Report" {
			t.Errorf("Load() ReportTitle = %v", cfg.ReportTitle)
		}
		if cfg.RateLimitRPM != 60 {
			t.Errorf("Load() RateLimitRPM = %v, want 60", cfg.RateLimitRPM)
		}
		if cfg.ReportCacheSize != 32 {
			t.Errorf("Load() ReportCacheSize = %v, want 32", cfg.ReportCacheSize)
		}
		if cfg.ReportCacheTTL != 5*time.Minute {
			t.Errorf("Load() ReportCacheTTL = %v, want 5m", cfg.ReportCacheTTL)
		}
		if cfg.ShutdownTimeout != 30*time.Second {
			t.Errorf("Load() ShutdownTimeout = %v, want 30s", cfg.ShutdownTimeout)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("Load() defaults do not validate: %v", err)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("LOG_LEVEL", "DEBUG")
		t.Setenv("LOG_FORMAT", "json")
		t.Setenv("REPORT_TITLE", "Household")
		t.Setenv("RATE_LIMIT_RPM", "120")
		t.Setenv("REPORT_CACHE_TTL", "45s")

		cfg := Load()

		if cfg.Port != "9090" {
			t.Errorf("Load() Port = %v, want 9090", cfg.Port)
		}
		if cfg.LogLevel != "debug" {
			t.Errorf("Load() LogLevel = %v, want debug", cfg.LogLevel)
		}
		if cfg.SlogLevel() != slog.LevelDebug {
			t.Errorf("SlogLevel() = %v, want debug", cfg.SlogLevel())
		}
		if cfg.LogFormat != "json" {
			t.Errorf("Load() LogFormat = %v, want json", cfg.LogFormat)
		}
		if cfg.ReportTitle != "Household" {
			t.Errorf("Load() ReportTitle = %v, want Household", cfg.ReportTitle)
		}
		if cfg.RateLimitRPM != 120 {
			t.Errorf("Load() RateLimitRPM = %v, want 120", cfg.RateLimitRPM)
		}
		if cfg.ReportCacheTTL != 45*time.Second {
			t.Errorf("Load() ReportCacheTTL = %v, want 45s", cfg.ReportCacheTTL)
		}
	})

	t.Run("invalid environment variables use defaults", func(t *testing.T) {
		t.Setenv("REPORT_CACHE_SIZE", "invalid")
		t.Setenv("SHUTDOWN_TIMEOUT", "invalid")

		cfg := Load()

		if cfg.ReportCacheSize != 32 {
			t.Errorf("Load() ReportCacheSize = %v, want 32 (default for invalid input)", cfg.ReportCacheSize)
		}
		if cfg.ShutdownTimeout != 30*time.Second {
			t.Errorf("Load() ShutdownTimeout = %v, want 30s (default for invalid input)", cfg.ShutdownTimeout)
		}
	})
}
