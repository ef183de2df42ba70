package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds all server configuration
// Tags:
//
//	env: Environment variable name
//	envDefault: Default value if not set
type Config struct {
	// Server basics
	Addr        string        `env:"REDIS_ADDR" envDefault:":6380"`
	IdleTimeout time.Duration `env:"REDIS_IDLE_TIMEOUT" envDefault:"0"`

	// Persistence
	DBFilename       string        `env:"REDIS_DBFILENAME" envDefault:"dump.rdb.txt"`
	SnapshotInterval time.Duration `env:"REDIS_SNAPSHOT_INTERVAL" envDefault:"60s"`

	// Capacity
	MaxConnections int `env:"REDIS_MAX_CONNECTIONS" envDefault:"10000"`

	// Rate limiting
	MaxCommandsPerSec int `env:"REDIS_MAX_COMMANDS_PER_SEC" envDefault:"1000"`

	// CPU safety threshold (host-wide CPU percentage, see internal/limits)
	CPURejectThreshold float64 `env:"REDIS_CPU_REJECT_THRESHOLD" envDefault:"90.0"`

	// Monitoring
	MetricsAddr     string        `env:"REDIS_METRICS_ADDR" envDefault:":9121"`
	MetricsInterval time.Duration `env:"METRICS_INTERVAL" envDefault:"15s"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Environment
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
}

// LoadConfig reads configuration from .env file and environment variables
// Priority: ENV vars > .env file > defaults
//
// Optional logger parameter for structured logging. If nil, logs to stdout.
func LoadConfig(logger *zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if logger != nil {
			logger.Info().Msg("No .env file found (using environment variables only)")
		} else {
			fmt.Println("Info: No .env file found (using environment variables only)")
		}
	} else if logger != nil {
		logger.Info().Msg("Loaded configuration from .env file")
	}

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if logger != nil {
		logger.Info().Msg("Configuration loaded and validated successfully")
	}

	return cfg, nil
}

// Validate checks configuration for errors
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("REDIS_ADDR is required")
	}
	if c.DBFilename == "" {
		return fmt.Errorf("REDIS_DBFILENAME is required")
	}
	if c.MaxConnections < 1 {
		return fmt.Errorf("REDIS_MAX_CONNECTIONS must be > 0, got %d", c.MaxConnections)
	}
	if c.SnapshotInterval <= 0 {
		return fmt.Errorf("REDIS_SNAPSHOT_INTERVAL must be > 0, got %s", c.SnapshotInterval)
	}
	if c.CPURejectThreshold < 0 || c.CPURejectThreshold > 100 {
		return fmt.Errorf("REDIS_CPU_REJECT_THRESHOLD must be 0-100, got %.1f", c.CPURejectThreshold)
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error (got: %s)", c.LogLevel)
	}

	validLogFormats := map[string]bool{"json": true, "pretty": true}
	if !validLogFormats[c.LogFormat] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, pretty (got: %s)", c.LogFormat)
	}

	return nil
}

// Print logs configuration for debugging (human-readable format)
// For production, use LogConfig() with structured logging
func (c *Config) Print() {
	fmt.Println("=== Server Configuration ===")
	fmt.Printf("Environment:      %s\n", c.Environment)
	fmt.Printf("Address:          %s\n", c.Addr)
	fmt.Printf("Idle Timeout:     %s\n", c.IdleTimeout)
	fmt.Println("\n=== Persistence ===")
	fmt.Printf("DB Filename:      %s\n", c.DBFilename)
	fmt.Printf("Snapshot Interval: %s\n", c.SnapshotInterval)
	fmt.Println("\n=== Capacity ===")
	fmt.Printf("Max Connections:  %d\n", c.MaxConnections)
	fmt.Printf("Max Commands/sec: %d\n", c.MaxCommandsPerSec)
	fmt.Println("\n=== Safety Thresholds ===")
	fmt.Printf("CPU Reject:       %.1f%%\n", c.CPURejectThreshold)
	fmt.Println("\n=== Logging ===")
	fmt.Printf("Level:            %s\n", c.LogLevel)
	fmt.Printf("Format:           %s\n", c.LogFormat)
	fmt.Println("============================")
}

// LogConfig logs configuration using structured logging (Loki-compatible)
func (c *Config) LogConfig(logger zerolog.Logger) {
	logger.Info().
		Str("environment", c.Environment).
		Str("addr", c.Addr).
		Dur("idle_timeout", c.IdleTimeout).
		Str("db_filename", c.DBFilename).
		Dur("snapshot_interval", c.SnapshotInterval).
		Int("max_connections", c.MaxConnections).
		Int("max_commands_per_sec", c.MaxCommandsPerSec).
		Float64("cpu_reject_threshold", c.CPURejectThreshold).
		Dur("metrics_interval", c.MetricsInterval).
		Str("log_level", c.LogLevel).
		Str("log_format", c.LogFormat).
		Msg("Server configuration loaded")
}
