// Package config provides configuration loading for filingd.
//
// Configuration is loaded from a YAML file and overridden by
// environment variables, with hardcoded defaults as the base layer.
package config

import (
	"fmt"
	"time"

	"github.com/fyrsmithlabs/filingd/internal/extraction"
	"github.com/fyrsmithlabs/filingd/internal/logging"
	"github.com/fyrsmithlabs/filingd/internal/telemetry"
)

// Config holds the complete filingd configuration.
type Config struct {
	Server     ServerConfig      `koanf:"server"`
	Logging    logging.Config    `koanf:"logging"`
	Telemetry  telemetry.Config  `koanf:"telemetry"`
	Extraction extraction.Config `koanf:"extraction"`
	Upload     UploadConfig      `koanf:"upload"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `koanf:"http_host"`
	Port            int           `koanf:"http_port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// UploadConfig holds filing upload limits.
type UploadConfig struct {
	MaxFileMB int `koanf:"max_file_mb"` // Per-file ceiling for uploaded filings
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.http_port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive")
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	if c.Upload.MaxFileMB < 1 || c.Upload.MaxFileMB > 1024 {
		return fmt.Errorf("upload.max_file_mb must be between 1 and 1024, got %d", c.Upload.MaxFileMB)
	}
	if c.Extraction.MaxSectionChars < 0 {
		return fmt.Errorf("extraction.max_section_chars cannot be negative")
	}
	return nil
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Telemetry.Endpoint == "" {
		defaults := telemetry.NewDefaultConfig()
		defaults.Enabled = cfg.Telemetry.Enabled
		cfg.Telemetry = *defaults
	}

	if cfg.Extraction.Provider == "" {
		cfg.Extraction.Provider = "heuristic"
	}
	if cfg.Extraction.MaxSectionChars == 0 {
		cfg.Extraction.MaxSectionChars = extraction.DefaultMaxSectionChars
	}

	if cfg.Upload.MaxFileMB == 0 {
		cfg.Upload.MaxFileMB = 50
	}
}
