// Package config handles application configuration and environment loading.
package config

import (
	"log/slog"
	"os"
	"strings"
)

// Config holds the configuration for the import toolkit.
type Config struct {
	DBPath      string // path to the SQLite inventory file
	LookupDir   string // directory holding the lookup CSVs
	ProfilePath string // optional YAML import profile
	LogLevel    string // log level: debug, info, warn, error (default "info")
	Env         string // environment: "development" (default) or "production"

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsProduction returns true when running in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// LoadFromEnv loads configuration from environment variables. Missing
// values fall back to defaults suitable for local use.
func LoadFromEnv() *Config {
	cfg := &Config{
		DBPath:      os.Getenv("CMTI_DB_PATH"),
		LookupDir:   os.Getenv("CMTI_LOOKUP_DIR"),
		ProfilePath: os.Getenv("CMTI_PROFILE"),
		LogLevel:    os.Getenv("CMTI_LOG_LEVEL"),
		Env:         os.Getenv("CMTI_ENV"),
	}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.DBPath == "" {
		c.DBPath = "cmti.sqlite"
		c.Warnings = append(c.Warnings, "CMTI_DB_PATH not set, using ./cmti.sqlite")
	}
	if c.LookupDir == "" {
		c.LookupDir = "lookups"
		c.Warnings = append(c.Warnings, "CMTI_LOOKUP_DIR not set, using ./lookups")
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Env == "" {
		c.Env = "development"
	}
}
