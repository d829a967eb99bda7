package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	t.Setenv("CMTI_DB_PATH", "")
	t.Setenv("CMTI_LOOKUP_DIR", "")
	t.Setenv("CMTI_LOG_LEVEL", "")
	t.Setenv("CMTI_ENV", "")

	cfg := LoadFromEnv()
	assert.Equal(t, "cmti.sqlite", cfg.DBPath)
	assert.Equal(t, "lookups", cfg.LookupDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.IsProduction())
	assert.Len(t, cfg.Warnings, 2)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("CMTI_DB_PATH", "/data/inventory.sqlite")
	t.Setenv("CMTI_LOOKUP_DIR", "/data/lookups")
	t.Setenv("CMTI_LOG_LEVEL", "debug")
	t.Setenv("CMTI_ENV", "production")

	cfg := LoadFromEnv()
	assert.Equal(t, "/data/inventory.sqlite", cfg.DBPath)
	assert.True(t, cfg.IsProduction())
	assert.Empty(t, cfg.Warnings)
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		cfg := &Config{LogLevel: in}
		assert.Equal(t, want, cfg.SlogLevel(), in)
	}
}
