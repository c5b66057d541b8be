package config

import (
	"os"
	"strings"
	"time"
)

// Default values for configuration.
const (
	DefaultMarker         = "Summoned"
	DefaultOutputFormat   = OutputText
	DefaultLogLevel       = "warn"
	DefaultWebhookTimeout = 10 * time.Second
)

// Environment variable names.
const (
	EnvReports  = "GACHALOG_REPORTS"
	EnvMarker   = "GACHALOG_MARKER"
	EnvDatabase = "GACHALOG_DATABASE"
	EnvLogLevel = "GACHALOG_LOG_LEVEL"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Reports:  []string{},
		Marker:   DefaultMarker,
		Output:   OutputConfig{Format: DefaultOutputFormat},
		LogLevel: DefaultLogLevel,
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if reports := os.Getenv(EnvReports); reports != "" {
		c.Reports = splitList(reports)
	}
	if marker := os.Getenv(EnvMarker); marker != "" {
		c.Marker = marker
	}
	if db := os.Getenv(EnvDatabase); db != "" {
		c.Database = db
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.LogLevel = level
	}
}

// splitList splits a comma-separated list, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
