// Package config provides configuration loading and validation for gachalog.
package config

import "time"

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// Reports lists report files or glob patterns to extract from.
	Reports []string `yaml:"reports"`

	// Marker is the word that ends every character-name line.
	Marker string `yaml:"marker,omitempty"`

	Output OutputConfig `yaml:"output,omitempty"`

	// Database is an optional SQLite file the extracted table is saved to.
	Database string `yaml:"database,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level,omitempty"`

	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`
}

// OutputFormat names a table rendering.
type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
	OutputCSV  OutputFormat = "csv"
)

// OutputConfig controls how the extracted table is rendered.
type OutputConfig struct {
	// Format is text, json, or csv.
	Format OutputFormat `yaml:"format,omitempty"`

	// Path writes the rendering to a file instead of stdout.
	Path string `yaml:"path,omitempty"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnRecords fires only when at least one record was extracted (default).
	WebhookTriggerOnRecords WebhookTrigger = "on_records"
	// WebhookTriggerAlways fires after every extraction.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines an endpoint that receives the extraction report.
type WebhookConfig struct {
	Name    string         `yaml:"name,omitempty"`
	URL     string         `yaml:"url"`
	Token   string         `yaml:"token,omitempty"` // bearer token; ${VAR} is expanded
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`
	Timeout time.Duration  `yaml:"timeout,omitempty"`
}
