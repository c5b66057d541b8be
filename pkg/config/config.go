package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and validates a configuration file.
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandTokens()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// FromEnvironment returns the defaults with environment overrides applied,
// for runs without a configuration file.
func FromEnvironment() *Config {
	cfg := DefaultConfig()
	cfg.applyEnvironmentOverrides()
	return cfg
}

// Validate checks a configuration for errors and fills in defaults.
// It is safe to call more than once; tokens are expanded by Load only.
// An empty report list is allowed here because reports may also come
// from the command line; see RequireReports.
func Validate(cfg *Config) error {
	if cfg.Marker == "" {
		cfg.Marker = DefaultMarker
	}
	if strings.ContainsAny(cfg.Marker, " \t") {
		return fmt.Errorf("marker: must be a single word, got %q", cfg.Marker)
	}

	switch cfg.Output.Format {
	case "":
		cfg.Output.Format = DefaultOutputFormat
	case OutputText, OutputJSON, OutputCSV:
	default:
		return fmt.Errorf("output.format: invalid format %q (must be text, json, or csv)", cfg.Output.Format)
	}

	switch strings.ToLower(cfg.LogLevel) {
	case "":
		cfg.LogLevel = DefaultLogLevel
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level: invalid level %q (must be debug, info, warn, or error)", cfg.LogLevel)
	}

	for i := range cfg.Webhooks {
		if err := validateWebhook(&cfg.Webhooks[i]); err != nil {
			name := cfg.Webhooks[i].Name
			if name == "" {
				name = cfg.Webhooks[i].URL
			}
			return fmt.Errorf("webhooks[%d] (%s): %w", i, name, err)
		}
	}

	return nil
}

// RequireReports returns an error if no report sources are configured.
func (c *Config) RequireReports() error {
	if len(c.Reports) == 0 {
		return errors.New("reports: at least one report is required")
	}
	return nil
}

func validateWebhook(wh *WebhookConfig) error {
	if wh.URL == "" {
		return errors.New("url is required")
	}

	u, err := url.Parse(wh.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("url must have a host")
	}

	switch wh.Trigger {
	case "":
		wh.Trigger = WebhookTriggerOnRecords
	case WebhookTriggerOnRecords, WebhookTriggerAlways, WebhookTriggerNever:
	default:
		return fmt.Errorf("invalid trigger %q (must be on_records, always, or never)", wh.Trigger)
	}

	if wh.Timeout <= 0 {
		wh.Timeout = DefaultWebhookTimeout
	}

	return nil
}

// expandTokens resolves ${VAR} references in webhook tokens as read from
// the file. Expanded values are never expanded again.
func (c *Config) expandTokens() {
	for i := range c.Webhooks {
		c.Webhooks[i].Token = expandEnvVar(c.Webhooks[i].Token)
	}
}

// expandEnvVar expands a value of the form ${VAR} or $VAR.
func expandEnvVar(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}
	if strings.HasPrefix(s, "$") {
		return os.Getenv(s[1:])
	}
	return s
}
