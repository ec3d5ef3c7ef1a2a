// Package config loads the calsync configuration from an optional YAML
// file with environment variable overrides. Every setting has a
// default; a missing file is not an error.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values. The display timezone is fixed per deployment, never
// the host's local zone.
const (
	DefaultTimeZone       = "Asia/Karachi"
	DefaultReconciliation = "trust-request"
	DefaultAddr           = ":8080"
	DefaultMetricsAddr    = ":9090"
	DefaultHTTPTimeout    = 30 * time.Second
)

// Config is the process configuration.
type Config struct {
	// TimeZone is the IANA zone identifier all events are displayed and
	// submitted in.
	TimeZone string `yaml:"timezone"`

	// GraphBaseURL overrides the Microsoft Graph endpoint. Empty means
	// the production endpoint.
	GraphBaseURL string `yaml:"graph_base_url"`

	// Reconciliation selects whose data wins after an update:
	// "trust-request" (default) or "trust-response".
	Reconciliation string `yaml:"reconciliation"`

	// Addr is the snapshot server listen address.
	Addr string `yaml:"addr"`

	// MetricsAddr is the Prometheus metrics listen address.
	MetricsAddr string `yaml:"metrics_addr"`

	// HTTPTimeout bounds each Graph request.
	HTTPTimeout time.Duration `yaml:"http_timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		TimeZone:       DefaultTimeZone,
		Reconciliation: DefaultReconciliation,
		Addr:           DefaultAddr,
		MetricsAddr:    DefaultMetricsAddr,
		HTTPTimeout:    DefaultHTTPTimeout,
	}
}

// Load reads the configuration file at path, if any, and applies
// environment overrides on top of the defaults. An empty path skips the
// file; a named file that does not exist is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// applyEnv overrides file values from CALSYNC_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("CALSYNC_TIMEZONE"); v != "" {
		c.TimeZone = v
	}
	if v := os.Getenv("CALSYNC_GRAPH_BASE_URL"); v != "" {
		c.GraphBaseURL = v
	}
	if v := os.Getenv("CALSYNC_RECONCILIATION"); v != "" {
		c.Reconciliation = v
	}
	if v := os.Getenv("CALSYNC_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("CALSYNC_METRICS_ADDR"); v != "" {
		c.MetricsAddr = v
	}
	if v := os.Getenv("CALSYNC_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.HTTPTimeout = d
		}
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.TimeZone, err)
	}
	if c.Reconciliation != "trust-request" && c.Reconciliation != "trust-response" {
		return fmt.Errorf("invalid reconciliation %q, must be trust-request or trust-response", c.Reconciliation)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive, got %s", c.HTTPTimeout)
	}
	return nil
}

// Location resolves the configured display timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.TimeZone)
}
