// Package config loads shopfront configuration: defaults, overlaid by an
// optional YAML file, overlaid by environment variables. The file is read
// once at startup; there is no hot reload.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all shopfront configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	UI      UIConfig      `yaml:"ui"`
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the remote catalog API client.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"` // Go duration string, e.g. "15s"
}

// UIConfig configures the terminal UI.
type UIConfig struct {
	Theme    string `yaml:"theme"` // dark | light
	Currency string `yaml:"currency"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Debug bool   `yaml:"debug"`
	File  string `yaml:"file"` // empty = stderr
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "https://fakestoreapi.com",
			Timeout: "15s",
		},
		UI: UIConfig{
			Theme:    "dark",
			Currency: "$",
		},
		Logging: LoggingConfig{
			Debug: false,
			File:  "",
		},
	}
}

// DefaultPath returns the default config file location,
// ~/.shopfront/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".shopfront", "config.yaml")
	}
	return filepath.Join(home, ".shopfront", "config.yaml")
}

// Load builds the effective configuration: defaults, then the YAML file at
// path (a missing file is not an error), then environment overrides. The
// result is validated before being returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Defaults apply.
		case err != nil:
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies SHOPFRONT_* environment variables on top of the
// current values. An empty variable is ignored.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SHOPFRONT_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("SHOPFRONT_API_TIMEOUT"); v != "" {
		c.API.Timeout = v
	}
	if v := os.Getenv("SHOPFRONT_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("SHOPFRONT_DEBUG"); v == "1" || v == "true" {
		c.Logging.Debug = true
	}
}

// Validate checks the configuration for values that would fail later in a
// less obvious place.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return fmt.Errorf("api.timeout %q: %w", c.API.Timeout, err)
	}
	if d <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %q", c.API.Timeout)
	}
	if c.UI.Theme != "dark" && c.UI.Theme != "light" {
		return fmt.Errorf("ui.theme must be dark or light, got %q", c.UI.Theme)
	}
	return nil
}

// RequestTimeout returns the parsed API timeout. Validate guarantees it
// parses; a zero value falls back to 15 seconds for callers that built a
// Config by hand.
func (c *Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}
