package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all sentimen configuration.
type Config struct {
	// Inference service
	Service ServiceConfig `yaml:"service"`

	// Terminal UI
	UI UIConfig `yaml:"ui"`

	// Browser page server
	Server ServerConfig `yaml:"server"`

	// Batch analysis
	Batch BatchConfig `yaml:"batch"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ServiceConfig locates the inference service.
type ServiceConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// UIConfig configures the interactive terminal UI.
type UIConfig struct {
	Theme string `yaml:"theme"` // light, dark, auto
	Width int    `yaml:"width"` // 0 = follow the terminal
}

// ServerConfig configures `sentimen serve`.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// BatchConfig configures `sentimen batch`.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			BaseURL: "http://127.0.0.1:8000",
			Timeout: "30s",
		},
		UI: UIConfig{
			Theme: "auto",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:3000",
		},
		Batch: BatchConfig{
			Concurrency: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			File:   filepath.Join(".sentimen", "logs", "sentimen.log"),
		},
	}
}

// DefaultPath returns the default config location relative to the
// working directory.
func DefaultPath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return filepath.Join(".sentimen", "config.yaml")
	}
	return filepath.Join(cwd, ".sentimen", "config.yaml")
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; environment overrides are applied either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SENTIMEN_ENDPOINT"); v != "" {
		c.Service.BaseURL = v
	}
	if v := os.Getenv("SENTIMEN_TIMEOUT"); v != "" {
		c.Service.Timeout = v
	}
	if v := os.Getenv("SENTIMEN_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("SENTIMEN_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("SENTIMEN_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("SENTIMEN_DEBUG"); v != "" {
		if on, err := strconv.ParseBool(v); err == nil {
			c.Logging.DebugMode = on
		}
	}
}

// GetTimeout returns the per-request timeout as a duration.
func (c *Config) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Service.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// GetConcurrency returns the batch worker limit, at least 1.
func (c *Config) GetConcurrency() int {
	if c.Batch.Concurrency < 1 {
		return 1
	}
	return c.Batch.Concurrency
}

// ValidThemes lists the accepted ui.theme values.
var ValidThemes = []string{"light", "dark", "auto"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Service.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid service base_url %q: must be an absolute http(s) URL", c.Service.BaseURL)
	}
	if _, err := time.ParseDuration(c.Service.Timeout); err != nil {
		return fmt.Errorf("invalid service timeout %q: %w", c.Service.Timeout, err)
	}
	if !slices.Contains(ValidThemes, c.UI.Theme) {
		return fmt.Errorf("invalid ui theme: %s (valid: %v)", c.UI.Theme, ValidThemes)
	}
	if c.UI.Width < 0 {
		return fmt.Errorf("invalid ui width: %d", c.UI.Width)
	}
	if c.Batch.Concurrency < 0 {
		return fmt.Errorf("invalid batch concurrency: %d", c.Batch.Concurrency)
	}
	return nil
}
