package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"SENTIMEN_ENDPOINT", "SENTIMEN_TIMEOUT", "SENTIMEN_THEME", "SENTIMEN_ADDR", "SENTIMEN_LOG_LEVEL", "SENTIMEN_DEBUG"} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Service.BaseURL != "http://127.0.0.1:8000" {
		t.Errorf("expected default base URL, got %s", cfg.Service.BaseURL)
	}
	if cfg.GetTimeout() != 30*time.Second {
		t.Errorf("expected 30s timeout, got %s", cfg.GetTimeout())
	}
	if cfg.Logging.DebugMode {
		t.Error("expected logging off by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Service.BaseURL = "http://inference:9000"
	cfg.UI.Theme = "dark"
	cfg.Batch.Concurrency = 8

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Service.BaseURL != "http://inference:9000" {
		t.Errorf("expected base URL round trip, got %s", loaded.Service.BaseURL)
	}
	if loaded.UI.Theme != "dark" {
		t.Errorf("expected Theme=dark, got %s", loaded.UI.Theme)
	}
	if loaded.GetConcurrency() != 8 {
		t.Errorf("expected concurrency 8, got %d", loaded.GetConcurrency())
	}
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Addr != DefaultConfig().Server.Addr {
		t.Errorf("expected default addr, got %s", cfg.Server.Addr)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("ui:\n  theme: light\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("expected theme from file, got %s", cfg.UI.Theme)
	}
	if cfg.Service.Timeout != "30s" {
		t.Errorf("expected default timeout kept, got %s", cfg.Service.Timeout)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("service: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"relative base url", func(c *Config) { c.Service.BaseURL = "/predict" }},
		{"non-http scheme", func(c *Config) { c.Service.BaseURL = "ftp://host" }},
		{"bad timeout", func(c *Config) { c.Service.Timeout = "soon" }},
		{"bad theme", func(c *Config) { c.UI.Theme = "neon" }},
		{"negative width", func(c *Config) { c.UI.Width = -1 }},
		{"negative concurrency", func(c *Config) { c.Batch.Concurrency = -2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestGetters_Fallbacks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Service.Timeout = "nonsense"
	if cfg.GetTimeout() != 30*time.Second {
		t.Errorf("expected fallback timeout, got %s", cfg.GetTimeout())
	}
	cfg.Service.Timeout = "-5s"
	if cfg.GetTimeout() != 30*time.Second {
		t.Errorf("expected fallback for negative timeout, got %s", cfg.GetTimeout())
	}
	cfg.Batch.Concurrency = 0
	if cfg.GetConcurrency() != 1 {
		t.Errorf("expected concurrency floor of 1, got %d", cfg.GetConcurrency())
	}
}

func TestLoggingConfig_Options(t *testing.T) {
	lc := LoggingConfig{DebugMode: true, Level: "debug", Categories: map[string]bool{"api": false}}
	if opts := lc.Options(); !opts.DebugMode || opts.Level != "debug" || opts.Categories["api"] {
		t.Errorf("unexpected options: %+v", opts)
	}
}
