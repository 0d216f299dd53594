// Package logging provides config-driven categorized logging for sentimen.
// Records go to a single file under the workspace (.sentimen/logs/) because
// the interactive UI owns the terminal. When debug mode is off every
// category gets a no-op logger.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot   Category = "boot"   // Startup, config resolution
	CategoryAPI    Category = "api"    // Calls to the inference service
	CategoryUI     Category = "ui"     // Interactive TUI state transitions
	CategoryServer Category = "server" // Browser page server
	CategoryBatch  Category = "batch"  // Batch analysis
	CategoryConfig Category = "config" // Config reloads and watcher events
)

// Options mirrors the relevant parts of config.LoggingConfig
// to avoid circular imports.
type Options struct {
	DebugMode  bool
	Level      string // debug, info, warn, error
	Format     string // json, console
	File       string // absolute, or relative to the workspace
	Categories map[string]bool
}

var (
	mu      sync.RWMutex
	opts    Options
	root    *zap.Logger
	loggers = make(map[Category]*zap.Logger)
)

// Initialize sets up logging for the given workspace. It is safe to call
// again; the previous root logger is synced and replaced.
func Initialize(workspace string, o Options) error {
	mu.Lock()
	defer mu.Unlock()

	if root != nil {
		_ = root.Sync()
	}
	opts = o
	root = nil
	loggers = make(map[Category]*zap.Logger)

	if !o.DebugMode {
		return nil
	}

	path := o.File
	if path == "" {
		path = filepath.Join(".sentimen", "logs", "sentimen.log")
	}
	if !filepath.IsAbs(path) {
		if workspace == "" {
			return fmt.Errorf("workspace path required for relative log file %q", path)
		}
		path = filepath.Join(workspace, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	level := zapcore.InfoLevel
	if o.Level != "" {
		parsed, err := zapcore.ParseLevel(strings.ToLower(o.Level))
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", o.Level, err)
		}
		level = parsed
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.Sampling = nil
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	switch o.Format {
	case "", "json":
		cfg.Encoding = "json"
	case "console", "text":
		cfg.Encoding = "console"
	default:
		return fmt.Errorf("invalid log format %q (valid: json, console)", o.Format)
	}

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	root = l

	root.Named(string(CategoryBoot)).Info("logging initialized",
		zap.String("workspace", workspace),
		zap.String("file", path),
		zap.String("level", level.String()))
	return nil
}

// IsDebugMode returns whether logging is enabled at all.
func IsDebugMode() bool {
	mu.RLock()
	defer mu.RUnlock()
	return opts.DebugMode && root != nil
}

// IsCategoryEnabled returns whether a specific category is enabled.
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	return categoryEnabledLocked(category)
}

func categoryEnabledLocked(category Category) bool {
	if !opts.DebugMode || root == nil {
		return false
	}
	if opts.Categories == nil {
		return true
	}
	enabled, exists := opts.Categories[string(category)]
	if !exists {
		return true
	}
	return enabled
}

// Get returns (or creates) the logger for the given category.
// Returns a no-op logger if debug mode is disabled or category is disabled.
func Get(category Category) *zap.Logger {
	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	enabled := categoryEnabledLocked(category)
	mu.RUnlock()

	if !enabled {
		return zap.NewNop()
	}

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}
	if root == nil {
		return zap.NewNop()
	}
	l := root.Named(string(category))
	loggers[category] = l
	return l
}

// Sync flushes any buffered records.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	if root != nil {
		_ = root.Sync()
	}
}

// Reset drops all loggers and disables logging.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	if root != nil {
		_ = root.Sync()
	}
	opts = Options{}
	root = nil
	loggers = make(map[Category]*zap.Logger)
}
