package main

import (
	"fmt"
	"os"
	"time"

	"sentimen/internal/config"
	"sentimen/internal/logging"
	"sentimen/internal/predict"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose     bool
	configPath  string
	endpoint    string
	timeout     time.Duration
	theme       string
	watchConfig bool

	// Loaded by PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sentimen",
	Short: "sentimen - compare imbalanced and balanced sentiment models",
	Long: `sentimen sends Indonesian text to a sentiment inference service and shows
what two models make of it: one trained on the raw, imbalanced data and one
trained on a balanced resample.

Run without arguments to start the interactive analyzer.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: runInteractive,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging to .sentimen/logs")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: .sentimen/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "", "Inference service base URL (or set SENTIMEN_ENDPOINT)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Per-request timeout (default from config)")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", "", "Color theme: auto, light, dark")
	rootCmd.Flags().BoolVar(&watchConfig, "watch-config", false, "Reload theme and endpoint when the config file changes")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", predict.UserMessage(err))
		os.Exit(1)
	}
}

// setup loads the config, applies flag overrides and starts logging.
func setup(cmd *cobra.Command, args []string) error {
	path := resolvedConfigPath()
	loaded, err := config.Load(path)
	if err != nil {
		return err
	}
	applyFlags(cmd, loaded)
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to resolve working directory: %w", err)
	}
	if err := logging.Initialize(wd, cfg.Logging.Options()); err != nil {
		return err
	}
	logger = logging.Get(logging.CategoryBoot)
	logger.Info("starting",
		zap.String("command", cmd.Name()),
		zap.String("config", path),
		zap.String("endpoint", cfg.Service.BaseURL))
	return nil
}

func resolvedConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultPath()
}

// applyFlags lets explicitly set flags win over file and environment.
func applyFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("endpoint") {
		c.Service.BaseURL = endpoint
	}
	if flags.Changed("timeout") {
		c.Service.Timeout = timeout.String()
	}
	if flags.Changed("theme") {
		c.UI.Theme = theme
	}
	if verbose {
		c.Logging.DebugMode = true
		c.Logging.Level = "debug"
	}
}

// newClient builds the prediction client for c.
func newClient(c *config.Config) *predict.Client {
	pc := predict.DefaultConfig()
	pc.BaseURL = c.Service.BaseURL
	pc.Timeout = c.GetTimeout()
	return predict.NewClient(pc)
}
