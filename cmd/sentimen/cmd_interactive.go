package main

import (
	"context"

	"sentimen/cmd/sentimen/analyzer"
	"sentimen/internal/config"
	"sentimen/internal/predict"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// runInteractive starts the TUI.
func runInteractive(cmd *cobra.Command, args []string) error {
	client := newClient(cfg)
	defer client.CloseIdleConnections()

	m := analyzer.New(analyzer.Options{
		Predictor: client,
		Endpoint:  client.BaseURL(),
		Theme:     cfg.UI.Theme,
		MaxWidth:  cfg.UI.Width,
		NewPredictor: func(c *config.Config) predict.Predictor {
			return newClient(c)
		},
	})
	p := tea.NewProgram(m, tea.WithAltScreen())

	if watchConfig {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		w, err := config.NewWatcher(resolvedConfigPath(), func(c *config.Config, err error) {
			if c != nil {
				applyFlags(cmd, c)
			}
			p.Send(analyzer.ConfigReloaded(c, err))
		})
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()
		logger.Info("watching config", zap.String("path", resolvedConfigPath()))
	}

	_, err := p.Run()
	return err
}
