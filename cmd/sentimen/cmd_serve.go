package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sentimen/internal/web"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveAddr string

// serveCmd serves the analyzer page in a browser
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analyzer as a web page",
	Long: `Starts a small web server with the same text box and model panels as the
terminal UI. Requests are forwarded to the inference service.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, or set SENTIMEN_ADDR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	client := newClient(cfg)
	defer client.CloseIdleConnections()

	srv, err := web.NewServer(client, web.Config{Addr: addr, Endpoint: client.BaseURL()})
	if err != nil {
		return err
	}

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s (backend %s)\n", addr, client.BaseURL())
	logger.Info("serve", zap.String("addr", addr))
	return srv.Run(ctx)
}
