// =============================================================================
// AKT Filler - Serve Command
// =============================================================================
//
// This file defines the 'serve' command, which starts the upload form.
//
// COMMAND USAGE:
//   akt serve [--listen :8080]
//
// The server stops gracefully on SIGINT or SIGTERM.
//
// =============================================================================

package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/akt-filler/internal/converter"
	"github.com/ginjaninja78/akt-filler/internal/server"
)

// listenAddr overrides server.listen when set.
var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web upload form",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.Server.Listen
		if listenAddr != "" {
			addr = listenAddr
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		app := server.NewApp(cfg.Server, logger)
		server.New(converter.New(cfg, logger), logger).Register(app)

		return server.Serve(ctx, app, addr, logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "Address to listen on (overrides server.listen)")
}
