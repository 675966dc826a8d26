package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sandevgo/recall/pkg/log"
	"github.com/sandevgo/recall/pkg/srv"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and Telegram bot",
	Long:  `Starts every enabled transport (HTTP JSON API, Telegram bot) and the daily digest.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// logger setup
		var flushLog func()
		ctx, flushLog = setupLogger(ctx, os.Stdout)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting recall")

		a, err := newApp(ctx)
		if err != nil {
			return err
		}

		services, err := NewServices(ctx, a)
		if err != nil {
			a.db.Close()
			return err
		}

		srv.StartServices(ctx, stop, services)

		// Wait for shutdown signal
		srv.ShutdownServices(ctx, services)
		logger.Info().Msg("recall has been shut down gracefully")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
