package main

import (
	"os"
	"os/signal"

	"github.com/sandevgo/recall/internal/transport/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve quiz tools to an MCP client over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		// stdout carries the protocol
		var flushLog func()
		ctx, flushLog = setupLogger(ctx, os.Stderr)
		defer flushLog()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.db.Close()

		server := mcp.NewServer(a.trainer, os.Stdin, os.Stdout)
		defer server.Shutdown(ctx)

		return server.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
