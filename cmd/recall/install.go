package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sandevgo/recall/internal/config"
	"github.com/sandevgo/recall/internal/service/installer"
	"github.com/sandevgo/recall/pkg/log"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:           "install",
	Short:         "Create the runtime configuration interactively",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Setup logger
		var flushLog func()
		ctx, flushLog = setupLogger(ctx, os.Stderr)
		defer flushLog()

		logger := log.FromCtx(ctx)
		runtimePath := config.GetRuntimePath()

		envPath, err := installer.RunWizard(runtimePath)
		if err != nil {
			return err
		}

		// make sure the database opens with the new settings
		if err := godotenv.Load(envPath); err != nil {
			logger.Warn().Err(err).Str("path", envPath).Msg("failed to load .env file")
		}

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		a.db.Close()

		logger.Info().Msgf("initialized runtime directory at: %s", runtimePath)
		logger.Info().Msg("Installation complete! Import questions with 'recall seed <file>', then run 'recall serve'.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
