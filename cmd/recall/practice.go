package main

import (
	"os"
	"os/signal"

	"github.com/sandevgo/recall/internal/transport/cli"
	"github.com/spf13/cobra"
)

var learnerFlag string

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Practice in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		// keep log lines out of the session
		var flushLog func()
		ctx, flushLog = setupLogger(ctx, os.Stderr)
		defer flushLog()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.db.Close()

		rl, err := cli.NewReadLine(a.tutor, a.cfg, learnerFlag)
		if err != nil {
			return err
		}
		defer rl.Shutdown(ctx)

		return rl.Start(ctx)
	},
}

func init() {
	practiceCmd.Flags().StringVarP(&learnerFlag, "learner", "l", cli.DefaultLearnerID, "learner id to practice as")
	rootCmd.AddCommand(practiceCmd)
}
