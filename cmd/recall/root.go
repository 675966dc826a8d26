package main

import (
	"context"
	"io"
	"os"

	"github.com/sandevgo/recall/internal/config"
	"github.com/sandevgo/recall/internal/service/ui"
	"github.com/sandevgo/recall/pkg/log"
	"github.com/spf13/cobra"
)

var (
	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "recall",
	Short: "Recall: adaptive quiz tutor",
	Long:  `Recall shows one question at a time and reorders the deck after every answer, so weak questions come back sooner.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all subcommands
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
}

func setupLogger(ctx context.Context, out io.Writer) (context.Context, func()) {
	return log.NewContextWithLogger(ctx, log.Options{
		Debug:  debug || config.IsDebug(),
		JSON:   config.IsJSONLog(),
		Output: out,
	})
}

func CustomizeHelp(rootCmd *cobra.Command) {
	cobra.AddTemplateFunc("StyleTitle", func(s string) string { return ui.TitleStyle.Render(s) })
	cobra.AddTemplateFunc("StyleUsage", func(s string) string { return ui.UsageStyle.Render(s) })
	cobra.AddTemplateFunc("StyleFlag", func(s string) string { return ui.FlagStyle.Render(s) })
	cobra.AddTemplateFunc("StyleDesc", func(s string) string { return ui.DescStyle.Render(s) })

	template := `
{{StyleTitle "USAGE"}}
  {{StyleUsage .UseLine}}
{{if gt (len .Commands) 0}}{{StyleTitle "AVAILABLE COMMANDS"}}
{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding}} {{StyleDesc .Short}}{{end}}
{{end}}{{end}}
{{if .HasAvailableLocalFlags}}{{StyleTitle "FLAGS"}}
{{StyleFlag (.LocalFlags.FlagUsages | trimTrailingWhitespaces)}}
{{end}}
`
	rootCmd.SetHelpTemplate(template)
}
