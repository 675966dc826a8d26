package main

import (
	"fmt"
	"os"

	"github.com/sandevgo/recall/internal/service/importer"
	"github.com/sandevgo/recall/internal/service/ui"
	"github.com/spf13/cobra"
)

var (
	seedSheet    string
	seedNoHeader bool
)

var seedCmd = &cobra.Command{
	Use:          "seed <file>",
	Short:        "Import questions from .xlsx, .csv or .json",
	Long:         `Columns for tabular files: A id (optional), B image URL, C image description, D answer.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context(), os.Stderr)
		defer flushLog()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.db.Close()

		imp := importer.NewImporter(a.questions, importer.Options{
			Sheet:      seedSheet,
			SkipHeader: !seedNoHeader,
		})
		res, err := imp.Import(ctx, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.TitleStyle.Render("Import finished"))
		fmt.Fprintf(out, "processed %d, imported %d, skipped %d\n", res.Total, res.Imported, res.Skipped)
		for _, e := range res.Errors {
			fmt.Fprintln(out, ui.DescStyle.Render("  "+e))
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedSheet, "sheet", "", "xlsx sheet name (default: first sheet)")
	seedCmd.Flags().BoolVar(&seedNoHeader, "no-header", false, "first row is data, not a header")
	rootCmd.AddCommand(seedCmd)
}
