package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/casefile/internal/adapters/driven/render"
)

var reportCmd = &cobra.Command{
	Use:   "report CASE",
	Short: "Build the evidence report for a case",
	Long: `Build the evidence report for a case from its snapshot.

The text format is a readable document with a records table; the json
format is the full payload including its content hash.

Examples:
  casefile report CASE_20250601_ab12cd
  casefile report CASE_20250601_ab12cd --format json --out report.json`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringP("format", "f", "text", "output format: text or json")
	reportCmd.Flags().StringP("out", "o", "", "write to file instead of stdout")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	if reportService == nil {
		return errNotConfigured
	}
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	var w io.Writer = cmd.OutOrStdout()
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}

	renderer, err := render.Pick(format, render.NewText(w), render.NewJSON())
	if err != nil {
		return err
	}

	payload, err := reportService.Build(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	doc, err := renderer.Render(cmd.Context(), payload)
	if err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	if _, err := w.Write(doc); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	if out != "" {
		cmd.Printf("Wrote %s (hash %s)\n", out, payload.ContentHash)
	}
	return nil
}
