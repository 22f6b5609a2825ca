package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/pettracker/pet/internal/app"
	"github.com/pettracker/pet/pkg/report"
	"github.com/spf13/cobra"
)

func newReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a monthly report as CSV or PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			month, _ := cmd.Flags().GetString("month")
			format, _ := cmd.Flags().GetString("format")
			output, _ := cmd.Flags().GetString("output")
			return withDependencies(cmd, func(ctx context.Context, deps *app.Dependencies) error {
				renderer, err := rendererFor(deps, format)
				if err != nil {
					return err
				}
				if month == "" {
					month = deps.ReportService.CurrentMonth()
				}
				r, err := deps.ReportService.MonthlyReport(ctx, month)
				if err != nil {
					return err
				}
				document, err := renderer.Render(r)
				if err != nil {
					return err
				}
				if output == "" {
					output = fmt.Sprintf("expenses-%s.%s", month, renderer.FileExtension())
				}
				if output == "-" {
					_, err = cmd.OutOrStdout().Write(document)
					return err
				}
				if err := os.WriteFile(output, document, 0o644); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", output)
				return nil
			})
		},
	}
	cmd.Flags().StringP("month", "m", "", "Month (YYYY-MM), defaults to the current month")
	cmd.Flags().StringP("format", "f", "csv", "csv or pdf")
	cmd.Flags().StringP("output", "o", "", "Output file, - for stdout")
	return cmd
}

func rendererFor(deps *app.Dependencies, format string) (report.ReportRenderer, error) {
	switch format {
	case "csv":
		return deps.CsvReportRenderer, nil
	case "pdf":
		return deps.PdfReportRenderer, nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}
