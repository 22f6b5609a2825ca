package cli

import (
	"context"
	"fmt"

	"github.com/pettracker/pet/internal/app"
	"github.com/pettracker/pet/pkg/dashboard"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newDashboardCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Print budget versus spending for a month",
		RunE: func(cmd *cobra.Command, args []string) error {
			month, _ := cmd.Flags().GetString("month")
			return withDependencies(cmd, func(ctx context.Context, deps *app.Dependencies) error {
				if month == "" {
					month = deps.DashboardService.CurrentMonth()
				}
				d, err := deps.DashboardService.GetDashboard(ctx, month)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderDashboard(d))
				return nil
			})
		},
	}
	cmd.Flags().StringP("month", "m", "", "Month (YYYY-MM), defaults to the current month")
	return cmd
}

func renderDashboard(d dashboard.Dashboard) string {
	summary := fmt.Sprintf("%s  spent %s of %s  (%d expenses)",
		pterm.FgLightCyan.Sprint(d.Month), d.TotalSpent.StringFixed(2), budgetText(d), d.ExpenseCount)
	if d.Empty() {
		return summary + "\n" + pterm.FgYellow.Sprint("No expenses or budgets recorded for this month")
	}

	tableData := pterm.TableData{{"Category", "Spent", "Budget", "Remaining"}}
	for _, row := range d.Rows {
		remaining := "-"
		if row.Remaining != nil {
			remaining = pterm.FgGreen.Sprint(row.Remaining.StringFixed(2))
			if row.Remaining.IsNegative() {
				remaining = pterm.FgRed.Sprint(row.Remaining.StringFixed(2))
			}
		}
		tableData = append(tableData, []string{row.Category, row.Spent.StringFixed(2), row.Budget.StringFixed(2), remaining})
	}

	table, _ := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(tableData).
		Srender()
	return summary + "\n" + table
}

func budgetText(d dashboard.Dashboard) string {
	if d.Remaining == nil {
		return "no overall budget"
	}
	return fmt.Sprintf("%s (%s%% used)", d.Overall.StringFixed(2), d.PercentUsed.StringFixed(1))
}
