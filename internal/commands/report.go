package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/envelope-dev/envelope/internal/money"
	"github.com/envelope-dev/envelope/internal/monthkey"
	"github.com/envelope-dev/envelope/internal/reconcile"
)

func newReportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "report <YYYY-MM>",
		Short: "Budgeted-vs-actual comparison for a month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd.Context(), budgetDir(cmd))
			if err != nil {
				return err
			}
			defer ws.close()

			year, month, err := monthkey.Parse(args[0])
			if err != nil {
				return err
			}

			report := reconcile.CompareMonth(
				ws.budget.Categories(),
				ws.budget.Allocations(),
				ws.ledger.Transactions(),
				year, month)

			start, end := reconcile.MonthRange(year, month)
			fmt.Printf("Budget report %s (%s .. %s)\n\n",
				args[0], start.Format("2006-01-02"), end.Format("2006-01-02"))
			fmt.Printf("%-20s  %12s  %12s  %12s  %s\n", "Category", "Budgeted", "Actual", "Difference", "")
			for _, c := range report.Comparisons {
				marker := ""
				if c.IsOverBudget {
					marker = "OVER"
				}
				fmt.Printf("%-20s  %12s  %12s  %12s  %s\n", c.Name,
					money.Format(c.Budgeted, ws.cfg.Currency),
					money.Format(c.Actual, ws.cfg.Currency),
					money.Format(c.Difference, ws.cfg.Currency),
					marker)
			}
			fmt.Printf("\n%-20s  %12s  %12s  %12s\n", "Total",
				money.Format(report.TotalBudgeted, ws.cfg.Currency),
				money.Format(report.TotalActual, ws.cfg.Currency),
				money.Format(report.TotalDifference, ws.cfg.Currency))
			printReadyToAssign(ws)
			return nil
		},
	}
}
