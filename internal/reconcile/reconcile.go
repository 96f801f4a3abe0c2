// Package reconcile produces per-period budgeted-vs-actual comparisons.
// Everything here is a pure computation over snapshots; no state is held and
// nothing is mutated.
package reconcile

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/envelope-dev/envelope/internal/model"
	"github.com/envelope-dev/envelope/internal/monthkey"
)

// Report is the comparison set for one month plus its totals.
type Report struct {
	Year            int
	Month           time.Month
	Comparisons     []model.CategoryComparison
	TotalBudgeted   decimal.Decimal
	TotalActual     decimal.Decimal
	TotalDifference decimal.Decimal
}

// MonthRange returns the inclusive [start, end] span of a calendar month:
// midnight on the first day, and midnight on the day before the first day of
// the next month. time.Date normalizes day 0 of the next month to the last
// day, which handles 28/29/30/31-day months and leap Februaries.
//
// The span is always UTC. Transaction dates enter the system through
// time.Parse, which yields UTC midnights; a window built in any other
// location would shift first-of-month rows into the wrong month.
func MonthRange(year int, month time.Month) (start, end time.Time) {
	start = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	return start, end
}

// CompareMonth builds the budgeted-vs-actual comparison for every non-income
// category over the given month.
//
// Income categories are always excluded: income is never budgeted, only
// logged through transactions. Actual spending counts expense transactions
// dated inside the month and linked to the category. Budgeted comes from the
// month's allocation (assigned plus rollover) when one exists, falling back
// to the category's current assigned amount. Results are sorted by category
// name ascending, compared case-insensitively via strings.ToLower.
func CompareMonth(cats []model.BudgetCategory, allocs []model.MonthlyAllocation, txs []model.Transaction, year int, month time.Month) Report {
	start, _ := MonthRange(year, month)
	next := start.AddDate(0, 1, 0)
	key := monthkey.Format(year, month)

	byCat := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		if tx.Kind != model.KindExpense || tx.CategoryID == "" {
			continue
		}
		if tx.Date.Before(start) || !tx.Date.Before(next) {
			continue
		}
		byCat[tx.CategoryID] = byCat[tx.CategoryID].Add(tx.Amount)
	}

	allocFor := make(map[string]model.MonthlyAllocation)
	for _, a := range allocs {
		if a.MonthKey == key {
			allocFor[a.CategoryID] = a
		}
	}

	report := Report{Year: year, Month: month}
	for _, c := range cats {
		if c.Kind == model.CategoryIncome {
			continue
		}
		budgeted := c.AssignedAmount
		if a, ok := allocFor[c.ID]; ok {
			budgeted = a.Assigned.Add(a.Rollover)
		}
		actual := byCat[c.ID]

		cmp := model.CategoryComparison{
			CategoryID:   c.ID,
			Name:         c.Name,
			Color:        c.Color,
			Budgeted:     budgeted,
			Actual:       actual,
			Difference:   budgeted.Sub(actual),
			IsOverBudget: actual.GreaterThan(budgeted),
		}
		// Division by zero guard: an unfunded category has no meaningful
		// usage percentage, so it reports zero.
		if !budgeted.IsZero() {
			cmp.PercentageUsed = actual.Div(budgeted)
		}
		report.Comparisons = append(report.Comparisons, cmp)
		report.TotalBudgeted = report.TotalBudgeted.Add(budgeted)
		report.TotalActual = report.TotalActual.Add(actual)
	}
	report.TotalDifference = report.TotalBudgeted.Sub(report.TotalActual)

	sort.SliceStable(report.Comparisons, func(i, j int) bool {
		return strings.ToLower(report.Comparisons[i].Name) < strings.ToLower(report.Comparisons[j].Name)
	})
	return report
}
