package reconcile

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/envelope-dev/envelope/internal/model"
)

func TestMonthRange(t *testing.T) {
	tests := []struct {
		name    string
		year    int
		month   time.Month
		lastDay int
	}{
		{"january", 2025, time.January, 31},
		{"april", 2025, time.April, 30},
		{"february leap", 2024, time.February, 29},
		{"february non-leap", 2023, time.February, 28},
		{"december year boundary", 2024, time.December, 31},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := MonthRange(tt.year, tt.month)
			assert.Equal(t, time.Date(tt.year, tt.month, 1, 0, 0, 0, 0, time.UTC), start)
			assert.Equal(t, tt.lastDay, end.Day())
			assert.Equal(t, tt.month, end.Month())
			assert.Equal(t, tt.year, end.Year())
			assert.Equal(t, time.UTC, start.Location())
			assert.Equal(t, time.UTC, end.Location())
		})
	}
}

func TestCompareMonth_BudgetedVsActual(t *testing.T) {
	cats := []model.BudgetCategory{
		{ID: "g", Name: "Groceries", Kind: model.CategoryVariable, AssignedAmount: dec("300")},
		{ID: "r", Name: "Rent", Kind: model.CategoryFixed, AssignedAmount: dec("1200")},
	}
	txs := []model.Transaction{
		expense("g", dec("120.50"), day(2025, 1, 5)),
		expense("g", dec("99.50"), day(2025, 1, 31)), // last day included
		expense("g", dec("50"), day(2025, 2, 1)),     // next month excluded
		expense("r", dec("1300"), day(2025, 1, 1)),
		income("g", dec("40"), day(2025, 1, 10)), // income tx never counts as spending
	}

	report := CompareMonth(cats, nil, txs, 2025, time.January)
	require.Len(t, report.Comparisons, 2)

	g := report.Comparisons[0]
	assert.Equal(t, "Groceries", g.Name)
	assert.True(t, g.Actual.Equal(dec("220")), "got %s", g.Actual)
	assert.True(t, g.Difference.Equal(dec("80")))
	assert.False(t, g.IsOverBudget)

	r := report.Comparisons[1]
	assert.Equal(t, "Rent", r.Name)
	assert.True(t, r.Actual.Equal(dec("1300")))
	assert.True(t, r.Difference.Equal(dec("-100")))
	assert.True(t, r.IsOverBudget)

	assert.True(t, report.TotalBudgeted.Equal(dec("1500")))
	assert.True(t, report.TotalActual.Equal(dec("1520")))
	assert.True(t, report.TotalDifference.Equal(dec("-20")))
}

func TestCompareMonth_FirstOfMonthStaysInItsMonth(t *testing.T) {
	// Transaction dates are parsed with time.Parse and land at UTC midnight.
	// A first-of-month row sits exactly on the window boundary; in any zone
	// west of UTC it would precede a local-midnight start and slide into the
	// previous month's report.
	first, err := time.Parse("2006-01-02", "2025-01-01")
	require.NoError(t, err)

	cats := []model.BudgetCategory{
		{ID: "g", Name: "Groceries", Kind: model.CategoryVariable, AssignedAmount: dec("300")},
	}
	txs := []model.Transaction{expense("g", dec("100"), first)}

	jan := CompareMonth(cats, nil, txs, 2025, time.January)
	require.Len(t, jan.Comparisons, 1)
	assert.True(t, jan.Comparisons[0].Actual.Equal(dec("100")), "Jan 1 expense counts in January, got %s", jan.Comparisons[0].Actual)

	dec24 := CompareMonth(cats, nil, txs, 2024, time.December)
	assert.True(t, dec24.Comparisons[0].Actual.IsZero(), "Jan 1 expense never bleeds into December")
}

func TestCompareMonth_IncomeCategoriesExcluded(t *testing.T) {
	cats := []model.BudgetCategory{
		{ID: "s", Name: "Salary", Kind: model.CategoryIncome, AssignedAmount: dec("5000")},
		{ID: "g", Name: "Groceries", Kind: model.CategoryVariable},
	}
	report := CompareMonth(cats, nil, nil, 2025, time.June)
	require.Len(t, report.Comparisons, 1)
	assert.Equal(t, "Groceries", report.Comparisons[0].Name)
	assert.True(t, report.TotalBudgeted.IsZero(), "income assignment never enters totals")
}

func TestCompareMonth_ZeroBudgetIsValidNotError(t *testing.T) {
	cats := []model.BudgetCategory{
		{ID: "n", Name: "New envelope", Kind: model.CategoryVariable},
	}
	txs := []model.Transaction{expense("n", dec("25"), day(2025, 3, 3))}

	report := CompareMonth(cats, nil, txs, 2025, time.March)
	require.Len(t, report.Comparisons, 1)
	c := report.Comparisons[0]
	assert.True(t, c.Budgeted.IsZero())
	assert.True(t, c.PercentageUsed.IsZero(), "division by zero guarded")
	assert.True(t, c.IsOverBudget)
}

func TestCompareMonth_AllocationOverridesAssigned(t *testing.T) {
	cats := []model.BudgetCategory{
		{ID: "g", Name: "Groceries", Kind: model.CategoryVariable, AssignedAmount: dec("300")},
	}
	allocs := []model.MonthlyAllocation{
		{CategoryID: "g", MonthKey: "2025-01", Assigned: dec("250"), Rollover: dec("30")},
		{CategoryID: "g", MonthKey: "2025-02", Assigned: dec("999")},
	}
	report := CompareMonth(cats, allocs, nil, 2025, time.January)
	require.Len(t, report.Comparisons, 1)
	assert.True(t, report.Comparisons[0].Budgeted.Equal(dec("280")), "assigned + rollover, got %s", report.Comparisons[0].Budgeted)
}

func TestCompareMonth_SortedByNameCaseInsensitive(t *testing.T) {
	cats := []model.BudgetCategory{
		{ID: "1", Name: "zebra", Kind: model.CategoryVariable},
		{ID: "2", Name: "Apple", Kind: model.CategoryVariable},
		{ID: "3", Name: "mango", Kind: model.CategoryVariable},
	}
	report := CompareMonth(cats, nil, nil, 2025, time.May)
	names := []string{report.Comparisons[0].Name, report.Comparisons[1].Name, report.Comparisons[2].Name}
	assert.Equal(t, []string{"Apple", "mango", "zebra"}, names)
}

func TestCompareMonth_PercentageUsed(t *testing.T) {
	cats := []model.BudgetCategory{
		{ID: "g", Name: "Groceries", Kind: model.CategoryVariable, AssignedAmount: dec("200")},
	}
	txs := []model.Transaction{expense("g", dec("50"), day(2025, 7, 4))}

	report := CompareMonth(cats, nil, txs, 2025, time.July)
	assert.True(t, report.Comparisons[0].PercentageUsed.Equal(dec("0.25")), "got %s", report.Comparisons[0].PercentageUsed)
}

func expense(catID string, amount decimal.Decimal, on time.Time) model.Transaction {
	return model.Transaction{Kind: model.KindExpense, CategoryID: catID, Amount: amount, Date: on}
}

func income(catID string, amount decimal.Decimal, on time.Time) model.Transaction {
	return model.Transaction{Kind: model.KindIncome, CategoryID: catID, Amount: amount, Date: on}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
