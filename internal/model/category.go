package model

import "github.com/shopspring/decimal"

// CategoryKind classifies budget categories.
type CategoryKind string

const (
	CategoryFixed    CategoryKind = "fixed"
	CategoryVariable CategoryKind = "variable"
	CategoryPeriodic CategoryKind = "periodic"
	CategoryIncome   CategoryKind = "income"
)

// Valid reports whether k is a known category kind.
func (k CategoryKind) Valid() bool {
	switch k {
	case CategoryFixed, CategoryVariable, CategoryPeriodic, CategoryIncome:
		return true
	}
	return false
}

// DueDateKind selects how a category's due date resolves within a month.
type DueDateKind string

const (
	DueNone    DueDateKind = "none"
	DueDay     DueDateKind = "day"
	DueLastDay DueDateKind = "last-day"
)

// DueDateSpec describes a recurring due date. Day is only meaningful when
// Kind is DueDay.
type DueDateSpec struct {
	Kind DueDateKind
	Day  int
}

// BudgetCategory is an envelope that money gets assigned to.
//
// AssignedAmount is the currently committed amount; zero is a normal state
// (tracked but unfunded). Income categories are never budgeted against.
type BudgetCategory struct {
	ID             string
	Name           string
	AssignedAmount decimal.Decimal
	Kind           CategoryKind
	Color          string
	Due            DueDateSpec
}

// MonthlyAllocation is the committed amount for one category in one month,
// keyed by the normalized first-of-month key ("2006-01").
type MonthlyAllocation struct {
	CategoryID string
	MonthKey   string
	Assigned   decimal.Decimal
	Rollover   decimal.Decimal
}

// CategoryComparison is a derived budgeted-vs-actual line for one category
// in one reporting period. It is never persisted.
type CategoryComparison struct {
	CategoryID     string
	Name           string
	Color          string
	Budgeted       decimal.Decimal
	Actual         decimal.Decimal
	Difference     decimal.Decimal
	PercentageUsed decimal.Decimal
	IsOverBudget   bool
}
