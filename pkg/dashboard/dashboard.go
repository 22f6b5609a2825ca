package dashboard

import (
	"github.com/pettracker/pet/pkg/aggregate"
	"github.com/shopspring/decimal"
)

// Dashboard is the budget-versus-spending view of one month.
type Dashboard struct {
	Month        string
	ExpenseCount int
	TotalSpent   decimal.Decimal
	Overall      decimal.Decimal
	// Remaining is nil when the month has no overall budget.
	Remaining           *decimal.Decimal
	CategoryBudgetTotal decimal.Decimal
	// PercentUsed is uncapped; ProgressPercent is the same value clamped to 0-100.
	PercentUsed     decimal.Decimal
	ProgressPercent decimal.Decimal
	Rows            []aggregate.Row
}

// Empty reports whether the month has neither expenses nor budgets.
func (d Dashboard) Empty() bool {
	return d.ExpenseCount == 0 && d.Overall.IsZero() && d.CategoryBudgetTotal.IsZero()
}
