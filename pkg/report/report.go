package report

import (
	"github.com/pettracker/pet/pkg/expense"
	"github.com/shopspring/decimal"
)

// Bar is one category of a monthly report. Percent is relative to the largest bar.
type Bar struct {
	Category string
	Amount   decimal.Decimal
	Percent  decimal.Decimal
}

type MonthlyReport struct {
	Month string
	Total decimal.Decimal
	Count int
	Bars  []Bar
}

type MonthSummary struct {
	Month      string
	Total      decimal.Decimal
	Count      int
	Categories map[string]decimal.Decimal
	Expenses   []expense.Expense
}

type MonthlySummary struct {
	Current  MonthSummary
	Previous MonthSummary
}
