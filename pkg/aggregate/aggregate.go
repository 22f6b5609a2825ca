// Package aggregate derives spending totals, dashboard rows and budget checks
// from expense and budget records. Every function is pure.
package aggregate

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pettracker/pet/pkg/expense"
	"github.com/pettracker/pet/pkg/money"
	"github.com/shopspring/decimal"
)

// Uncategorized is the name used for expenses without a category.
const Uncategorized = "Uncategorized"

// ErrOverallExceeded is matched by OverallExceededError through errors.Is.
var ErrOverallExceeded = errors.New("category budgets exceed overall budget")

// OverallExceededError carries the full category total that broke the overall budget.
type OverallExceededError struct {
	Total   decimal.Decimal
	Overall decimal.Decimal
}

func (e *OverallExceededError) Error() string {
	return fmt.Sprintf("category budgets total %s exceeds overall budget %s",
		e.Total.StringFixed(money.Places), e.Overall.StringFixed(money.Places))
}

func (e *OverallExceededError) Is(target error) bool {
	return target == ErrOverallExceeded
}

// Row is one category line of the dashboard.
type Row struct {
	Category string
	Spent    decimal.Decimal
	Budget   decimal.Decimal
	// Remaining is nil when the category has no budget.
	Remaining *decimal.Decimal
}

func TotalSpent(expenses []expense.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(money.NonNegative(e.Amount.Decimal))
	}
	return total
}

func SpentByCategory(expenses []expense.Expense) map[string]decimal.Decimal {
	spent := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		name := CategoryName(e.Category)
		spent[name] = spent[name].Add(money.NonNegative(e.Amount.Decimal))
	}
	return spent
}

// CategoryName maps an empty or blank category to Uncategorized.
func CategoryName(category string) string {
	if strings.TrimSpace(category) == "" {
		return Uncategorized
	}
	return category
}

func CategoryBudgetTotal(categories map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range categories {
		total = total.Add(v)
	}
	return total
}

// ValidateBudgetWrite checks the complete proposed category mapping against the
// overall budget. An overall of zero means the month is not tracked.
func ValidateBudgetWrite(overall decimal.Decimal, proposed map[string]decimal.Decimal) error {
	if !overall.IsPositive() {
		return nil
	}
	total := CategoryBudgetTotal(proposed)
	if total.GreaterThan(overall) {
		return &OverallExceededError{Total: total, Overall: overall}
	}
	return nil
}

func BuildDashboardRows(spentByCat, categoryBudgets map[string]decimal.Decimal, knownCategoryNames []string) []Row {
	names := make(map[string]struct{}, len(spentByCat)+len(categoryBudgets)+len(knownCategoryNames))
	for name := range spentByCat {
		names[name] = struct{}{}
	}
	for name := range categoryBudgets {
		names[name] = struct{}{}
	}
	for _, name := range knownCategoryNames {
		names[name] = struct{}{}
	}

	rows := make([]Row, 0, len(names))
	for name := range names {
		row := Row{
			Category: name,
			Spent:    spentByCat[name],
			Budget:   categoryBudgets[name],
		}
		if !row.Budget.IsZero() {
			remaining := row.Budget.Sub(row.Spent)
			row.Remaining = &remaining
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if c := rows[i].Spent.Cmp(rows[j].Spent); c != 0 {
			return c > 0
		}
		return rows[i].Category < rows[j].Category
	})
	return rows
}

// PercentUsed is not capped; values above 100 mean overspending.
func PercentUsed(spent, overall decimal.Decimal) decimal.Decimal {
	if !overall.IsPositive() {
		return decimal.Zero
	}
	return spent.Mul(money.Hundred()).Div(overall)
}

// ClampPercent limits a percentage to the 0-100 range of a progress bar.
func ClampPercent(p decimal.Decimal) decimal.Decimal {
	if p.IsNegative() {
		return decimal.Zero
	}
	if p.GreaterThan(money.Hundred()) {
		return money.Hundred()
	}
	return p
}
