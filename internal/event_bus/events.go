package event_bus

import "github.com/shopspring/decimal"

const (
	ExpenseCreated EventType = "expense.created"
	ExpenseUpdated EventType = "expense.updated"
	ExpenseDeleted EventType = "expense.deleted"

	CategoryCreated EventType = "category.created"
	CategoryRenamed EventType = "category.renamed"
	CategoryDeleted EventType = "category.deleted"
	CategoriesReset EventType = "category.reset"

	BudgetUpdated EventType = "budget.updated"
)

// AllEventTypes lists every domain event published by the services.
var AllEventTypes = []EventType{
	ExpenseCreated, ExpenseUpdated, ExpenseDeleted,
	CategoryCreated, CategoryRenamed, CategoryDeleted, CategoriesReset,
	BudgetUpdated,
}

type ExpenseChanged struct {
	Id       int             `json:"id"`
	Month    string          `json:"month"`
	Date     string          `json:"date"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

type CategoryChanged struct {
	Id      int    `json:"id"`
	Name    string `json:"name"`
	OldName string `json:"oldName,omitempty"`
}

type BudgetChanged struct {
	Month      string                     `json:"month"`
	Overall    decimal.Decimal            `json:"overall"`
	Categories map[string]decimal.Decimal `json:"categories"`
}
