package expense

import (
	"github.com/pettracker/pet/pkg/money"
)

// Expense is a single spending record. Month is always derived from Date.
type Expense struct {
	Id       int          `json:"id"`
	Month    string       `json:"month"`
	Date     string       `json:"date"`
	Category string       `json:"category"`
	Note     string       `json:"note"`
	Amount   money.Amount `json:"amount"`
}

type Filter struct {
	// Month is a YYYY-MM key, empty matches every month.
	Month string
	// Category matches exactly; empty or "all" matches every category.
	Category string
	// Query is matched case-insensitively against the note.
	Query string
}

const AllCategories = "all"
