package budget

import (
	"maps"

	"github.com/shopspring/decimal"
)

// Entry is the budget of one month. An Overall of zero means the month is not tracked.
type Entry struct {
	Month      string
	Overall    decimal.Decimal
	Categories map[string]decimal.Decimal
}

func NewEntry(month string) Entry {
	return Entry{Month: month, Overall: decimal.Zero, Categories: map[string]decimal.Decimal{}}
}

func (e Entry) Clone() Entry {
	clone := e
	clone.Categories = maps.Clone(e.Categories)
	if clone.Categories == nil {
		clone.Categories = map[string]decimal.Decimal{}
	}
	return clone
}
