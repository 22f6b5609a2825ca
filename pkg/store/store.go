// Package store keeps the application's collections as JSON blobs under fixed keys.
package store

import (
	"context"
	"errors"
)

const (
	ExpensesKey   = "pet_expenses_v1"
	CategoriesKey = "pet_categories_v1"
	BudgetsKey    = "pet_budgets_v1"
)

var ErrNotFound = errors.New("key not found")

type Store interface {
	// Get returns ErrNotFound when the key was never written.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, blob []byte) error
}
