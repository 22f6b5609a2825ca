package dashboard

import (
	"context"
	"fmt"

	"github.com/pettracker/pet/internal/utils"
	"github.com/pettracker/pet/pkg/aggregate"
	"github.com/pettracker/pet/pkg/budget"
	"github.com/pettracker/pet/pkg/category"
	"github.com/pettracker/pet/pkg/expense"
)

type Service interface {
	GetDashboard(ctx context.Context, month string) (Dashboard, error)
	CurrentMonth() string
}

type ServiceImpl struct {
	expenses   expense.Service
	budgets    budget.BudgetService
	categories category.Service
	clock      utils.Clock
}

func NewService(expenses expense.Service, budgets budget.BudgetService, categories category.Service, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{expenses: expenses, budgets: budgets, categories: categories, clock: clock}
}

func (s *ServiceImpl) CurrentMonth() string {
	return utils.CurrentMonth(s.clock)
}

func (s *ServiceImpl) GetDashboard(ctx context.Context, month string) (Dashboard, error) {
	entry, err := s.budgets.Get(ctx, month)
	if err != nil {
		return Dashboard{}, err
	}
	expenses, err := s.expenses.List(ctx, expense.Filter{Month: month})
	if err != nil {
		return Dashboard{}, fmt.Errorf("failed to list expenses of %s: %w", month, err)
	}
	categories, err := s.categories.List(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("failed to list categories: %w", err)
	}

	totalSpent := aggregate.TotalSpent(expenses)
	percent := aggregate.PercentUsed(totalSpent, entry.Overall)
	d := Dashboard{
		Month:               month,
		ExpenseCount:        len(expenses),
		TotalSpent:          totalSpent,
		Overall:             entry.Overall,
		CategoryBudgetTotal: aggregate.CategoryBudgetTotal(entry.Categories),
		PercentUsed:         percent,
		ProgressPercent:     aggregate.ClampPercent(percent),
		Rows: aggregate.BuildDashboardRows(
			aggregate.SpentByCategory(expenses),
			entry.Categories,
			category.Names(categories),
		),
	}
	if entry.Overall.IsPositive() {
		remaining := entry.Overall.Sub(totalSpent)
		d.Remaining = &remaining
	}
	return d, nil
}
