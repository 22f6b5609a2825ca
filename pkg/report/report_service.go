package report

import (
	"context"
	"sort"

	"github.com/pettracker/pet/internal/utils"
	"github.com/pettracker/pet/pkg/aggregate"
	"github.com/pettracker/pet/pkg/expense"
	"github.com/pettracker/pet/pkg/money"
	"github.com/shopspring/decimal"
)

type ReportService interface {
	MonthlyReport(ctx context.Context, month string) (MonthlyReport, error)
	MonthSummary(ctx context.Context, month string) (MonthSummary, error)
	MonthlySummary(ctx context.Context, month string) (MonthlySummary, error)
	CurrentMonth() string
}

type ReportServiceImpl struct {
	expenses expense.Service
	clock    utils.Clock
}

func NewReportServiceImpl(expenses expense.Service, clock utils.Clock) *ReportServiceImpl {
	return &ReportServiceImpl{expenses: expenses, clock: clock}
}

func (s *ReportServiceImpl) CurrentMonth() string {
	return utils.CurrentMonth(s.clock)
}

func (s *ReportServiceImpl) MonthlyReport(ctx context.Context, month string) (MonthlyReport, error) {
	summary, err := s.MonthSummary(ctx, month)
	if err != nil {
		return MonthlyReport{}, err
	}
	return MonthlyReport{
		Month: month,
		Total: summary.Total,
		Count: summary.Count,
		Bars:  bars(summary.Categories),
	}, nil
}

func (s *ReportServiceImpl) MonthSummary(ctx context.Context, month string) (MonthSummary, error) {
	if _, err := utils.ParseMonth(month); err != nil {
		return MonthSummary{}, err
	}
	expenses, err := s.expenses.List(ctx, expense.Filter{Month: month})
	if err != nil {
		return MonthSummary{}, err
	}
	return MonthSummary{
		Month:      month,
		Total:      aggregate.TotalSpent(expenses),
		Count:      len(expenses),
		Categories: aggregate.SpentByCategory(expenses),
		Expenses:   expenses,
	}, nil
}

// MonthlySummary compares month with the month before it.
func (s *ReportServiceImpl) MonthlySummary(ctx context.Context, month string) (MonthlySummary, error) {
	previousMonth, err := utils.PreviousMonth(month)
	if err != nil {
		return MonthlySummary{}, err
	}
	current, err := s.MonthSummary(ctx, month)
	if err != nil {
		return MonthlySummary{}, err
	}
	previous, err := s.MonthSummary(ctx, previousMonth)
	if err != nil {
		return MonthlySummary{}, err
	}
	return MonthlySummary{Current: current, Previous: previous}, nil
}

func bars(byCategory map[string]decimal.Decimal) []Bar {
	result := make([]Bar, 0, len(byCategory))
	maxAmount := decimal.Zero
	for name, amount := range byCategory {
		result = append(result, Bar{Category: name, Amount: amount})
		maxAmount = decimal.Max(maxAmount, amount)
	}
	sort.Slice(result, func(i, j int) bool {
		if c := result[i].Amount.Cmp(result[j].Amount); c != 0 {
			return c > 0
		}
		return result[i].Category < result[j].Category
	})
	for i := range result {
		if maxAmount.IsPositive() {
			result[i].Percent = result[i].Amount.Mul(money.Hundred()).Div(maxAmount)
		} else {
			result[i].Percent = decimal.Zero
		}
	}
	return result
}
