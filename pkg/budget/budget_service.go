package budget

import (
	"context"
	"errors"
	"maps"
	"strings"

	"github.com/pettracker/pet/internal/event_bus"
	"github.com/pettracker/pet/internal/utils"
	"github.com/pettracker/pet/pkg/aggregate"
	"github.com/pettracker/pet/pkg/money"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var (
	ErrInvalidMonth     = utils.ErrInvalidMonth
	ErrInvalidAmount    = errors.New("budget must be greater than zero")
	ErrCategoryRequired = errors.New("category is required")
	ErrOverallExceeded  = aggregate.ErrOverallExceeded
)

type BudgetService interface {
	Get(ctx context.Context, month string) (Entry, error)
	GetCurrent(ctx context.Context) (Entry, error)
	GetAll(ctx context.Context) ([]Entry, error)
	SetOverall(ctx context.Context, month string, overall decimal.Decimal) (Entry, error)
	ResetOverall(ctx context.Context, month string) (Entry, error)
	SetCategoryBudget(ctx context.Context, month, category string, value decimal.Decimal) (Entry, error)
	DeleteCategoryBudget(ctx context.Context, month, category string) (Entry, error)
}

type BudgetServiceImpl struct {
	repo     BudgetRepo
	eventBus *event_bus.EventBus
	clock    utils.Clock
}

func NewBudgetServiceImpl(repo BudgetRepo, eventBus *event_bus.EventBus, clock utils.Clock) *BudgetServiceImpl {
	return &BudgetServiceImpl{repo: repo, eventBus: eventBus, clock: clock}
}

func (s *BudgetServiceImpl) Get(ctx context.Context, month string) (Entry, error) {
	if _, err := utils.ParseMonth(month); err != nil {
		return Entry{}, err
	}
	return s.repo.Get(ctx, month)
}

func (s *BudgetServiceImpl) GetCurrent(ctx context.Context) (Entry, error) {
	return s.repo.Get(ctx, utils.CurrentMonth(s.clock))
}

func (s *BudgetServiceImpl) GetAll(ctx context.Context) ([]Entry, error) {
	return s.repo.GetAll(ctx)
}

// SetOverall rejects an overall budget lower than the month's existing category budgets.
func (s *BudgetServiceImpl) SetOverall(ctx context.Context, month string, overall decimal.Decimal) (Entry, error) {
	overall = money.Normalize(overall)
	if !overall.IsPositive() {
		return Entry{}, ErrInvalidAmount
	}
	return s.update(ctx, month, func(e *Entry) error {
		if err := aggregate.ValidateBudgetWrite(overall, e.Categories); err != nil {
			return err
		}
		e.Overall = overall
		return nil
	})
}

func (s *BudgetServiceImpl) ResetOverall(ctx context.Context, month string) (Entry, error) {
	return s.update(ctx, month, func(e *Entry) error {
		e.Overall = decimal.Zero
		return nil
	})
}

func (s *BudgetServiceImpl) SetCategoryBudget(ctx context.Context, month, category string, value decimal.Decimal) (Entry, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return Entry{}, ErrCategoryRequired
	}
	value = money.Normalize(value)
	if !value.IsPositive() {
		return Entry{}, ErrInvalidAmount
	}
	return s.update(ctx, month, func(e *Entry) error {
		proposed := maps.Clone(e.Categories)
		if proposed == nil {
			proposed = map[string]decimal.Decimal{}
		}
		proposed[category] = value
		if err := aggregate.ValidateBudgetWrite(e.Overall, proposed); err != nil {
			return err
		}
		e.Categories = proposed
		return nil
	})
}

func (s *BudgetServiceImpl) DeleteCategoryBudget(ctx context.Context, month, category string) (Entry, error) {
	return s.update(ctx, month, func(e *Entry) error {
		delete(e.Categories, category)
		return nil
	})
}

func (s *BudgetServiceImpl) update(ctx context.Context, month string, fn func(*Entry) error) (Entry, error) {
	if _, err := utils.ParseMonth(month); err != nil {
		return Entry{}, err
	}
	updated, err := s.repo.Update(ctx, month, fn)
	if err != nil {
		return Entry{}, err
	}
	log.Debugf("budget for %s updated: overall %s, %d category budgets", month, updated.Overall.StringFixed(money.Places), len(updated.Categories))
	if s.eventBus != nil {
		err = s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.BudgetUpdated, event_bus.BudgetChanged{
			Month:      updated.Month,
			Overall:    updated.Overall,
			Categories: maps.Clone(updated.Categories),
		}))
		if err != nil {
			log.Errorf("failed to publish budget update event: %v", err)
		}
	}
	return updated, nil
}
