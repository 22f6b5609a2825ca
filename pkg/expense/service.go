package expense

import (
	"context"
	"errors"
	"strings"

	"github.com/pettracker/pet/internal/event_bus"
	"github.com/pettracker/pet/internal/utils"
	"github.com/pettracker/pet/pkg/money"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var (
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrInvalidDate      = utils.ErrInvalidDate
	ErrCategoryRequired = errors.New("category is required")
)

type Input struct {
	Date     string
	Category string
	Note     string
	Amount   decimal.Decimal
}

type Service interface {
	Get(ctx context.Context, id int) (Expense, error)
	List(ctx context.Context, filter Filter) ([]Expense, error)
	Create(ctx context.Context, input Input) (Expense, error)
	Update(ctx context.Context, id int, input Input) (Expense, error)
	Delete(ctx context.Context, id int) error
}

type ServiceImpl struct {
	repo     Repository
	eventBus *event_bus.EventBus
}

func NewService(repo Repository, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, eventBus: eventBus}
}

func (s *ServiceImpl) Get(ctx context.Context, id int) (Expense, error) {
	return s.repo.Get(ctx, id)
}

func (s *ServiceImpl) List(ctx context.Context, filter Filter) ([]Expense, error) {
	expenses, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	query := strings.ToLower(strings.TrimSpace(filter.Query))
	filtered := make([]Expense, 0, len(expenses))
	for _, e := range expenses {
		if filter.Month != "" && e.Month != filter.Month {
			continue
		}
		if filter.Category != "" && filter.Category != AllCategories && e.Category != filter.Category {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(e.Note), query) {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered, nil
}

func (s *ServiceImpl) Create(ctx context.Context, input Input) (Expense, error) {
	expense, err := fromInput(input)
	if err != nil {
		return Expense{}, err
	}
	created, err := s.repo.Store(ctx, expense)
	if err != nil {
		return Expense{}, err
	}
	log.Debugf("created expense %d in %s", created.Id, created.Month)
	s.publish(ctx, event_bus.ExpenseCreated, created)
	return created, nil
}

func (s *ServiceImpl) Update(ctx context.Context, id int, input Input) (Expense, error) {
	expense, err := fromInput(input)
	if err != nil {
		return Expense{}, err
	}
	expense.Id = id
	updated, err := s.repo.Update(ctx, expense)
	if err != nil {
		return Expense{}, err
	}
	s.publish(ctx, event_bus.ExpenseUpdated, updated)
	return updated, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrExpenseNotFound
	}
	s.publish(ctx, event_bus.ExpenseDeleted, existing)
	return nil
}

// The write is already stored, so a failing subscriber is only logged.
func (s *ServiceImpl) publish(ctx context.Context, eventType event_bus.EventType, e Expense) {
	if s.eventBus == nil {
		return
	}
	err := s.eventBus.Publish(event_bus.NewEvent(ctx, eventType, event_bus.ExpenseChanged{
		Id:       e.Id,
		Month:    e.Month,
		Date:     e.Date,
		Category: e.Category,
		Amount:   e.Amount.Decimal,
	}))
	if err != nil {
		log.Errorf("failed to publish %s event: %v", eventType, err)
	}
}

func fromInput(input Input) (Expense, error) {
	amount := money.NewAmount(input.Amount)
	if !amount.IsPositive() {
		return Expense{}, ErrInvalidAmount
	}
	date := strings.TrimSpace(input.Date)
	month, err := utils.MonthOfDate(date)
	if err != nil {
		return Expense{}, err
	}
	category := strings.TrimSpace(input.Category)
	if category == "" {
		return Expense{}, ErrCategoryRequired
	}
	return Expense{
		Month:    month,
		Date:     date,
		Category: category,
		Note:     strings.TrimSpace(input.Note),
		Amount:   amount,
	}, nil
}
