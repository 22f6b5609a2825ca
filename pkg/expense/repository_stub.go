package expense

import (
	"context"
	"slices"
)

type RepositoryStub struct {
	expenses []Expense
	// Err is returned by every call when set.
	Err error
}

func NewRepositoryStub(expenses ...Expense) *RepositoryStub {
	return &RepositoryStub{expenses: slices.Clone(expenses)}
}

func (s *RepositoryStub) List(ctx context.Context) ([]Expense, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return slices.Clone(s.expenses), nil
}

func (s *RepositoryStub) Get(ctx context.Context, id int) (Expense, error) {
	if s.Err != nil {
		return Expense{}, s.Err
	}
	if idx := indexOf(s.expenses, id); idx != -1 {
		return s.expenses[idx], nil
	}
	return Expense{}, ErrExpenseNotFound
}

func (s *RepositoryStub) Store(ctx context.Context, expense Expense) (Expense, error) {
	if s.Err != nil {
		return Expense{}, s.Err
	}
	expense.Id = nextId(s.expenses)
	s.expenses = append(s.expenses, expense)
	return expense, nil
}

func (s *RepositoryStub) Update(ctx context.Context, expense Expense) (Expense, error) {
	if s.Err != nil {
		return Expense{}, s.Err
	}
	idx := indexOf(s.expenses, expense.Id)
	if idx == -1 {
		return Expense{}, ErrExpenseNotFound
	}
	s.expenses[idx] = expense
	return expense, nil
}

func (s *RepositoryStub) Delete(ctx context.Context, id int) (bool, error) {
	if s.Err != nil {
		return false, s.Err
	}
	idx := indexOf(s.expenses, id)
	if idx == -1 {
		return false, nil
	}
	s.expenses = slices.Delete(s.expenses, idx, idx+1)
	return true, nil
}

func (s *RepositoryStub) Cleanup() {
	s.expenses = nil
	s.Err = nil
}
