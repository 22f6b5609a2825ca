package expense

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/pettracker/pet/pkg/money"
	"github.com/pettracker/pet/pkg/store"
	log "github.com/sirupsen/logrus"
)

var ErrExpenseNotFound = errors.New("expense not found")

type Repository interface {
	List(ctx context.Context) ([]Expense, error)
	Get(ctx context.Context, id int) (Expense, error)
	// Store assigns the next free id and appends the expense.
	Store(ctx context.Context, expense Expense) (Expense, error)
	Update(ctx context.Context, expense Expense) (Expense, error)
	Delete(ctx context.Context, id int) (bool, error)
}

// RepositoryImpl keeps all expenses as one JSON array in the blob store.
type RepositoryImpl struct {
	mu    sync.Mutex
	store store.Store
}

func NewRepository(s store.Store) *RepositoryImpl {
	return &RepositoryImpl{store: s}
}

func (r *RepositoryImpl) List(ctx context.Context) ([]Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

func (r *RepositoryImpl) Get(ctx context.Context, id int) (Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	expenses, err := r.load(ctx)
	if err != nil {
		return Expense{}, err
	}
	idx := indexOf(expenses, id)
	if idx == -1 {
		return Expense{}, ErrExpenseNotFound
	}
	return expenses[idx], nil
}

func (r *RepositoryImpl) Store(ctx context.Context, expense Expense) (Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	expenses, err := r.load(ctx)
	if err != nil {
		return Expense{}, err
	}
	expense.Id = nextId(expenses)
	expenses = append(expenses, expense)
	if err := r.save(ctx, expenses); err != nil {
		return Expense{}, err
	}
	return expense, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, expense Expense) (Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	expenses, err := r.load(ctx)
	if err != nil {
		return Expense{}, err
	}
	idx := indexOf(expenses, expense.Id)
	if idx == -1 {
		return Expense{}, ErrExpenseNotFound
	}
	expenses[idx] = expense
	if err := r.save(ctx, expenses); err != nil {
		return Expense{}, err
	}
	return expense, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	expenses, err := r.load(ctx)
	if err != nil {
		return false, err
	}
	idx := indexOf(expenses, id)
	if idx == -1 {
		return false, nil
	}
	expenses = append(expenses[:idx], expenses[idx+1:]...)
	if err := r.save(ctx, expenses); err != nil {
		return false, err
	}
	return true, nil
}

func (r *RepositoryImpl) load(ctx context.Context) ([]Expense, error) {
	blob, err := r.store.Get(ctx, store.ExpensesKey)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []Expense{}, nil
		}
		return nil, err
	}
	records := store.DecodeArray(store.ExpensesKey, blob)
	expenses := make([]Expense, 0, len(records))
	for _, record := range records {
		expenses = append(expenses, fromRecord(record))
	}
	return expenses, nil
}

func (r *RepositoryImpl) save(ctx context.Context, expenses []Expense) error {
	blob, err := json.Marshal(expenses)
	if err != nil {
		return fmt.Errorf("failed to encode expenses: %w", err)
	}
	if err := r.store.Set(ctx, store.ExpensesKey, blob); err != nil {
		log.Errorf("failed to save expenses: %v", err)
		return err
	}
	return nil
}

func fromRecord(record map[string]any) Expense {
	e := Expense{
		Id:       store.Int(record["id"]),
		Month:    store.String(record["month"]),
		Date:     store.String(record["date"]),
		Category: store.String(record["category"]),
		Note:     store.String(record["note"]),
		Amount:   money.NewAmount(money.FromAny(record["amount"])),
	}
	if e.Month == "" && len(e.Date) >= 7 {
		e.Month = e.Date[:7]
	}
	return e
}

func nextId(expenses []Expense) int {
	maxId := 0
	for _, e := range expenses {
		maxId = max(maxId, e.Id)
	}
	return maxId + 1
}

func indexOf(expenses []Expense, id int) int {
	for idx, e := range expenses {
		if e.Id == id {
			return idx
		}
	}
	return -1
}
