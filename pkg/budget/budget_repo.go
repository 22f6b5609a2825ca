package budget

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/pettracker/pet/pkg/money"
	"github.com/pettracker/pet/pkg/store"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type BudgetRepo interface {
	// Get returns an empty entry for a month that was never written, without storing it.
	Get(ctx context.Context, month string) (Entry, error)
	GetAll(ctx context.Context) ([]Entry, error)
	// Update applies fn to the month's entry and stores the result. Nothing is
	// stored when fn returns an error.
	Update(ctx context.Context, month string, fn func(*Entry) error) (Entry, error)
}

type BudgetRepoImpl struct {
	mu    sync.Mutex
	store store.Store
}

func NewBudgetRepo(s store.Store) *BudgetRepoImpl {
	return &BudgetRepoImpl{store: s}
}

type entryJSON struct {
	Overall    money.Amount            `json:"overall"`
	Categories map[string]money.Amount `json:"categories"`
}

func (r *BudgetRepoImpl) Get(ctx context.Context, month string) (Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all, err := r.load(ctx)
	if err != nil {
		return Entry{}, err
	}
	if entry, ok := all[month]; ok {
		return entry, nil
	}
	return NewEntry(month), nil
}

func (r *BudgetRepoImpl) GetAll(ctx context.Context) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(all))
	for _, entry := range all {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Month < entries[j].Month })
	return entries, nil
}

func (r *BudgetRepoImpl) Update(ctx context.Context, month string, fn func(*Entry) error) (Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all, err := r.load(ctx)
	if err != nil {
		return Entry{}, err
	}
	entry, ok := all[month]
	if !ok {
		entry = NewEntry(month)
	}
	entry = entry.Clone()
	if err := fn(&entry); err != nil {
		return Entry{}, err
	}
	all[month] = entry
	if err := r.save(ctx, all); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

func (r *BudgetRepoImpl) load(ctx context.Context) (map[string]Entry, error) {
	blob, err := r.store.Get(ctx, store.BudgetsKey)
	if errors.Is(err, store.ErrNotFound) {
		return map[string]Entry{}, nil
	}
	if err != nil {
		return nil, err
	}
	raw := store.DecodeObject(store.BudgetsKey, blob)
	all := make(map[string]Entry, len(raw))
	for month, value := range raw {
		record := store.Object(value)
		entry := NewEntry(month)
		entry.Overall = amount(record["overall"])
		for name, v := range store.Object(record["categories"]) {
			entry.Categories[name] = amount(v)
		}
		all[month] = entry
	}
	return all, nil
}

func (r *BudgetRepoImpl) save(ctx context.Context, all map[string]Entry) error {
	doc := make(map[string]entryJSON, len(all))
	for month, entry := range all {
		categories := make(map[string]money.Amount, len(entry.Categories))
		for name, v := range entry.Categories {
			categories[name] = money.NewAmount(v)
		}
		doc[month] = entryJSON{Overall: money.NewAmount(entry.Overall), Categories: categories}
	}
	blob, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode budgets: %w", err)
	}
	if err := r.store.Set(ctx, store.BudgetsKey, blob); err != nil {
		log.Errorf("failed to save budgets: %v", err)
		return err
	}
	return nil
}

func amount(v any) decimal.Decimal {
	return money.Normalize(money.NonNegative(money.FromAny(v)))
}
