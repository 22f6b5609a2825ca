package budget

import (
	"context"
	"sort"
)

type StubBudgetRepo struct {
	entries map[string]Entry
	Err     error
}

func NewStubBudgetRepo(entries ...Entry) *StubBudgetRepo {
	s := &StubBudgetRepo{entries: map[string]Entry{}}
	for _, e := range entries {
		s.entries[e.Month] = e.Clone()
	}
	return s
}

func (s *StubBudgetRepo) Get(ctx context.Context, month string) (Entry, error) {
	if s.Err != nil {
		return Entry{}, s.Err
	}
	if e, ok := s.entries[month]; ok {
		return e.Clone(), nil
	}
	return NewEntry(month), nil
}

func (s *StubBudgetRepo) GetAll(ctx context.Context) ([]Entry, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	entries := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e.Clone())
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Month < entries[j].Month })
	return entries, nil
}

func (s *StubBudgetRepo) Update(ctx context.Context, month string, fn func(*Entry) error) (Entry, error) {
	if s.Err != nil {
		return Entry{}, s.Err
	}
	entry, _ := s.Get(ctx, month)
	if err := fn(&entry); err != nil {
		return Entry{}, err
	}
	s.entries[month] = entry.Clone()
	return entry, nil
}

func (s *StubBudgetRepo) Cleanup() {
	s.entries = map[string]Entry{}
	s.Err = nil
}
