package category

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/pettracker/pet/pkg/store"
	log "github.com/sirupsen/logrus"
)

var (
	ErrCategoryNotFound     = errors.New("category not found")
	ErrCategoryExists       = errors.New("category already exists")
	ErrCategoryNameRequired = errors.New("category name is required")
)

type Repository interface {
	// List seeds the default categories when none were ever stored.
	List(ctx context.Context) ([]Category, error)
	Store(ctx context.Context, name string) (Category, error)
	Rename(ctx context.Context, id int, name string) (Category, error)
	Delete(ctx context.Context, id int) (bool, error)
	Reset(ctx context.Context) ([]Category, error)
}

type RepositoryImpl struct {
	mu    sync.Mutex
	store store.Store
}

func NewRepository(s store.Store) *RepositoryImpl {
	return &RepositoryImpl{store: s}
}

func (r *RepositoryImpl) List(ctx context.Context) ([]Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

func (r *RepositoryImpl) Store(ctx context.Context, name string) (Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	categories, err := r.load(ctx)
	if err != nil {
		return Category{}, err
	}
	if findByName(categories, name, 0) != -1 {
		return Category{}, ErrCategoryExists
	}
	created := Category{Id: nextId(categories), Name: name}
	if err := r.save(ctx, append(categories, created)); err != nil {
		return Category{}, err
	}
	return created, nil
}

func (r *RepositoryImpl) Rename(ctx context.Context, id int, name string) (Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	categories, err := r.load(ctx)
	if err != nil {
		return Category{}, err
	}
	idx := findById(categories, id)
	if idx == -1 {
		return Category{}, ErrCategoryNotFound
	}
	if findByName(categories, name, id) != -1 {
		return Category{}, ErrCategoryExists
	}
	categories[idx].Name = name
	if err := r.save(ctx, categories); err != nil {
		return Category{}, err
	}
	return categories[idx], nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	categories, err := r.load(ctx)
	if err != nil {
		return false, err
	}
	idx := findById(categories, id)
	if idx == -1 {
		return false, nil
	}
	if err := r.save(ctx, append(categories[:idx], categories[idx+1:]...)); err != nil {
		return false, err
	}
	return true, nil
}

func (r *RepositoryImpl) Reset(ctx context.Context) ([]Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	categories := Defaults()
	if err := r.save(ctx, categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *RepositoryImpl) load(ctx context.Context) ([]Category, error) {
	blob, err := r.store.Get(ctx, store.CategoriesKey)
	if errors.Is(err, store.ErrNotFound) {
		log.Info("No categories stored yet, seeding defaults")
		categories := Defaults()
		return categories, r.save(ctx, categories)
	}
	if err != nil {
		return nil, err
	}
	records := store.DecodeArray(store.CategoriesKey, blob)
	categories := make([]Category, 0, len(records))
	for _, record := range records {
		name := NormalizeName(store.String(record["name"]))
		if name == "" {
			continue
		}
		categories = append(categories, Category{Id: store.Int(record["id"]), Name: name})
	}
	return categories, nil
}

func (r *RepositoryImpl) save(ctx context.Context, categories []Category) error {
	blob, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("failed to encode categories: %w", err)
	}
	if err := r.store.Set(ctx, store.CategoriesKey, blob); err != nil {
		log.Errorf("failed to save categories: %v", err)
		return err
	}
	return nil
}

func nextId(categories []Category) int {
	maxId := 0
	for _, c := range categories {
		maxId = max(maxId, c.Id)
	}
	return maxId + 1
}

func findById(categories []Category, id int) int {
	for idx, c := range categories {
		if c.Id == id {
			return idx
		}
	}
	return -1
}

// findByName matches case-insensitively, ignoring the category with id ignoreId.
func findByName(categories []Category, name string, ignoreId int) int {
	for idx, c := range categories {
		if c.Id != ignoreId && strings.EqualFold(c.Name, name) {
			return idx
		}
	}
	return -1
}
