package category

import (
	"context"

	"github.com/pettracker/pet/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	List(ctx context.Context) ([]Category, error)
	Get(ctx context.Context, id int) (Category, error)
	Create(ctx context.Context, name string) (Category, error)
	Rename(ctx context.Context, id int, name string) (Category, error)
	Delete(ctx context.Context, id int) error
	ResetDefaults(ctx context.Context) ([]Category, error)
}

type ServiceImpl struct {
	repo     Repository
	eventBus *event_bus.EventBus
}

func NewService(repo Repository, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, eventBus: eventBus}
}

func (s *ServiceImpl) List(ctx context.Context) ([]Category, error) {
	return s.repo.List(ctx)
}

func (s *ServiceImpl) Get(ctx context.Context, id int) (Category, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return Category{}, err
	}
	idx := findById(categories, id)
	if idx == -1 {
		return Category{}, ErrCategoryNotFound
	}
	return categories[idx], nil
}

func (s *ServiceImpl) Create(ctx context.Context, name string) (Category, error) {
	name = NormalizeName(name)
	if name == "" {
		return Category{}, ErrCategoryNameRequired
	}
	created, err := s.repo.Store(ctx, name)
	if err != nil {
		return Category{}, err
	}
	s.publish(ctx, event_bus.CategoryCreated, event_bus.CategoryChanged{Id: created.Id, Name: created.Name})
	return created, nil
}

// Rename does not touch expenses or budgets that still reference the old name.
func (s *ServiceImpl) Rename(ctx context.Context, id int, name string) (Category, error) {
	name = NormalizeName(name)
	if name == "" {
		return Category{}, ErrCategoryNameRequired
	}
	old, err := s.Get(ctx, id)
	if err != nil {
		return Category{}, err
	}
	renamed, err := s.repo.Rename(ctx, id, name)
	if err != nil {
		return Category{}, err
	}
	s.publish(ctx, event_bus.CategoryRenamed, event_bus.CategoryChanged{Id: id, Name: renamed.Name, OldName: old.Name})
	return renamed, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCategoryNotFound
	}
	s.publish(ctx, event_bus.CategoryDeleted, event_bus.CategoryChanged{Id: id, Name: existing.Name})
	return nil
}

func (s *ServiceImpl) ResetDefaults(ctx context.Context) ([]Category, error) {
	categories, err := s.repo.Reset(ctx)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, event_bus.CategoriesReset, nil)
	return categories, nil
}

func (s *ServiceImpl) publish(ctx context.Context, eventType event_bus.EventType, data any) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(event_bus.NewEvent(ctx, eventType, data)); err != nil {
		log.Errorf("failed to publish %s event: %v", eventType, err)
	}
}
