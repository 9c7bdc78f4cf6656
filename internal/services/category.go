package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"explorewithme/internal/domain"
)

type categoryService struct {
	categoryRepo   domain.CategoryRepository
	contextTimeout time.Duration
}

func NewCategoryService(categoryRepo domain.CategoryRepository, timeout time.Duration) domain.CategoryService {
	return &categoryService{
		categoryRepo:   categoryRepo,
		contextTimeout: timeout,
	}
}

func (s *categoryService) CreateCategory(ctx context.Context, category *domain.Category) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if category.Name == "" {
		return domain.ErrInvalidInput
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.ErrConflict
		}
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (s *categoryService) PatchCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if category.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := s.categoryRepo.GetByID(ctx, category.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	existing.Name = category.Name
	if err := s.categoryRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.ErrConflict
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return existing, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	count, err := s.categoryRepo.CountEvents(ctx, id)
	if err != nil {
		return fmt.Errorf("count events: %w", err)
	}
	// A category still referenced by events cannot be removed.
	if count > 0 {
		return domain.ErrConflict
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (s *categoryService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return category, nil
}

func (s *categoryService) ListCategories(ctx context.Context, params domain.PaginationParams) ([]*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	categories, err := s.categoryRepo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if categories == nil {
		categories = []*domain.Category{}
	}
	return categories, nil
}
