package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"explorewithme/internal/domain"
)

type compilationService struct {
	compilationRepo domain.CompilationRepository
	eventRepo       domain.EventRepository
	contextTimeout  time.Duration
}

func NewCompilationService(compilationRepo domain.CompilationRepository,
	eventRepo domain.EventRepository,
	timeout time.Duration,
) domain.CompilationService {
	return &compilationService{
		compilationRepo: compilationRepo,
		eventRepo:       eventRepo,
		contextTimeout:  timeout,
	}
}

func (s *compilationService) CreateCompilation(ctx context.Context, title string, pinned bool, eventIDs []int64) (*domain.Compilation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if title == "" {
		return nil, domain.ErrInvalidInput
	}
	for _, id := range eventIDs {
		if _, err := s.eventRepo.GetByID(ctx, id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrNotFound
			}
			return nil, fmt.Errorf("get event: %w", err)
		}
	}
	compilation := &domain.Compilation{Title: title, Pinned: pinned}
	if err := s.compilationRepo.Create(ctx, compilation, eventIDs); err != nil {
		return nil, fmt.Errorf("create compilation: %w", err)
	}
	created, err := s.compilationRepo.GetByID(ctx, compilation.ID)
	if err != nil {
		return nil, fmt.Errorf("reload compilation: %w", err)
	}
	return created, nil
}

func (s *compilationService) DeleteCompilation(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.compilationRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete compilation: %w", err)
	}
	return nil
}

func (s *compilationService) AddEventToCompilation(ctx context.Context, compilationID, eventID int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.compilationRepo.GetByID(ctx, compilationID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get compilation: %w", err)
	}
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	contains, err := s.compilationRepo.ContainsEvent(ctx, compilationID, eventID)
	if err != nil {
		return fmt.Errorf("check compilation: %w", err)
	}
	if contains {
		return domain.ErrConflict
	}
	if err := s.compilationRepo.AddEvent(ctx, compilationID, eventID); err != nil {
		return fmt.Errorf("add event: %w", err)
	}
	return nil
}

func (s *compilationService) RemoveEventFromCompilation(ctx context.Context, compilationID, eventID int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	contains, err := s.compilationRepo.ContainsEvent(ctx, compilationID, eventID)
	if err != nil {
		return fmt.Errorf("check compilation: %w", err)
	}
	if !contains {
		return domain.ErrNotFound
	}
	if err := s.compilationRepo.RemoveEvent(ctx, compilationID, eventID); err != nil {
		return fmt.Errorf("remove event: %w", err)
	}
	return nil
}

func (s *compilationService) PinCompilation(ctx context.Context, id int64, pinned bool) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.compilationRepo.SetPinned(ctx, id, pinned); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("pin compilation: %w", err)
	}
	return nil
}

func (s *compilationService) GetCompilation(ctx context.Context, id int64) (*domain.Compilation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	compilation, err := s.compilationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get compilation: %w", err)
	}
	return compilation, nil
}

func (s *compilationService) ListCompilations(ctx context.Context, pinned *bool, params domain.PaginationParams) ([]*domain.Compilation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	compilations, err := s.compilationRepo.List(ctx, pinned, params)
	if err != nil {
		return nil, fmt.Errorf("list compilations: %w", err)
	}
	if compilations == nil {
		compilations = []*domain.Compilation{}
	}
	return compilations, nil
}
