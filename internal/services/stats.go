package services

import (
	"context"
	"fmt"
	"time"

	"explorewithme/internal/domain"
)

type statsService struct {
	statsRepo      domain.StatsRepository
	contextTimeout time.Duration
}

func NewStatsService(statsRepo domain.StatsRepository, timeout time.Duration) domain.StatsService {
	return &statsService{
		statsRepo:      statsRepo,
		contextTimeout: timeout,
	}
}

func (s *statsService) RecordHit(ctx context.Context, hit *domain.EndpointHit) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if hit.App == "" || hit.URI == "" || hit.IP == "" {
		return domain.ErrInvalidInput
	}
	if hit.Timestamp.Time.IsZero() {
		hit.Timestamp = domain.NewDateTime(time.Now())
	}
	if err := s.statsRepo.Save(ctx, hit); err != nil {
		return fmt.Errorf("save hit: %w", err)
	}
	return nil
}

func (s *statsService) GetStats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]*domain.ViewStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if start.IsZero() || end.IsZero() || end.Before(start) {
		return nil, domain.ErrInvalidInput
	}
	stats, err := s.statsRepo.Aggregate(ctx, start, end, uris, unique)
	if err != nil {
		return nil, fmt.Errorf("aggregate hits: %w", err)
	}
	if stats == nil {
		stats = []*domain.ViewStats{}
	}
	return stats, nil
}
