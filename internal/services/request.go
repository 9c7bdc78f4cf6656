package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"explorewithme/internal/domain"
)

type requestService struct {
	requestRepo    domain.RequestRepository
	userRepo       domain.UserRepository
	contextTimeout time.Duration
}

func NewRequestService(requestRepo domain.RequestRepository,
	userRepo domain.UserRepository,
	timeout time.Duration,
) domain.RequestService {
	return &requestService{
		requestRepo:    requestRepo,
		userRepo:       userRepo,
		contextTimeout: timeout,
	}
}

func (s *requestService) GetUserRequests(ctx context.Context, userID int64) ([]*domain.Request, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	requests, err := s.requestRepo.ListByRequester(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	if requests == nil {
		requests = []*domain.Request{}
	}
	return requests, nil
}

func (s *requestService) CreateRequest(ctx context.Context, userID, eventID int64) (*domain.Request, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	// Admission preconditions run inside the repository transaction against
	// a locked event row; validation errors come back as-is.
	req, err := s.requestRepo.Submit(ctx, eventID, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound),
			errors.Is(err, domain.ErrDuplicateRequest),
			errors.Is(err, domain.ErrSelfParticipation),
			errors.Is(err, domain.ErrEventNotPublished),
			errors.Is(err, domain.ErrCapacityExceeded):
			return nil, err
		}
		return nil, fmt.Errorf("submit request: %w", err)
	}
	return req, nil
}

func (s *requestService) CancelRequest(ctx context.Context, userID, requestID int64) (*domain.Request, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get request: %w", err)
	}
	if err := domain.DecideCancel(req, userID); err != nil {
		return nil, err
	}
	if req.Status == domain.RequestStatusCanceled {
		return req, nil
	}
	updated, err := s.requestRepo.UpdateStatus(ctx, requestID, domain.RequestStatusCanceled)
	if err != nil {
		return nil, fmt.Errorf("cancel request: %w", err)
	}
	return updated, nil
}
