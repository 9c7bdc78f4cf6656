package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"explorewithme/internal/domain"
)

const (
	// Events must be created at least this far in the future.
	minCreateLead = 2 * time.Hour
	// Publication and rejection are allowed only this far before the event.
	minModerationLead = time.Hour
)

type eventService struct {
	eventRepo      domain.EventRepository
	requestRepo    domain.RequestRepository
	userRepo       domain.UserRepository
	categoryRepo   domain.CategoryRepository
	statsClient    domain.StatsClient
	emailService   domain.EmailService
	contextTimeout time.Duration
}

func NewEventService(eventRepo domain.EventRepository,
	requestRepo domain.RequestRepository,
	userRepo domain.UserRepository,
	categoryRepo domain.CategoryRepository,
	statsClient domain.StatsClient,
	emailService domain.EmailService,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		requestRepo:    requestRepo,
		userRepo:       userRepo,
		categoryRepo:   categoryRepo,
		statsClient:    statsClient,
		emailService:   emailService,
		contextTimeout: timeout,
	}
}

// addViews fills the Views field of each event from the statistics service.
// Views are display-only; a stats outage leaves them at zero.
func (s *eventService) addViews(ctx context.Context, events ...*domain.Event) {
	if s.statsClient == nil || len(events) == 0 {
		return
	}
	uris := make([]string, 0, len(events))
	start := events[0].CreatedOn.Time
	for _, e := range events {
		uris = append(uris, fmt.Sprintf("/events/%d", e.ID))
		if e.CreatedOn.Time.Before(start) {
			start = e.CreatedOn.Time
		}
	}
	stats, err := s.statsClient.GetViews(ctx, start, time.Now(), uris, false)
	if err != nil {
		return
	}
	hits := make(map[string]int64, len(stats))
	for _, st := range stats {
		hits[st.URI] = st.Hits
	}
	for _, e := range events {
		e.Views = hits[fmt.Sprintf("/events/%d", e.ID)]
	}
}

func (s *eventService) getOwnedEvent(ctx context.Context, userID, eventID int64) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.Initiator == nil || event.Initiator.ID != userID {
		return nil, domain.ErrForbidden
	}
	return event, nil
}

func (s *eventService) GetUserEvents(ctx context.Context, userID int64, params domain.PaginationParams) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	events, err := s.eventRepo.ListByInitiator(ctx, userID, params)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	s.addViews(ctx, events...)
	return events, nil
}

func (s *eventService) CreateEvent(ctx context.Context, userID int64, event *domain.Event, categoryID int64) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	if event.EventDate.Time.Before(time.Now().Add(minCreateLead)) {
		return nil, domain.ErrInvalidInput
	}

	event.Initiator = user
	event.Category = category
	event.State = domain.EventStatePending
	event.CreatedOn = domain.NewDateTime(time.Now())
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	created, err := s.eventRepo.GetByID(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("reload event: %w", err)
	}
	return created, nil
}

func (s *eventService) PatchEvent(ctx context.Context, userID int64, patch domain.EventPatch) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, patch.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	// An initiator cannot see, and so cannot patch, someone else's event.
	if event.Initiator == nil || event.Initiator.ID != userID {
		return nil, domain.ErrNotFound
	}
	if event.State == domain.EventStatePublished {
		return nil, domain.ErrConflict
	}

	updated, err := s.applyPatch(ctx, event, patch)
	if err != nil {
		return nil, err
	}
	// Editing a canceled event resubmits it for moderation.
	if event.State == domain.EventStateCanceled {
		updated.State = domain.EventStatePending
	}
	if updated.EventDate.Time.Before(time.Now().Add(minCreateLead)) {
		return nil, domain.ErrInvalidInput
	}
	if err := s.eventRepo.Update(ctx, updated); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	reloaded, err := s.eventRepo.GetByID(ctx, updated.ID)
	if err != nil {
		return nil, fmt.Errorf("reload event: %w", err)
	}
	s.addViews(ctx, reloaded)
	return reloaded, nil
}

func (s *eventService) applyPatch(ctx context.Context, event *domain.Event, patch domain.EventPatch) (*domain.Event, error) {
	if patch.Title != nil {
		event.Title = *patch.Title
	}
	if patch.Annotation != nil {
		event.Annotation = *patch.Annotation
	}
	if patch.Description != nil {
		event.Description = *patch.Description
	}
	if patch.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *patch.CategoryID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrNotFound
			}
			return nil, fmt.Errorf("get category: %w", err)
		}
		event.Category = category
	}
	if patch.EventDate != nil {
		event.EventDate = *patch.EventDate
	}
	if patch.Paid != nil {
		event.Paid = *patch.Paid
	}
	if patch.ParticipantLimit != nil {
		event.ParticipantLimit = *patch.ParticipantLimit
	}
	if patch.RequestModeration != nil {
		event.RequestModeration = *patch.RequestModeration
	}
	return event, nil
}

func (s *eventService) GetUserEvent(ctx context.Context, userID, eventID int64) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getOwnedEvent(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}
	s.addViews(ctx, event)
	return event, nil
}

func (s *eventService) CancelUserEvent(ctx context.Context, userID, eventID int64) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getOwnedEvent(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}
	if event.State != domain.EventStatePending {
		return nil, domain.ErrConflict
	}
	canceled, err := s.eventRepo.SetState(ctx, eventID, domain.EventStateCanceled, nil)
	if err != nil {
		return nil, fmt.Errorf("cancel event: %w", err)
	}
	return canceled, nil
}

func (s *eventService) GetEventRequests(ctx context.Context, userID, eventID int64) ([]*domain.Request, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.getOwnedEvent(ctx, userID, eventID); err != nil {
		return nil, err
	}
	requests, err := s.requestRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	if requests == nil {
		requests = []*domain.Request{}
	}
	return requests, nil
}

func (s *eventService) ConfirmEventRequest(ctx context.Context, userID, eventID, requestID int64) (*domain.Request, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getOwnedEvent(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}
	confirmed, cascaded, err := s.requestRepo.Confirm(ctx, eventID, requestID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound),
			errors.Is(err, domain.ErrCapacityExceeded),
			errors.Is(err, domain.ErrInvalidInput):
			return nil, err
		}
		return nil, fmt.Errorf("confirm request: %w", err)
	}
	s.notifyDecision(ctx, confirmed.RequesterID, event.Title, "confirmed")
	for _, req := range cascaded {
		s.notifyDecision(ctx, req.RequesterID, event.Title, "rejected")
	}
	return confirmed, nil
}

func (s *eventService) RejectEventRequest(ctx context.Context, userID, eventID, requestID int64) (*domain.Request, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getOwnedEvent(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get request: %w", err)
	}
	if req.EventID != eventID {
		return nil, domain.ErrNotFound
	}
	if req.Status == domain.RequestStatusRejected {
		return req, nil
	}
	rejected, err := s.requestRepo.UpdateStatus(ctx, requestID, domain.RequestStatusRejected)
	if err != nil {
		return nil, fmt.Errorf("reject request: %w", err)
	}
	s.notifyDecision(ctx, rejected.RequesterID, event.Title, "rejected")
	return rejected, nil
}

// notifyDecision emails the requester about the organizer's decision.
// Delivery failures never fail the moderation call.
func (s *eventService) notifyDecision(ctx context.Context, requesterID int64, eventTitle, decision string) {
	if s.emailService == nil {
		return
	}
	requester, err := s.userRepo.GetByID(ctx, requesterID)
	if err != nil {
		return
	}
	_ = s.emailService.SendRequestDecision(ctx, &domain.RequestDecisionEmailData{
		Email:      requester.Email,
		Name:       requester.Name,
		EventTitle: eventTitle,
		Decision:   decision,
	})
}

func (s *eventService) AdminSearchEvents(ctx context.Context, filter domain.AdminEventFilter, params domain.PaginationParams) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.AdminSearch(ctx, filter, params)
	if err != nil {
		return nil, fmt.Errorf("admin search: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	s.addViews(ctx, events...)
	return events, nil
}

func (s *eventService) AdminUpdateEvent(ctx context.Context, patch domain.EventPatch) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, patch.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	updated, err := s.applyPatch(ctx, event, patch)
	if err != nil {
		return nil, err
	}
	if err := s.eventRepo.Update(ctx, updated); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	reloaded, err := s.eventRepo.GetByID(ctx, updated.ID)
	if err != nil {
		return nil, fmt.Errorf("reload event: %w", err)
	}
	s.addViews(ctx, reloaded)
	return reloaded, nil
}

func (s *eventService) PublishEvent(ctx context.Context, eventID int64) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.State != domain.EventStatePending {
		return nil, domain.ErrConflict
	}
	if event.EventDate.Time.Before(time.Now().Add(minModerationLead)) {
		return nil, domain.ErrInvalidInput
	}
	publishedOn := domain.NewDateTime(time.Now())
	published, err := s.eventRepo.SetState(ctx, eventID, domain.EventStatePublished, &publishedOn)
	if err != nil {
		return nil, fmt.Errorf("publish event: %w", err)
	}
	return published, nil
}

func (s *eventService) RejectEvent(ctx context.Context, eventID int64) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.State == domain.EventStatePublished {
		return nil, domain.ErrConflict
	}
	rejected, err := s.eventRepo.SetState(ctx, eventID, domain.EventStateCanceled, nil)
	if err != nil {
		return nil, fmt.Errorf("reject event: %w", err)
	}
	return rejected, nil
}

func (s *eventService) GetPublicEvents(ctx context.Context, filter domain.PublicEventFilter, params domain.PaginationParams) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if filter.RangeStart != nil && filter.RangeEnd != nil &&
		filter.RangeEnd.Time.Before(filter.RangeStart.Time) {
		return nil, domain.ErrInvalidInput
	}
	events, err := s.eventRepo.PublicSearch(ctx, filter, params)
	if err != nil {
		return nil, fmt.Errorf("public search: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	s.addViews(ctx, events...)
	if filter.Sort == domain.EventSortViews {
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].Views > events[j].Views
		})
	}
	return events, nil
}

func (s *eventService) GetPublicEvent(ctx context.Context, eventID int64) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.State != domain.EventStatePublished {
		return nil, domain.ErrNotFound
	}
	s.addViews(ctx, event)
	return event, nil
}
