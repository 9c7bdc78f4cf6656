package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"explorewithme/internal/domain"
)

type commentService struct {
	commentRepo    domain.CommentRepository
	eventRepo      domain.EventRepository
	requestRepo    domain.RequestRepository
	userRepo       domain.UserRepository
	contextTimeout time.Duration
}

func NewCommentService(commentRepo domain.CommentRepository,
	eventRepo domain.EventRepository,
	requestRepo domain.RequestRepository,
	userRepo domain.UserRepository,
	timeout time.Duration,
) domain.CommentService {
	return &commentService{
		commentRepo:    commentRepo,
		eventRepo:      eventRepo,
		requestRepo:    requestRepo,
		userRepo:       userRepo,
		contextTimeout: timeout,
	}
}

func (s *commentService) CreateComment(ctx context.Context, userID, eventID int64, text string, rating int) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if text == "" || rating < 1 || rating > 5 {
		return nil, domain.ErrInvalidInput
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.State != domain.EventStatePublished {
		return nil, domain.ErrEventNotPublished
	}
	if err := s.checkConfirmedParticipant(ctx, userID, eventID); err != nil {
		return nil, err
	}
	if _, err := s.commentRepo.GetByCommentorAndEvent(ctx, userID, eventID); err == nil {
		return nil, domain.ErrConflict
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check comment: %w", err)
	}

	comment := &domain.Comment{
		EventID:     eventID,
		CommentorID: userID,
		Text:        text,
		Rating:      rating,
		Created:     domain.NewDateTime(time.Now()),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// checkConfirmedParticipant verifies the user holds a confirmed request on
// the event.
func (s *commentService) checkConfirmedParticipant(ctx context.Context, userID, eventID int64) error {
	requests, err := s.requestRepo.ListByRequester(ctx, userID)
	if err != nil {
		return fmt.Errorf("list requests: %w", err)
	}
	for _, req := range requests {
		if req.EventID == eventID && req.Status == domain.RequestStatusConfirmed {
			return nil
		}
	}
	return domain.ErrForbidden
}

func (s *commentService) PatchComment(ctx context.Context, userID, commentID int64, text string, rating int) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}
	if comment.CommentorID != userID {
		return nil, domain.ErrForbidden
	}
	if text != "" {
		comment.Text = text
	}
	if rating != 0 {
		if rating < 1 || rating > 5 {
			return nil, domain.ErrInvalidInput
		}
		comment.Rating = rating
	}
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return comment, nil
}

func (s *commentService) DeleteComment(ctx context.Context, userID, commentID int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get comment: %w", err)
	}
	if comment.CommentorID != userID {
		return domain.ErrForbidden
	}
	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

func (s *commentService) GetComment(ctx context.Context, commentID int64) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return comment, nil
}

func (s *commentService) SearchComments(ctx context.Context, text string, params domain.PaginationParams) ([]*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	comments, err := s.commentRepo.Search(ctx, text, params)
	if err != nil {
		return nil, fmt.Errorf("search comments: %w", err)
	}
	if comments == nil {
		comments = []*domain.Comment{}
	}
	return comments, nil
}
